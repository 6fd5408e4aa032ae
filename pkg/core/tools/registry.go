package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"brquote/pkg/core/logging"
)

// HandlerFunc executes one tool call. params is the decoded argument object;
// a returned error means the call was invalid and must surface to the caller,
// while upstream data gaps come back as nil results.
type HandlerFunc func(ctx context.Context, params map[string]any) (any, error)

// Registry binds declared tool names to handlers. Registration is rejected
// for names the schema does not declare, so the schema file stays the single
// source of truth for the callable surface.
type Registry struct {
	schema   *Schema
	handlers map[string]HandlerFunc
	log      *logrus.Entry
}

// NewRegistry builds an empty registry over a schema.
func NewRegistry(schema *Schema) *Registry {
	return &Registry{
		schema:   schema,
		handlers: make(map[string]HandlerFunc, len(schema.Functions)),
		log:      logging.Component("tools"),
	}
}

// Register binds a handler to a declared tool name.
func (r *Registry) Register(name string, h HandlerFunc) error {
	if _, ok := r.schema.Find(name); !ok {
		return fmt.Errorf("tool %q is not declared in the schema", name)
	}
	if _, dup := r.handlers[name]; dup {
		return fmt.Errorf("tool %q is already registered", name)
	}
	r.handlers[name] = h
	return nil
}

// Execute dispatches one tool call by name.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]any) (any, error) {
	h, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("unknown function %q: not a registered tool", name)
	}
	start := time.Now()
	result, err := h(ctx, params)
	entry := r.log.WithFields(logging.Fields{
		"function": name,
		"elapsed":  time.Since(start).String(),
	})
	if err != nil {
		entry.WithError(err).Warn("tool call failed")
		return nil, err
	}
	entry.Info("tool call completed")
	return result, nil
}

// Schema returns the declaration set the registry was built over.
func (r *Registry) Schema() *Schema { return r.schema }

// MissingHandlers lists declared names with no handler, for a startup sanity
// check.
func (r *Registry) MissingHandlers() []string {
	var missing []string
	for _, f := range r.schema.Functions {
		if _, ok := r.handlers[f.Name]; !ok {
			missing = append(missing, f.Name)
		}
	}
	return missing
}
