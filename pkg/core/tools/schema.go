// Package tools implements the callable-function registry: a static schema
// describing every tool a model may call, and the dispatch table binding
// those names to fetch functions.
package tools

import (
	"fmt"
	"os"

	"brquote/pkg/core/utils"
)

// ParameterSchema is a JSON-Schema fragment describing one tool parameter
// tree. It is shared verbatim with function-calling providers.
type ParameterSchema struct {
	Type        string                      `json:"type"`
	Description string                      `json:"description,omitempty"`
	Enum        []string                    `json:"enum,omitempty"`
	Items       *ParameterSchema            `json:"items,omitempty"`
	Properties  map[string]*ParameterSchema `json:"properties,omitempty"`
	Required    []string                    `json:"required,omitempty"`
	Default     any                         `json:"default,omitempty"`
}

// FunctionSpec declares one callable tool.
type FunctionSpec struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Parameters  *ParameterSchema `json:"parameters"`
}

// Schema is the full tool declaration set, loaded from the Hjson resource
// file so the declarations can carry comments.
type Schema struct {
	Functions []FunctionSpec `json:"functions"`
}

// LoadSchema reads and parses the tool schema file.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tool schema: %w", err)
	}
	return ParseSchema(data)
}

// ParseSchema parses an Hjson tool schema document.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := utils.UnmarshalHJSON(data, &s); err != nil {
		return nil, fmt.Errorf("tool schema: %w", err)
	}
	if len(s.Functions) == 0 {
		return nil, fmt.Errorf("tool schema declares no functions")
	}
	seen := make(map[string]bool, len(s.Functions))
	for _, f := range s.Functions {
		if f.Name == "" {
			return nil, fmt.Errorf("tool schema entry with empty name")
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("tool schema declares %q twice", f.Name)
		}
		seen[f.Name] = true
	}
	return &s, nil
}

// Find returns the declaration for a tool name.
func (s *Schema) Find(name string) (FunctionSpec, bool) {
	for _, f := range s.Functions {
		if f.Name == name {
			return f, true
		}
	}
	return FunctionSpec{}, false
}

// Names lists the declared tool names in schema order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Functions))
	for i, f := range s.Functions {
		names[i] = f.Name
	}
	return names
}
