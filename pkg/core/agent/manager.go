// Package agent drives language models against the tool registry: provider
// selection from config plus the function-calling loop.
package agent

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"brquote/pkg/core/llm"
	"brquote/pkg/core/logging"
)

// Config selects the provider and model the agent runs on.
type Config struct {
	ActiveProvider string `yaml:"active_provider"`
	Model          string `yaml:"model"`
	MaxToolTurns   int    `yaml:"max_tool_turns"`
}

// Manager owns the provider instances and the active selection.
type Manager struct {
	config    Config
	providers map[string]llm.Provider
	log       *logrus.Entry
}

// NewManager builds a Manager over the known providers.
func NewManager(config Config) *Manager {
	if config.MaxToolTurns < 1 {
		config.MaxToolTurns = 4
	}
	return &Manager{
		config: config,
		providers: map[string]llm.Provider{
			"gemini":   &llm.GeminiProvider{Model: config.Model},
			"deepseek": &llm.DeepSeekProvider{Model: config.Model},
		},
		log: logging.Component("agent"),
	}
}

// ActiveProvider returns the configured provider name.
func (m *Manager) ActiveProvider() string {
	return m.config.ActiveProvider
}

// Model returns the configured model name.
func (m *Manager) Model() string {
	return m.config.Model
}

// Provider resolves the active provider, falling back to gemini when the
// configured name is unknown.
func (m *Manager) Provider() llm.Provider {
	if p, ok := m.providers[m.config.ActiveProvider]; ok {
		return p
	}
	m.log.WithField("provider", m.config.ActiveProvider).Warn("unknown provider, falling back to gemini")
	return m.providers["gemini"]
}

// ProviderByName resolves a provider by name.
func (m *Manager) ProviderByName(name string) (llm.Provider, error) {
	p, ok := m.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not found", name)
	}
	return p, nil
}

// SetActiveProvider switches the global provider selection.
func (m *Manager) SetActiveProvider(name string) error {
	if _, ok := m.providers[name]; !ok {
		return fmt.Errorf("provider %q not found", name)
	}
	m.config.ActiveProvider = name
	m.log.WithField("provider", name).Info("active provider changed")
	return nil
}

// ExecutePrompt sends one plain prompt through the active provider, adapting
// the system prompt to the model first.
func (m *Manager) ExecutePrompt(ctx context.Context, prompt, systemPrompt string, options map[string]any) (string, error) {
	provider := m.Provider()
	return provider.GenerateResponse(ctx, prompt, provider.AdaptInstructions(systemPrompt), options)
}
