package agent

import (
	"testing"

	"brquote/pkg/core/llm"
)

func TestManagerActiveProvider(t *testing.T) {
	m := NewManager(Config{ActiveProvider: "deepseek", Model: "deepseek-chat"})
	if m.ActiveProvider() != "deepseek" {
		t.Fatalf("active provider = %q", m.ActiveProvider())
	}
	if _, ok := m.Provider().(*llm.DeepSeekProvider); !ok {
		t.Fatalf("provider type = %T", m.Provider())
	}
}

func TestManagerFallsBackToGemini(t *testing.T) {
	m := NewManager(Config{ActiveProvider: "mystery"})
	if _, ok := m.Provider().(*llm.GeminiProvider); !ok {
		t.Fatalf("fallback provider type = %T", m.Provider())
	}
}

func TestManagerSetActiveProvider(t *testing.T) {
	m := NewManager(Config{ActiveProvider: "gemini"})
	if err := m.SetActiveProvider("deepseek"); err != nil {
		t.Fatalf("SetActiveProvider: %v", err)
	}
	if m.ActiveProvider() != "deepseek" {
		t.Fatalf("active provider = %q", m.ActiveProvider())
	}
	if err := m.SetActiveProvider("nope"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestManagerProviderByName(t *testing.T) {
	m := NewManager(Config{})
	if _, err := m.ProviderByName("gemini"); err != nil {
		t.Fatalf("ProviderByName: %v", err)
	}
	if _, err := m.ProviderByName("nope"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestManagerDefaultsToolTurns(t *testing.T) {
	m := NewManager(Config{})
	if m.config.MaxToolTurns != 4 {
		t.Fatalf("MaxToolTurns = %d", m.config.MaxToolTurns)
	}
	m = NewManager(Config{MaxToolTurns: 8})
	if m.config.MaxToolTurns != 8 {
		t.Fatalf("MaxToolTurns = %d", m.config.MaxToolTurns)
	}
}
