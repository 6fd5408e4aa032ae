package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadResolvesTokenFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
provider:
  base_url: https://example.test/
  token_env: TEST_BRQUOTE_TOKEN
  timeout_seconds: 5
fanout:
  workers: 2
  ticker_suffix: .SA
server:
  addr: ":9000"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TEST_BRQUOTE_TOKEN", "secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider.BaseURL != "https://example.test/" {
		t.Fatalf("base url = %q", cfg.Provider.BaseURL)
	}
	if cfg.Provider.Token != "secret" {
		t.Fatalf("token = %q", cfg.Provider.Token)
	}
	if cfg.Provider.Timeout().Seconds() != 5 {
		t.Fatalf("timeout = %v", cfg.Provider.Timeout())
	}
	if cfg.Server.Addr != ":9000" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider.BaseURL != "https://brapi.dev/" {
		t.Fatalf("base url default = %q", cfg.Provider.BaseURL)
	}
	if cfg.Fanout.Workers != 4 || cfg.Fanout.TickerSuffix != ".SA" {
		t.Fatalf("fanout defaults = %+v", cfg.Fanout)
	}
	if cfg.Server.Addr != ":8000" {
		t.Fatalf("addr default = %q", cfg.Server.Addr)
	}
	if cfg.Agent.ActiveProvider != "gemini" || cfg.Agent.MaxToolTurns != 4 {
		t.Fatalf("agent defaults = %+v", cfg.Agent)
	}
	if cfg.SchemaPath != "resources/tools_schema.hjson" {
		t.Fatalf("schema path default = %q", cfg.SchemaPath)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDefaultTimeoutFloor(t *testing.T) {
	p := ProviderConfig{TimeoutSeconds: 0}
	if p.Timeout().Seconds() != 30 {
		t.Fatalf("timeout floor = %v", p.Timeout())
	}
}
