// Package config loads the process configuration. The resulting value is
// immutable after Load and injected into constructors; nothing reads config
// files or environment variables past startup.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Fanout   FanoutConfig   `yaml:"fanout"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Agent    AgentConfig    `yaml:"agent"`

	// SchemaPath points at the static tool schema used to build the
	// dispatch registry.
	SchemaPath string `yaml:"schema_path"`
}

type ProviderConfig struct {
	BaseURL        string `yaml:"base_url"`
	TokenEnv       string `yaml:"token_env"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`

	// Token is resolved from TokenEnv at load time, never from the file.
	Token string `yaml:"-"`
}

func (p ProviderConfig) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

type FanoutConfig struct {
	// Workers bounds the parallel per-ticker fan-out. 1 means sequential.
	Workers int `yaml:"workers"`
	// TickerSuffix is the market suffix appended to canonical tickers.
	TickerSuffix string `yaml:"ticker_suffix"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type AgentConfig struct {
	ActiveProvider string `yaml:"active_provider"`
	Model          string `yaml:"model"`
	// MaxToolTurns caps the tool-call round trips per prompt.
	MaxToolTurns int `yaml:"max_tool_turns"`
}

// Load reads the YAML config file and resolves the provider token from the
// environment. Missing file fields fall back to usable defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	cfg.Provider.Token = os.Getenv(cfg.Provider.TokenEnv)
	return cfg, nil
}

// Default returns the built-in configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.Provider.Token = os.Getenv(cfg.Provider.TokenEnv)
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = "https://brapi.dev/"
	}
	if c.Provider.TokenEnv == "" {
		c.Provider.TokenEnv = "BRAPI_TOKEN"
	}
	if c.Fanout.Workers <= 0 {
		c.Fanout.Workers = 4
	}
	if c.Fanout.TickerSuffix == "" {
		c.Fanout.TickerSuffix = ".SA"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.SchemaPath == "" {
		c.SchemaPath = "resources/tools_schema.hjson"
	}
	if c.Agent.ActiveProvider == "" {
		c.Agent.ActiveProvider = "gemini"
	}
	if c.Agent.Model == "" {
		c.Agent.Model = "gemini-2.0-flash-exp"
	}
	if c.Agent.MaxToolTurns <= 0 {
		c.Agent.MaxToolTurns = 4
	}
}
