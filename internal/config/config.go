// Package config provides configuration loading for the agent. It uses koanf
// to read an optional YAML file and overlays environment variables on top,
// so secrets can stay out of files.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all runtime settings for the agent.
type Config struct {
	// Journal settings.
	JournalPath string `koanf:"journal_path"`
	KDF         string `koanf:"kdf"` // "legacy" (default, file-compatible) or "argon2"

	// HTTP API settings.
	HTTPAddr   string        `koanf:"http_addr"`
	SessionTTL time.Duration `koanf:"session_ttl"`
	LogFormat  string        `koanf:"log_format"` // "json" or "text"

	// Text generation backend.
	LLM LLMConfig `koanf:"llm"`

	// Email source.
	Gmail GmailConfig `koanf:"gmail"`
}

// LLMConfig configures the text-generation backend.
type LLMConfig struct {
	Provider    string  `koanf:"provider"` // "openai" or "echo"
	Model       string  `koanf:"model"`
	APIKey      string  `koanf:"api_key"`
	BaseURL     string  `koanf:"base_url"`
	Temperature float32 `koanf:"temperature"`
}

// GmailConfig configures the Gmail email source.
type GmailConfig struct {
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	TokenPath    string `koanf:"token_path"`
}

// Default values for non-secret configuration.
const (
	DefaultJournalPath = "~/.localagent/history.enc"
	DefaultKDF         = "legacy"
	DefaultHTTPAddr    = ":8080"
	DefaultSessionTTL  = 12 * time.Hour
	DefaultLogFormat   = "json"
	DefaultProvider    = "openai"
	DefaultModel       = "gpt-4o-mini"
	DefaultTokenPath   = "~/.localagent/gmail_token.json"
	DefaultTemperature = 0.2
)

// Load reads configuration from an optional YAML file, then overlays
// environment variables. Environment values take precedence over file values,
// file values over defaults.
func Load(configFilePath string) (*Config, error) {
	cfg := &Config{
		JournalPath: DefaultJournalPath,
		KDF:         DefaultKDF,
		HTTPAddr:    DefaultHTTPAddr,
		SessionTTL:  DefaultSessionTTL,
		LogFormat:   DefaultLogFormat,
		LLM: LLMConfig{
			Provider:    DefaultProvider,
			Model:       DefaultModel,
			Temperature: DefaultTemperature,
		},
		Gmail: GmailConfig{
			TokenPath: DefaultTokenPath,
		},
	}

	if configFilePath != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configFilePath, err)
		}
		if err := k.Unmarshal("", cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", configFilePath, err)
		}
	}

	overlayEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overlayEnv(cfg *Config) {
	setIfEnv := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setIfEnv(&cfg.JournalPath, "LOCALAGENT_JOURNAL")
	setIfEnv(&cfg.KDF, "LOCALAGENT_KDF")
	setIfEnv(&cfg.HTTPAddr, "LOCALAGENT_HTTP_ADDR")
	setIfEnv(&cfg.LogFormat, "LOCALAGENT_LOG_FORMAT")

	setIfEnv(&cfg.LLM.Provider, "LLM_PROVIDER")
	setIfEnv(&cfg.LLM.Model, "LLM_MODEL")
	setIfEnv(&cfg.LLM.APIKey, "OPENAI_API_KEY")
	setIfEnv(&cfg.LLM.BaseURL, "OPENAI_API_BASE")

	setIfEnv(&cfg.Gmail.ClientID, "GMAIL_CLIENT_ID")
	setIfEnv(&cfg.Gmail.ClientSecret, "GMAIL_CLIENT_SECRET")
	setIfEnv(&cfg.Gmail.TokenPath, "GMAIL_TOKEN_PATH")
}

// Validate checks enum-like fields. Secret presence is checked lazily by the
// components that need them, so journal-only workflows run without any keys.
func (c *Config) Validate() error {
	switch c.KDF {
	case "legacy", "argon2":
	default:
		return fmt.Errorf("kdf must be \"legacy\" or \"argon2\", got %q", c.KDF)
	}

	switch c.LLM.Provider {
	case "openai", "echo":
	default:
		return fmt.Errorf("llm provider must be \"openai\" or \"echo\", got %q", c.LLM.Provider)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive, got %s", c.SessionTTL)
	}
	return nil
}
