package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultJournalPath, cfg.JournalPath)
	assert.Equal(t, DefaultKDF, cfg.KDF)
	assert.Equal(t, DefaultHTTPAddr, cfg.HTTPAddr)
	assert.Equal(t, DefaultSessionTTL, cfg.SessionTTL)
	assert.Equal(t, DefaultProvider, cfg.LLM.Provider)
	assert.Equal(t, DefaultModel, cfg.LLM.Model)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
journal_path: /tmp/test-history.enc
kdf: argon2
http_addr: ":9999"
session_ttl: 1h
llm:
  provider: echo
  model: test-model
gmail:
  client_id: cid
  client_secret: csecret
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test-history.enc", cfg.JournalPath)
	assert.Equal(t, "argon2", cfg.KDF)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, "echo", cfg.LLM.Provider)
	assert.Equal(t, "test-model", cfg.LLM.Model)
	assert.Equal(t, "cid", cfg.Gmail.ClientID)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("journal_path: /tmp/from-file.enc\n"), 0o600))

	t.Setenv("LOCALAGENT_JOURNAL", "/tmp/from-env.enc")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/from-env.enc", cfg.JournalPath)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"bad kdf", func(c *Config) { c.KDF = "scrypt" }, true},
		{"bad provider", func(c *Config) { c.LLM.Provider = "claude" }, true},
		{"zero ttl", func(c *Config) { c.SessionTTL = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
