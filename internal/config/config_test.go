package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pennywise/internal/progress"
)

// clearEnv isolates a test from the developer's environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PENNYWISE_CONFIG", "PENNYWISE_DB", "PENNYWISE_USER", "PENNYWISE_LOG_MODE",
		"PENNYWISE_SERVER_ADDR", "PENNYWISE_DATABASE_URL", "PENNYWISE_JWT_SECRET",
		"PENNYWISE_REMOTE_URL", "PENNYWISE_REMOTE_TOKEN", "PENNYWISE_LLM_PROVIDER",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultUser, cfg.User)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.False(t, cfg.LLM.Enabled())
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
user: alice
log_mode: production
server:
  addr: ":9090"
  token_ttl: 2h
remote:
  url: http://example.test
  token: abc
llm:
  provider: mock
  timeout: 3s
`)
	t.Setenv("PENNYWISE_USER", "bob")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bob", cfg.User)
	assert.Equal(t, "production", cfg.LogMode)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 2*time.Hour, cfg.Server.TokenTTL)
	assert.Equal(t, "http://example.test", cfg.Remote.URL)
	assert.Equal(t, 10*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, 3*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
}

func TestLoad_ConfigEnvPath(t *testing.T) {
	clearEnv(t)
	t.Setenv("PENNYWISE_CONFIG", writeFile(t, "user: carol\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "carol", cfg.User)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)

	_, err := Load(writeFile(t, "remote:\n  url: http://x\n"))
	assert.ErrorContains(t, err, "remote.token")

	_, err = Load(writeFile(t, "llm:\n  provider: anthropic\n"))
	assert.ErrorContains(t, err, "PENNYWISE_ANTHROPIC_API_KEY")

	_, err = Load(writeFile(t, "user: [1, 2\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "user: \"has space\"\n"))
	assert.ErrorIs(t, err, progress.ErrInvalidUserID)
}
