package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pennywise/internal/logger"
	"github.com/abhisek/pennywise/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	s := openStore(t)
	events := s.EventRepo()

	mock := NewMockProvider(
		MockResponse{
			Content: json.RawMessage(`{"explanation":"ok"}`),
			Usage:   Usage{InputTokens: 12, OutputTokens: 8},
		},
		MockResponse{Err: &ErrUnavailable{Err: errors.New("down")}},
	)
	p := WithLogging(mock, "mock", events, logger.Nop())

	ctx := WithUser(WithPurpose(context.Background(), "explain"), "alice")
	_, err := p.Generate(ctx, Request{System: "sys", Prompt: "why?", Schema: testSchema})
	require.NoError(t, err)
	_, err = p.Generate(ctx, Request{Prompt: "again"})
	require.Error(t, err)

	got, err := events.QueryLLMRequests(context.Background(), store.QueryOpts{UserID: "alice"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	failed, ok := got[0], got[1]
	assert.False(t, failed.Success)
	assert.Contains(t, failed.ErrorMessage, "down")

	assert.True(t, ok.Success)
	assert.Equal(t, "explain", ok.Purpose)
	assert.Equal(t, 12, ok.InputTokens)
	assert.Equal(t, 8, ok.OutputTokens)
	assert.Contains(t, ok.RequestBody, "[schema: validate-test]")
	assert.JSONEq(t, `{"explanation":"ok"}`, ok.ResponseBody)
}

func TestLoggingProvider_NilRepo(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, "mock", nil, nil)

	_, err := p.Generate(context.Background(), Request{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.Enabled())

	cfg.Provider = "anthropic"
	assert.ErrorContains(t, cfg.Validate(), "PENNYWISE_ANTHROPIC_API_KEY")

	cfg.Anthropic.APIKey = "k"
	assert.NoError(t, cfg.Validate())

	cfg.Provider = "carrier-pigeon"
	assert.Error(t, cfg.Validate())
}

func TestConfig_ApplyEnvAndDiscover(t *testing.T) {
	t.Setenv("PENNYWISE_LLM_PROVIDER", "")
	t.Setenv("PENNYWISE_OPENAI_MODEL", "gpt-4.1-mini")
	t.Setenv("PENNYWISE_LLM_TIMEOUT", "5s")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := DefaultConfig()
	cfg.ApplyEnv()
	assert.Equal(t, "gpt-4.1-mini", cfg.OpenAI.Model)
	assert.Equal(t, "5s", cfg.Timeout.String())

	require.True(t, cfg.Discover())
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())
}
