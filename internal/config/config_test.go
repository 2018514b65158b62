package config

import (
	"testing"
	"time"

	"ai-docchat-core/internal/constant"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, constant.DefaultWelcomeMessage, cfg.Chat.WelcomeMessage)
	assert.Equal(t, 5*time.Second, cfg.Chat.ErrorClearDelay)
	assert.Equal(t, 500, cfg.Chat.MaxQuestionLength)
	assert.True(t, cfg.Chat.RequireDisclaimer)
	assert.Equal(t, constant.DefaultHighlightTerms, cfg.Chat.HighlightTerms)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxBytes)
	assert.Equal(t, "mock", cfg.Ai.QueryProvider)
	assert.Equal(t, "ollama", cfg.Ai.LLMProvider)
	assert.Empty(t, cfg.Ai.LLMBaseURL)
	assert.Empty(t, cfg.Events.NatsURL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ERROR_CLEAR_DELAY", "250ms")
	t.Setenv("MAX_QUESTION_LENGTH", "80")
	t.Setenv("REQUIRE_DISCLAIMER", "false")
	t.Setenv("HIGHLIGHT_TERMS", " Aspirin , ,Insulin")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("QUERY_PROVIDER", "llm")
	t.Setenv("LLM_PROVIDER", "huggingface")

	cfg := Load()

	assert.Equal(t, 250*time.Millisecond, cfg.Chat.ErrorClearDelay)
	assert.Equal(t, 80, cfg.Chat.MaxQuestionLength)
	assert.False(t, cfg.Chat.RequireDisclaimer)
	assert.Equal(t, []string{"Aspirin", "Insulin"}, cfg.Chat.HighlightTerms)
	assert.Equal(t, int64(1024), cfg.Upload.MaxBytes)
	assert.Equal(t, "llm", cfg.Ai.QueryProvider)
	assert.Equal(t, "huggingface", cfg.Ai.LLMProvider)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("ERROR_CLEAR_DELAY", "soon")
	t.Setenv("MAX_QUESTION_LENGTH", "lots")
	t.Setenv("HIGHLIGHT_TERMS", " , ")

	cfg := Load()

	assert.Equal(t, 5*time.Second, cfg.Chat.ErrorClearDelay)
	assert.Equal(t, 500, cfg.Chat.MaxQuestionLength)
	assert.Equal(t, constant.DefaultHighlightTerms, cfg.Chat.HighlightTerms)
}
