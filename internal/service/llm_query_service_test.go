package service

import (
	"context"
	"errors"
	"testing"

	"ai-docchat-core/internal/entity"
	"ai-docchat-core/internal/pkg/logger"
	"ai-docchat-core/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	reply   string
	err     error
	history []llm.Message
}

func (p *stubProvider) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	p.history = history
	return p.reply, p.err
}

func (p *stubProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func TestLLMQueryServiceParsesSources(t *testing.T) {
	provider := &stubProvider{reply: "Penicillin allergy noted.\nSources: labs.txt - line 4; notes - v2.txt - Page 1"}
	svc := NewLLMQueryService(provider, logger.NewNopLogger())

	answer, err := svc.Ask(context.Background(), "What are my allergies?", []entity.Document{
		{Name: "labs.txt", MimeType: "text/plain", RawText: "Allergies: Penicillin"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Penicillin allergy noted.", answer.Body)
	assert.Equal(t, []entity.CitationReference{
		{DocumentName: "labs.txt", Locator: "line 4"},
		{DocumentName: "notes - v2.txt", Locator: "Page 1"},
	}, answer.Citations)

	require.Len(t, provider.history, 3)
	assert.Contains(t, provider.history[2].Content, "=== Document: labs.txt (text/plain) ===")
	assert.Contains(t, provider.history[2].Content, "Question: What are my allergies?")
}

func TestLLMQueryServiceErrors(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewLLMQueryService(&stubProvider{err: boom}, logger.NewNopLogger())
	_, err := svc.Ask(context.Background(), "q", nil)
	assert.ErrorIs(t, err, boom)

	svc = NewLLMQueryService(&stubProvider{reply: "Sources: none"}, logger.NewNopLogger())
	_, err = svc.Ask(context.Background(), "q", nil)
	assert.Error(t, err)
}

func TestSplitSources(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		wantBody string
		want     []string
	}{
		{"no sources line", "Just an answer.", "Just an answer.", nil},
		{"none", "Not covered.\nSources: none", "Not covered.", nil},
		{"lowercase prefix", "A.\nsources: a.txt - line 1", "A.", []string{"a.txt - line 1"}},
		{"sources line in the middle", "A.\nSources: a.txt\nTrailing remark.", "A.\nTrailing remark.", []string{"a.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, sources := SplitSources(tt.reply)
			assert.Equal(t, tt.wantBody, body)
			assert.Equal(t, tt.want, sources)
		})
	}
}
