// FILE: internal/service/llm_query_service.go
package service

import (
	"context"
	"fmt"
	"strings"

	"ai-docchat-core/internal/constant"
	"ai-docchat-core/internal/entity"
	"ai-docchat-core/internal/pkg/logger"
	"ai-docchat-core/pkg/citation"
	"ai-docchat-core/pkg/llm"
)

type llmQueryService struct {
	provider llm.LLMProvider
	logger   logger.ILogger
}

// NewLLMQueryService answers with a chat model, passing every held document in the prompt.
func NewLLMQueryService(provider llm.LLMProvider, logger logger.ILogger) IQueryService {
	return &llmQueryService{
		provider: provider,
		logger:   logger,
	}
}

func (s *llmQueryService) Ask(ctx context.Context, question string, documents []entity.Document) (*entity.SystemAnswer, error) {
	var docs strings.Builder
	for _, doc := range documents {
		fmt.Fprintf(&docs, constant.DocumentBlockFmt, doc.Name, doc.MimeType, doc.RawText)
	}

	history := []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.DocumentQAPromptV1},
		{Role: "assistant", Content: constant.DocumentQAAckPromptV1},
		{Role: constant.ChatMessageRoleUser, Content: docs.String() + "\nQuestion: " + question},
	}

	reply, err := s.provider.Chat(ctx, history)
	if err != nil {
		s.logger.Error("QUERY_SERVICE", "LLM call failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("ask llm: %w", err)
	}

	body, sources := SplitSources(reply)
	if body == "" {
		return nil, fmt.Errorf("ask llm: empty answer")
	}

	return &entity.SystemAnswer{
		Body:      body,
		Citations: citation.ParseSources(sources),
	}, nil
}

// SplitSources separates the trailing "Sources:" line of a model reply from its body.
func SplitSources(reply string) (string, []string) {
	lines := strings.Split(strings.TrimSpace(reply), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !hasPrefixFold(line, constant.SourcesLinePrefix) {
			continue
		}

		body := strings.TrimSpace(strings.Join(append(lines[:i:i], lines[i+1:]...), "\n"))
		rest := strings.TrimSpace(line[len(constant.SourcesLinePrefix):])
		if rest == "" || strings.EqualFold(rest, constant.SourcesNone) {
			return body, nil
		}
		return body, strings.Split(rest, ";")
	}
	return strings.TrimSpace(reply), nil
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
