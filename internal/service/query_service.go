// FILE: internal/service/query_service.go
package service

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"ai-docchat-core/internal/entity"
	"ai-docchat-core/internal/pkg/logger"
	"ai-docchat-core/pkg/citation"

	"gopkg.in/yaml.v3"
)

// IQueryService answers a question against the held documents.
type IQueryService interface {
	Ask(ctx context.Context, question string, documents []entity.Document) (*entity.SystemAnswer, error)
}

//go:embed mock_routes.yaml
var defaultRoutes []byte

type MockRoute struct {
	Keywords []string `yaml:"keywords"`
	Answer   string   `yaml:"answer"`
	Term     string   `yaml:"term"`
	Source   string   `yaml:"source"`
}

type MockRouteTable struct {
	Fallback string      `yaml:"fallback"`
	Routes   []MockRoute `yaml:"routes"`
}

// ParseMockRoutes reads a routing table; an empty input yields the built-in table.
func ParseMockRoutes(data []byte) (*MockRouteTable, error) {
	if len(data) == 0 {
		data = defaultRoutes
	}
	var table MockRouteTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse mock routes: %w", err)
	}
	if !validFallback(table.Fallback) {
		return nil, fmt.Errorf("parse mock routes: fallback must contain exactly one %%s verb and no other verbs")
	}
	for i, r := range table.Routes {
		if len(r.Keywords) == 0 || r.Answer == "" {
			return nil, fmt.Errorf("parse mock routes: route %d needs keywords and an answer", i)
		}
	}
	return &table, nil
}

// validFallback reports whether format takes the question as its only
// argument. Escaped percent signs are allowed.
func validFallback(format string) bool {
	verbs := strings.ReplaceAll(format, "%%", "")
	return strings.Count(verbs, "%") == 1 && strings.Contains(verbs, "%s")
}

type mockQueryService struct {
	table   *MockRouteTable
	latency time.Duration
	logger  logger.ILogger
}

func NewMockQueryService(table *MockRouteTable, latency time.Duration, logger logger.ILogger) IQueryService {
	return &mockQueryService{
		table:   table,
		latency: latency,
		logger:  logger,
	}
}

func (s *mockQueryService) Ask(ctx context.Context, question string, documents []entity.Document) (*entity.SystemAnswer, error) {
	if err := sleepCtx(ctx, s.latency); err != nil {
		return nil, fmt.Errorf("ask: %w", err)
	}

	route, ok := s.match(question)
	if !ok {
		return &entity.SystemAnswer{Body: fmt.Sprintf(s.table.Fallback, question)}, nil
	}

	answer := &entity.SystemAnswer{Body: route.Answer}
	if ref, found := locate(route.Term, documents); found {
		answer.Citations = []entity.CitationReference{ref}
	} else if ref, ok := citation.ParseSource(route.Source); ok {
		// No held document carries the term; cite the canned source as-is.
		answer.Citations = []entity.CitationReference{ref}
	}

	s.logger.Debug("QUERY_SERVICE", "Mock answer routed", map[string]interface{}{
		"keywords":  route.Keywords,
		"citations": len(answer.Citations),
	})
	return answer, nil
}

func (s *mockQueryService) match(question string) (MockRoute, bool) {
	q := strings.ToLower(question)
	for _, r := range s.table.Routes {
		for _, kw := range r.Keywords {
			if strings.Contains(q, strings.ToLower(kw)) {
				return r, true
			}
		}
	}
	return MockRoute{}, false
}

// locate cites the first document whose text contains term, by 1-based line.
func locate(term string, documents []entity.Document) (entity.CitationReference, bool) {
	if term == "" {
		return entity.CitationReference{}, false
	}
	needle := strings.ToLower(term)
	for _, doc := range documents {
		for i, line := range strings.Split(doc.RawText, "\n") {
			if strings.Contains(strings.ToLower(line), needle) {
				return entity.CitationReference{
					DocumentName: doc.Name,
					Locator:      fmt.Sprintf("Line %d", i+1),
				}, true
			}
		}
	}
	return entity.CitationReference{}, false
}
