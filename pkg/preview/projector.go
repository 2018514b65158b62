// Package preview turns a document's raw text into highlighted segments for
// the citation preview. It annotates text and never rewrites it.
package preview

import (
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"ai-docchat-core/internal/entity"
	"ai-docchat-core/pkg/citation"

	"golang.org/x/text/language"
	"golang.org/x/text/search"
)

type SegmentKind string

const (
	SegmentPlain       SegmentKind = "plain"
	SegmentHighlighted SegmentKind = "highlighted"
)

// Segment is a contiguous, unmodified slice of the document text.
// Term is the vocabulary entry that produced a highlighted segment.
type Segment struct {
	Kind SegmentKind
	Text string
	Term string
}

// View is what the presentation needs to render a preview.
type View struct {
	DocumentName string
	Segments     []Segment
	CitationList string
}

// Text concatenates the segments, which always reproduces the raw document text.
func (v View) Text() string {
	var sb strings.Builder
	for _, s := range v.Segments {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// HighlightCount returns the number of highlighted segments.
func (v View) HighlightCount() int {
	n := 0
	for _, s := range v.Segments {
		if s.Kind == SegmentHighlighted {
			n++
		}
	}
	return n
}

type vocabularyTerm struct {
	term    string
	pattern *search.Pattern
}

// Projector highlights an ordered vocabulary of literal terms, case-insensitively.
type Projector struct {
	// search.Matcher keeps internal buffers, so projections are serialized.
	mu    sync.Mutex
	terms []vocabularyTerm
}

// NewProjector compiles the vocabulary. Earlier terms win when two matches
// start at the same position; blank terms are ignored.
func NewProjector(terms []string) *Projector {
	matcher := search.New(language.Und, search.IgnoreCase)
	p := &Projector{}
	for _, t := range terms {
		if strings.TrimSpace(t) == "" {
			continue
		}
		p.terms = append(p.terms, vocabularyTerm{term: t, pattern: matcher.CompileString(t)})
	}
	return p
}

// Terms returns the vocabulary in priority order.
func (p *Projector) Terms() []string {
	out := make([]string, len(p.terms))
	for i, t := range p.terms {
		out[i] = t.term
	}
	return out
}

type match struct {
	start, end int
	priority   int
}

// Project splits document.RawText into plain and highlighted segments.
// Matches never overlap; the earliest one is kept.
func (p *Projector) Project(document entity.Document, citations []entity.CitationReference) View {
	return View{
		DocumentName: document.Name,
		Segments:     p.segments(document.RawText),
		CitationList: citation.JoinLocators(citations),
	}
}

func (p *Projector) segments(text string) []Segment {
	if text == "" {
		return nil
	}

	matches := p.findAll(text)
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].start != matches[j].start {
			return matches[i].start < matches[j].start
		}
		if matches[i].priority != matches[j].priority {
			return matches[i].priority < matches[j].priority
		}
		return matches[i].end > matches[j].end
	})

	var segments []Segment
	cursor := 0
	for _, m := range matches {
		if m.start < cursor {
			continue
		}
		if m.start > cursor {
			segments = append(segments, Segment{Kind: SegmentPlain, Text: text[cursor:m.start]})
		}
		segments = append(segments, Segment{
			Kind: SegmentHighlighted,
			Text: text[m.start:m.end],
			Term: p.terms[m.priority].term,
		})
		cursor = m.end
	}
	if cursor < len(text) {
		segments = append(segments, Segment{Kind: SegmentPlain, Text: text[cursor:]})
	}
	return segments
}

func (p *Projector) findAll(text string) []match {
	p.mu.Lock()
	defer p.mu.Unlock()

	var matches []match
	for priority, t := range p.terms {
		offset := 0
		for offset < len(text) {
			start, end := t.pattern.IndexString(text[offset:])
			if start < 0 {
				break
			}
			start += offset
			end += offset
			// Collation skips ignorable code points such as soft hyphens and
			// zero-width spaces; only spans that spell the term count.
			if end <= start || end > len(text) || !strings.EqualFold(text[start:end], t.term) {
				_, size := utf8.DecodeRuneInString(text[start:])
				offset = start + size
				continue
			}
			matches = append(matches, match{start: start, end: end, priority: priority})
			offset = end
		}
	}
	return matches
}
