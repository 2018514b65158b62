package preview

import (
	"strings"
	"testing"

	"ai-docchat-core/internal/constant"
	"ai-docchat-core/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(text string) entity.Document {
	return entity.Document{Name: "discharge_summary.pdf", RawText: text, Status: constant.DocumentStatusProcessed}
}

func highlighted(view View) []string {
	var out []string
	for _, s := range view.Segments {
		if s.Kind == SegmentHighlighted {
			out = append(out, s.Text)
		}
	}
	return out
}

func TestProjectHighlightsVocabulary(t *testing.T) {
	p := NewProjector(constant.DefaultHighlightTerms)
	text := "Patient was prescribed Lisinopril 10mg. Diagnosis was Hypertension. Treatment plan includes follow-up in 2 weeks."

	view := p.Project(doc(text), nil)

	assert.Equal(t, []string{"Lisinopril 10mg", "Hypertension", "follow-up in 2 weeks"}, highlighted(view))
	assert.Equal(t, text, view.Text())
	assert.Equal(t, "N/A", view.CitationList)
	assert.Equal(t, "discharge_summary.pdf", view.DocumentName)
}

func TestProjectIsCaseInsensitiveAndKeepsOriginalCase(t *testing.T) {
	p := NewProjector([]string{"Penicillin", "vitamin d"})
	text := "Allergies: PENICILLIN. Lab results show a low Vitamin D count; penicillin again."

	view := p.Project(doc(text), nil)

	assert.Equal(t, []string{"PENICILLIN", "Vitamin D", "penicillin"}, highlighted(view))
	assert.Equal(t, text, view.Text())
	for _, s := range view.Segments {
		if s.Kind == SegmentHighlighted {
			assert.True(t, strings.EqualFold(s.Text, s.Term))
		}
	}
}

func TestProjectNeverOverlaps(t *testing.T) {
	tests := []struct {
		name  string
		terms []string
		text  string
		want  []string
	}{
		{
			name:  "longer term listed first",
			terms: []string{"high cholesterol", "cholesterol"},
			text:  "shows high cholesterol today",
			want:  []string{"high cholesterol"},
		},
		{
			name:  "shorter term listed first at the same start",
			terms: []string{"high", "high cholesterol"},
			text:  "shows high cholesterol today",
			want:  []string{"high"},
		},
		{
			name:  "earlier start wins over priority",
			terms: []string{"cholesterol", "high cholesterol"},
			text:  "shows high cholesterol today",
			want:  []string{"high cholesterol"},
		},
		{
			name:  "adjacent matches",
			terms: []string{"ab"},
			text:  "ababab",
			want:  []string{"ab", "ab", "ab"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := NewProjector(tt.terms).Project(doc(tt.text), nil)
			assert.Equal(t, tt.want, highlighted(view))
			assert.Equal(t, tt.text, view.Text())
		})
	}
}

func TestProjectReproducesRawText(t *testing.T) {
	p := NewProjector(constant.DefaultHighlightTerms)
	texts := []string{
		"",
		"no clinical terms here",
		"Penicillin",
		"  Hypertension\n\nHYPERTENSION\tfollow-up in 2 weeks ",
		"Ünïcödé text with Vitamin D and émojis 🙂 around penicillin.",
	}

	for _, text := range texts {
		view := p.Project(doc(text), nil)
		assert.Equal(t, text, view.Text())
		for _, s := range view.Segments {
			assert.NotEmpty(t, s.Text)
		}
	}
}

func TestProjectPlainWhenNoVocabulary(t *testing.T) {
	view := NewProjector([]string{"", "  "}).Project(doc("Penicillin"), nil)
	require.Len(t, view.Segments, 1)
	assert.Equal(t, SegmentPlain, view.Segments[0].Kind)
	assert.Equal(t, 0, view.HighlightCount())
}

func TestProjectCitationList(t *testing.T) {
	view := NewProjector(nil).Project(doc("text"), []entity.CitationReference{
		{DocumentName: "labs.txt", Locator: "line 4"},
	})
	assert.Equal(t, "labs.txt - line 4", view.CitationList)
}

func TestTermsKeepsOrder(t *testing.T) {
	p := NewProjector([]string{"b", "", "a"})
	assert.Equal(t, []string{"b", "a"}, p.Terms())
}

func TestProjectMatchesTermsLiterally(t *testing.T) {
	p := NewProjector([]string{"Penicillin"})

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"zero-width space", "Allergies: Pe\u200bnicillin", nil},
		{"soft hyphen", "Allergies: Peni\u00adcillin", nil},
		{"split then literal", "Peni\u00adcillin or penicillin", []string{"penicillin"}},
		{"upper case", "PENICILLIN", []string{"PENICILLIN"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := p.Project(doc(tt.text), nil)
			assert.Equal(t, tt.want, highlighted(view))
			assert.Equal(t, tt.text, view.Text())
		})
	}
}
