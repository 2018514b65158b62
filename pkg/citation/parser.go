package citation

import (
	"strings"

	"ai-docchat-core/internal/constant"
	"ai-docchat-core/internal/entity"
)

// ParseSource turns a "<document name> - <locator>" source string into a reference.
// The split happens on the last separator so document names may contain " - ".
// A string without a separator is taken as a bare document name.
func ParseSource(source string) (entity.CitationReference, bool) {
	source = strings.TrimSpace(source)
	if source == "" {
		return entity.CitationReference{}, false
	}

	idx := strings.LastIndex(source, constant.SourceLocatorSeparator)
	if idx < 0 {
		return entity.CitationReference{DocumentName: source}, true
	}

	name := strings.TrimSpace(source[:idx])
	locator := strings.TrimSpace(source[idx+len(constant.SourceLocatorSeparator):])
	if name == "" {
		return entity.CitationReference{}, false
	}
	return entity.CitationReference{DocumentName: name, Locator: locator}, true
}

// ParseSources parses every source string, skipping blanks.
func ParseSources(sources []string) []entity.CitationReference {
	var out []entity.CitationReference
	for _, s := range sources {
		if ref, ok := ParseSource(s); ok {
			out = append(out, ref)
		}
	}
	return out
}

// FormatSource is the inverse of ParseSource.
func FormatSource(ref entity.CitationReference) string {
	if ref.Locator == "" {
		return ref.DocumentName
	}
	return ref.DocumentName + constant.SourceLocatorSeparator + ref.Locator
}

// JoinLocators renders the locator list shown under a preview.
func JoinLocators(citations []entity.CitationReference) string {
	if len(citations) == 0 {
		return constant.CitationListEmpty
	}
	parts := make([]string, len(citations))
	for i, c := range citations {
		parts[i] = FormatSource(c)
	}
	return strings.Join(parts, constant.CitationListSeparator)
}
