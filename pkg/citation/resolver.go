package citation

import (
	"fmt"

	"ai-docchat-core/internal/entity"
	"ai-docchat-core/internal/repository/contract"
)

// Resolved ties a citation to the document it names.
type Resolved struct {
	Citation entity.CitationReference
	Document entity.Document
}

// ResolutionWarning records a citation whose document is not held, typically
// because it was deleted after the answer was given.
type ResolutionWarning struct {
	Citation entity.CitationReference
}

func (w ResolutionWarning) Error() string {
	return fmt.Sprintf("citation %q (%s): source unavailable", w.Citation.DocumentName, w.Citation.Locator)
}

// Result keeps resolved pairs and warnings in citation order.
type Result struct {
	Resolved []Resolved
	Warnings []ResolutionWarning
}

// First returns the resolution of the first citation, if that one resolved.
func (r Result) First(citations []entity.CitationReference) (Resolved, bool) {
	if len(citations) == 0 || len(r.Resolved) == 0 {
		return Resolved{}, false
	}
	if r.Resolved[0].Citation != citations[0] {
		return Resolved{}, false
	}
	return r.Resolved[0], true
}

// Resolve joins each citation to a document by name. Unknown names are
// dropped into Warnings; the remaining citations are still resolved.
func Resolve(citations []entity.CitationReference, documents contract.DocumentFinder) Result {
	var result Result
	for _, c := range citations {
		doc, ok := documents.FindByName(c.DocumentName)
		if !ok {
			result.Warnings = append(result.Warnings, ResolutionWarning{Citation: c})
			continue
		}
		result.Resolved = append(result.Resolved, Resolved{Citation: c, Document: *doc})
	}
	return result
}
