package entity

// CitationReference points from a system answer to a location in a document.
// Locator is opaque to the core.
type CitationReference struct {
	DocumentName string
	Locator      string
}

// SystemAnswer is what a query service returns for a question.
type SystemAnswer struct {
	Body      string
	Citations []CitationReference
}
