package constant

const (
	ChatMessageRoleUser   = "user"
	ChatMessageRoleSystem = "system"

	// SeedMessageID identifies the welcome message every conversation starts with.
	SeedMessageID = "system-welcome"

	DefaultWelcomeMessage = "Welcome! Upload your healthcare documents to begin chatting about their content."

	UploadFailedMessage    = "Failed to upload document. Please check file size and type."
	QueryFailedMessage     = "Failed to get response from chat AI."
	DuplicateNameMessage   = "A document named %q is already uploaded."
	SourceUnavailableText  = "Source document is no longer available."
	MockUploadContentFmt   = "Mock content for %s: Ready for analysis."
	CitationListSeparator  = "; "
	CitationListEmpty      = "N/A"
	SourceLocatorSeparator = " - "
)

const (
	DocumentStatusPending   = "pending"
	DocumentStatusProcessed = "processed"
	DocumentStatusFailed    = "failed"
)

const (
	MimeTypePDF  = "application/pdf"
	MimeTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeTypeText = "text/plain"

	// MaxUploadBytes is 5 MiB.
	MaxUploadBytes = 5 * 1024 * 1024
)

// DefaultHighlightTerms is the clinical vocabulary highlighted in document previews.
var DefaultHighlightTerms = []string{
	"Lisinopril 10mg",
	"Penicillin",
	"Hypertension",
	"follow-up in 2 weeks",
	"high cholesterol",
	"Vitamin D",
}
