package controller

import (
	"errors"
	"fmt"
)

var (
	ErrDisclaimerNotAccepted = errors.New("disclaimer not accepted")
	ErrUploadInProgress      = errors.New("an upload is already in progress")
	ErrDuplicateDocumentName = errors.New("document name already uploaded")
	ErrEmptyQuestion         = errors.New("question is empty")
	ErrQueryInFlight         = errors.New("a question is already being answered")
	ErrNoDocuments           = errors.New("no documents uploaded")
	ErrNoCitations           = errors.New("no citations to preview")

	errServiceRejected = errors.New("service reported a failed result")
)

// UploadError wraps an upload service failure. The document store is unchanged.
type UploadError struct {
	Name string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %q failed: %v", e.Name, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// QueryError wraps a query service failure. MessageID is the user message now marked failed.
type QueryError struct {
	MessageID string
	Err       error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("question %s failed: %v", e.MessageID, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// recovered converts a panic value from an external service into an error.
func recovered(service string, r interface{}) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("%s panicked: %w", service, err)
	}
	return fmt.Errorf("%s panicked: %v", service, r)
}
