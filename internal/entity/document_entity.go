package entity

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id         uuid.UUID
	Name       string
	MimeType   string
	SizeBytes  int64
	UploadedAt time.Time
	Status     string
	RawText    string
}

// FileDescriptor is an upload request that already passed file validation.
type FileDescriptor struct {
	Name      string `validate:"required,max=255"`
	MimeType  string `validate:"required,allowed_mime"`
	SizeBytes int64  `validate:"gte=0,max_upload"`
	Content   []byte
}
