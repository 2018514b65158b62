package contract

import (
	"errors"

	"ai-docchat-core/internal/entity"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an id does not identify a held document or message.
var ErrNotFound = errors.New("not found")

// DocumentFinder is the lookup side of a document store.
type DocumentFinder interface {
	FindByName(name string) (*entity.Document, bool)
}

type DocumentRepository interface {
	DocumentFinder
	List() []entity.Document
	Add(document entity.Document)
	Remove(id uuid.UUID) error
	FindByID(id uuid.UUID) (*entity.Document, bool)
	Count() int
}
