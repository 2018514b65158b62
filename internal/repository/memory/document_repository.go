package memory

import (
	"fmt"
	"sync"

	"ai-docchat-core/internal/entity"
	"ai-docchat-core/internal/repository/contract"

	"github.com/google/uuid"
)

// DocumentRepository keeps uploaded documents in insertion order.
// Name uniqueness is not enforced here.
type DocumentRepository struct {
	mu        sync.RWMutex
	documents []entity.Document
}

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{}
}

var _ contract.DocumentRepository = (*DocumentRepository)(nil)

func (r *DocumentRepository) List() []entity.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]entity.Document(nil), r.documents...)
}

func (r *DocumentRepository) Add(document entity.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.documents = append(r.documents, document)
}

func (r *DocumentRepository) Remove(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, d := range r.documents {
		if d.Id == id {
			r.documents = append(r.documents[:i:i], r.documents[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("document %s: %w", id, contract.ErrNotFound)
}

// FindByName returns the first document with the given name.
func (r *DocumentRepository) FindByName(name string) (*entity.Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.documents {
		if d.Name == name {
			found := d
			return &found, true
		}
	}
	return nil, false
}

func (r *DocumentRepository) FindByID(id uuid.UUID) (*entity.Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.documents {
		if d.Id == id {
			found := d
			return &found, true
		}
	}
	return nil, false
}

func (r *DocumentRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.documents)
}
