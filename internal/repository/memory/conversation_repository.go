package memory

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"ai-docchat-core/internal/constant"
	"ai-docchat-core/internal/entity"
	"ai-docchat-core/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

const errorKey = "session_error"

// banner is the cached error value. cleared marks an explicit clear so the
// eviction hook only reports expiry.
type banner struct {
	message string
	cleared atomic.Bool
}

// ConversationRepository is the append-only message log of a session plus its
// loading flag and expiring error banner.
type ConversationRepository struct {
	mu       sync.RWMutex
	seed     entity.ChatMessage
	messages []entity.ChatMessage
	loading  bool

	// errors holds at most one entry under errorKey; expiry is the auto-clear.
	errors *cache.Cache
}

// NewConversationRepository captures seed as the message every reset returns to.
// errorDelay <= 0 keeps errors until they are cleared explicitly.
func NewConversationRepository(seed entity.ChatMessage, errorDelay time.Duration) *ConversationRepository {
	expiration := errorDelay
	cleanup := errorDelay / 4
	if errorDelay <= 0 {
		expiration = cache.NoExpiration
		cleanup = 0
	} else if cleanup < 10*time.Millisecond {
		cleanup = 10 * time.Millisecond
	}

	return &ConversationRepository{
		seed:     seed.Clone(),
		messages: []entity.ChatMessage{seed.Clone()},
		errors:   cache.New(expiration, cleanup),
	}
}

// NewSeedMessage builds the welcome message a conversation starts with.
func NewSeedMessage(body string, now time.Time) entity.ChatMessage {
	return entity.ChatMessage{
		Id:        constant.SeedMessageID,
		Role:      constant.ChatMessageRoleSystem,
		Body:      body,
		CreatedAt: now,
	}
}

var _ contract.ConversationRepository = (*ConversationRepository)(nil)

func (r *ConversationRepository) Append(message entity.ChatMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message.Clone())
}

func (r *ConversationRepository) List() []entity.ChatMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.ChatMessage, len(r.messages))
	for i, m := range r.messages {
		out[i] = m.Clone()
	}
	return out
}

func (r *ConversationRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.messages)
}

func (r *ConversationRepository) Seed() entity.ChatMessage {
	return r.seed.Clone()
}

func (r *ConversationRepository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = []entity.ChatMessage{r.seed.Clone()}
}

// MarkFailed flags a user message in place, keeping its identity and position.
func (r *ConversationRepository) MarkFailed(messageId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.messages {
		if r.messages[i].Id == messageId && r.messages[i].Role == constant.ChatMessageRoleUser {
			r.messages[i].Failed = true
			return nil
		}
	}
	return fmt.Errorf("user message %s: %w", messageId, contract.ErrNotFound)
}

// SetLoading also re-arms the clear timer of a pending error.
func (r *ConversationRepository) SetLoading(loading bool) {
	r.mu.Lock()
	r.loading = loading
	r.mu.Unlock()

	if current, found := r.errors.Get(errorKey); found {
		_ = r.errors.Replace(errorKey, current, cache.DefaultExpiration)
	}
}

func (r *ConversationRepository) Loading() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loading
}

func (r *ConversationRepository) SetError(message string) {
	if message == "" {
		r.ClearError()
		return
	}
	r.errors.Set(errorKey, &banner{message: message}, cache.DefaultExpiration)
}

// ClearError removes the banner and returns what it said, or "" when none was
// showing. The OnErrorCleared hook does not run for explicit clears.
func (r *ConversationRepository) ClearError() string {
	x, found := r.errors.Get(errorKey)
	if !found {
		return ""
	}
	b := x.(*banner)
	b.cleared.Store(true)
	r.errors.Delete(errorKey)
	return b.message
}

func (r *ConversationRepository) Error() string {
	if x, found := r.errors.Get(errorKey); found {
		return x.(*banner).message
	}
	return ""
}

// OnErrorCleared registers f to run when a banner expires. Expiry is noticed by
// the cache janitor, so f runs on its goroutine and never under a caller's lock.
func (r *ConversationRepository) OnErrorCleared(f func(message string)) {
	r.errors.OnEvicted(func(_ string, x interface{}) {
		if b, ok := x.(*banner); ok && !b.cleared.Load() {
			f(b.message)
		}
	})
}
