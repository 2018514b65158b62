package nats

import (
	"testing"

	"ai-docchat-core/pkg/events"

	"github.com/stretchr/testify/assert"
)

func TestSubjectRoundTrip(t *testing.T) {
	for _, eventType := range []string{events.DocumentUploaded, events.PreviewOpened, events.ErrorCleared} {
		subject := Subject(eventType)
		assert.Regexp(t, `^docchat\.session\.[a-z_]+$`, subject)
		assert.Equal(t, eventType, EventType(subject))
	}
}
