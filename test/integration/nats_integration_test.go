// FILE: test/integration/nats_integration_test.go
// PURPOSE: Session events mirrored through a live JetStream server.
// Run with: NATS_URL=nats://localhost:4222 go test ./test/integration/...

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"ai-docchat-core/internal/pkg/logger"
	"ai-docchat-core/pkg/events"
	pktNats "ai-docchat-core/pkg/nats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNats_PublishedEventReachesSubscriber(t *testing.T) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("set NATS_URL to run against a JetStream server")
	}
	log := logger.NewNopLogger()

	sub, err := pktNats.NewSubscriber(url, log)
	require.NoError(t, err)
	defer sub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	received := make(chan events.Event, 1)
	require.NoError(t, sub.Subscribe(ctx, func(_ context.Context, e events.Event) error {
		if e.EventType() == events.DocumentUploaded {
			select {
			case received <- e:
			default:
			}
		}
		return nil
	}))

	pub, err := pktNats.NewPublisher(url, log)
	require.NoError(t, err)
	defer pub.Close()

	require.NoError(t, pub.Publish(ctx, events.New(events.DocumentUploaded, map[string]interface{}{
		"name": "labs.txt",
	})))

	select {
	case e := <-received:
		assert.Equal(t, "labs.txt", e.Payload()["name"])
	case <-ctx.Done():
		t.Fatal("event was not delivered")
	}
}
