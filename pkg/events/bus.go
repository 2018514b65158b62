package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// SessionTopic carries every session change event.
const SessionTopic = "session.events"

const subscriberBuffer = 64

const (
	metadataEventType  = "event_type"
	metadataOccurredAt = "occurred_at"
)

// Publisher abstracts where session events go.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Bus is the in-process event bus presentation subscribes to for re-rendering.
// Publish returns once every subscriber has taken the event, so subscribers
// see events in publish order. A subscriber that stops reading stalls publishers.
type Bus struct {
	pubSub *gochannel.GoChannel
}

func NewBus(logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &Bus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer:            subscriberBuffer,
			BlockPublishUntilSubscriberAck: true,
		}, logger),
	}
}

func (b *Bus) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)
	msg.Metadata.Set(metadataEventType, event.EventType())
	msg.Metadata.Set(metadataOccurredAt, event.Timestamp().Format(time.RFC3339Nano))

	if err := b.pubSub.Publish(SessionTopic, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.EventType(), err)
	}
	return nil
}

// Subscribe streams session events until ctx is done or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context) (<-chan Event, error) {
	messages, err := b.pubSub.Subscribe(ctx, SessionTopic)
	if err != nil {
		return nil, err
	}

	out := make(chan Event, subscriberBuffer)
	go func() {
		defer close(out)
		for msg := range messages {
			event := decode(msg)
			msg.Ack()
			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (b *Bus) Close() error {
	return b.pubSub.Close()
}

func decode(msg *message.Message) Event {
	var payload map[string]interface{}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		payload = map[string]interface{}{"raw": string(msg.Payload)}
	}
	occurredAt, err := time.Parse(time.RFC3339Nano, msg.Metadata.Get(metadataOccurredAt))
	if err != nil {
		occurredAt = time.Now()
	}
	return BaseEvent{
		Type:       msg.Metadata.Get(metadataEventType),
		Data:       payload,
		OccurredAt: occurredAt,
	}
}

type fanout []Publisher

// Fanout publishes to every non-nil publisher and joins their errors.
func Fanout(publishers ...Publisher) Publisher {
	var f fanout
	for _, p := range publishers {
		if p != nil {
			f = append(f, p)
		}
	}
	return f
}

func (f fanout) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
