// FILE: internal/service/consumer_service.go
package service

import (
	"context"

	"ai-docchat-core/internal/pkg/logger"
	"ai-docchat-core/pkg/events"
)

// EventSource is satisfied by events.Bus.
type EventSource interface {
	Subscribe(ctx context.Context) (<-chan events.Event, error)
}

// IConsumerService feeds session events to presentation so it can re-render from a fresh snapshot.
type IConsumerService interface {
	Consume(ctx context.Context, handle func(events.Event)) error
}

type consumerService struct {
	source EventSource
	logger logger.ILogger
}

func NewConsumerService(source EventSource, logger logger.ILogger) IConsumerService {
	return &consumerService{
		source: source,
		logger: logger,
	}
}

// Consume returns once subscribed; handle runs on a single goroutine until ctx ends.
func (cs *consumerService) Consume(ctx context.Context, handle func(events.Event)) error {
	stream, err := cs.source.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for event := range stream {
			cs.logger.Debug("CONSUMER", "Session event received", map[string]interface{}{
				"event": event.EventType(),
			})
			handle(event)
		}
	}()

	return nil
}
