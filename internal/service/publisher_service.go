// FILE: internal/service/publisher_service.go
package service

import (
	"context"

	"ai-docchat-core/internal/pkg/logger"
	"ai-docchat-core/pkg/events"
)

// IPublisherService announces session changes. Delivery failures are logged, never returned.
type IPublisherService interface {
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}

type publisherService struct {
	publisher events.Publisher
	logger    logger.ILogger
}

func NewPublisherService(publisher events.Publisher, logger logger.ILogger) IPublisherService {
	return &publisherService{
		publisher: publisher,
		logger:    logger,
	}
}

func (p *publisherService) Publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, events.New(eventType, data)); err != nil {
		p.logger.Warn("PUBLISHER", "Failed to publish session event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

type nopPublisher struct{}

// NewNopPublisherService drops every event.
func NewNopPublisherService() IPublisherService {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, string, map[string]interface{}) {}
