package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-docchat-core/internal/config"
	"ai-docchat-core/internal/controller"
	"ai-docchat-core/internal/metrics"
	"ai-docchat-core/internal/pkg/logger"
	"ai-docchat-core/internal/repository/memory"
	"ai-docchat-core/internal/service"
	"ai-docchat-core/internal/tracer"
	"ai-docchat-core/internal/validator"
	"ai-docchat-core/pkg/disclaimer"
	"ai-docchat-core/pkg/events"
	"ai-docchat-core/pkg/llm/factory"
	pktNats "ai-docchat-core/pkg/nats"
	"ai-docchat-core/pkg/preview"

	"github.com/ThreeDotsLabs/watermill"
)

const (
	QueryProviderMock = "mock"
	QueryProviderLLM  = "llm"
)

type Container struct {
	Config *config.Config
	Logger logger.ILogger

	// Session
	Controller controller.IConversationController
	Validator  validator.FileValidator
	Metrics    *metrics.Metrics

	// Events (presentation subscribes through ConsumerService)
	Bus             *events.Bus
	ConsumerService service.IConsumerService
	NatsPublisher   *pktNats.Publisher

	shutdownTracer func(context.Context) error
}

// NewContainer wires one session. Optional infrastructure (NATS, tracing) degrades to
// a warning when unavailable; a misconfigured query provider is an error.
func NewContainer(cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	if sysLogger == nil {
		sysLogger = logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	}

	shutdownTracer := tracer.InitTracer(cfg.App, sysLogger)

	// 1. Event Bus
	bus := events.NewBus(watermill.NopLogger{})
	publishers := []events.Publisher{bus}

	var natsPub *pktNats.Publisher
	if cfg.Events.NatsURL != "" {
		p, err := pktNats.NewPublisher(cfg.Events.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS, events stay in-process", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			natsPub = p
			publishers = append(publishers, p)
		}
	}
	publisherService := service.NewPublisherService(events.Fanout(publishers...), sysLogger)

	// 2. Services
	uploadService := service.NewMockUploadService(cfg.Ai.MockUploadLatency, sysLogger)
	queryService, err := newQueryService(cfg, sysLogger)
	if err != nil {
		_ = bus.Close()
		if natsPub != nil {
			natsPub.Close()
		}
		return nil, err
	}

	// 3. Stores
	documents := memory.NewDocumentRepository()
	conversation := memory.NewConversationRepository(
		memory.NewSeedMessage(cfg.Chat.WelcomeMessage, time.Now()),
		cfg.Chat.ErrorClearDelay,
	)

	// 4. Controller
	m := metrics.New()
	ctrl := controller.NewConversationController(
		documents,
		conversation,
		uploadService,
		queryService,
		publisherService,
		preview.NewProjector(cfg.Chat.HighlightTerms),
		disclaimer.NewGate(),
		m,
		sysLogger,
		controller.ControllerConfig{
			RequireDisclaimer: cfg.Chat.RequireDisclaimer,
			MaxQuestionLength: cfg.Chat.MaxQuestionLength,
		},
	)

	sysLogger.Info("BOOTSTRAP", "Session ready", map[string]interface{}{
		"query_provider": cfg.Ai.QueryProvider,
		"nats":           natsPub != nil,
		"highlights":     len(cfg.Chat.HighlightTerms),
	})

	return &Container{
		Config:          cfg,
		Logger:          sysLogger,
		Controller:      ctrl,
		Validator:       validator.NewFileValidator(cfg.Upload.MaxBytes),
		Metrics:         m,
		Bus:             bus,
		ConsumerService: service.NewConsumerService(bus, sysLogger),
		NatsPublisher:   natsPub,
		shutdownTracer:  shutdownTracer,
	}, nil
}

func newQueryService(cfg *config.Config, sysLogger logger.ILogger) (service.IQueryService, error) {
	switch cfg.Ai.QueryProvider {
	case QueryProviderMock:
		routes, err := service.ParseMockRoutes(nil)
		if err != nil {
			return nil, err
		}
		return service.NewMockQueryService(routes, cfg.Ai.MockQueryLatency, sysLogger), nil
	case QueryProviderLLM:
		provider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.LLMBaseURL, cfg.Ai.LLMAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
		}
		sysLogger.Info("BOOTSTRAP", "Using LLM provider", map[string]interface{}{
			"provider": cfg.Ai.LLMProvider,
			"model":    cfg.Ai.LLMModel,
		})
		return service.NewLLMQueryService(provider, sysLogger), nil
	default:
		return nil, fmt.Errorf("unsupported query provider: %s", cfg.Ai.QueryProvider)
	}
}

// Close releases the bus, the NATS connection and the tracer, then flushes logs.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if err := c.Bus.Close(); err != nil {
		errs = append(errs, err)
	}
	if c.NatsPublisher != nil {
		c.NatsPublisher.Close()
	}
	if c.shutdownTracer != nil {
		if err := c.shutdownTracer(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	_ = c.Logger.Sync()
	return errors.Join(errs...)
}
