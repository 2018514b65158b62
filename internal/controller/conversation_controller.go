package controller

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"ai-docchat-core/internal/constant"
	"ai-docchat-core/internal/dto"
	"ai-docchat-core/internal/entity"
	"ai-docchat-core/internal/mapper"
	"ai-docchat-core/internal/metrics"
	"ai-docchat-core/internal/pkg/logger"
	"ai-docchat-core/internal/repository/contract"
	"ai-docchat-core/internal/service"
	"ai-docchat-core/pkg/citation"
	"ai-docchat-core/pkg/disclaimer"
	"ai-docchat-core/pkg/events"
	"ai-docchat-core/pkg/preview"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"
)

const module = "CONTROLLER"

// IConversationController is the only way presentation mutates a session.
type IConversationController interface {
	AcceptDisclaimer()
	SubmitUpload(ctx context.Context, file entity.FileDescriptor) (*entity.Document, error)
	SubmitQuestion(ctx context.Context, text string) error
	DeleteDocument(id uuid.UUID) error
	ClearHistory() error
	OpenCitationPreview(citations []entity.CitationReference) error
	CloseCitationPreview()
	Snapshot() dto.SessionSnapshot
}

type ControllerConfig struct {
	RequireDisclaimer bool
	MaxQuestionLength int // runes; <= 0 disables clipping
}

type previewState struct {
	document  entity.Document
	citations []entity.CitationReference
	view      preview.View
	warnings  []citation.ResolutionWarning
}

type conversationController struct {
	// mu serializes every read-modify-write of the stores and the fields below.
	// Service calls never run while it is held.
	mu        sync.Mutex
	uploading bool
	queryOp   string
	preview   *previewState

	uploadSlot *semaphore.Weighted

	documents    contract.DocumentRepository
	conversation contract.ConversationRepository
	uploads      service.IUploadService
	queries      service.IQueryService
	publisher    service.IPublisherService
	projector    *preview.Projector
	gate         *disclaimer.Gate
	mapper       *mapper.SessionMapper
	metrics      *metrics.Metrics
	tracer       trace.Tracer
	logger       logger.ILogger
	config       ControllerConfig
	now          func() time.Time
}

func NewConversationController(
	documents contract.DocumentRepository,
	conversation contract.ConversationRepository,
	uploads service.IUploadService,
	queries service.IQueryService,
	publisher service.IPublisherService,
	projector *preview.Projector,
	gate *disclaimer.Gate,
	m *metrics.Metrics,
	logger logger.ILogger,
	config ControllerConfig,
) IConversationController {
	c := &conversationController{
		uploadSlot:   semaphore.NewWeighted(1),
		documents:    documents,
		conversation: conversation,
		uploads:      uploads,
		queries:      queries,
		publisher:    publisher,
		projector:    projector,
		gate:         gate,
		mapper:       mapper.NewSessionMapper(),
		metrics:      m,
		tracer:       otel.Tracer("ai-docchat-core/controller"),
		logger:       logger,
		config:       config,
		now:          time.Now,
	}

	// Expired banners are reported from the store's janitor goroutine; explicit
	// clears are published by the operation after it releases mu.
	if notifier, ok := conversation.(interface{ OnErrorCleared(func(string)) }); ok {
		notifier.OnErrorCleared(func(message string) {
			c.publishErrorCleared(context.Background(), message)
		})
	}

	return c
}

func (c *conversationController) publishErrorCleared(ctx context.Context, message string) {
	if message == "" {
		return
	}
	c.publisher.Publish(ctx, events.ErrorCleared, map[string]interface{}{"message": message})
}

func (c *conversationController) AcceptDisclaimer() {
	if !c.gate.Accept() {
		return
	}
	c.logger.Info(module, "Disclaimer accepted", nil)
	c.publisher.Publish(context.Background(), events.DisclaimerAccepted, nil)
}

func (c *conversationController) guard() error {
	if c.config.RequireDisclaimer && !c.gate.Accepted() {
		return ErrDisclaimerNotAccepted
	}
	return nil
}

func (c *conversationController) SubmitUpload(ctx context.Context, file entity.FileDescriptor) (*entity.Document, error) {
	ctx, span := c.tracer.Start(ctx, "ConversationController.SubmitUpload", trace.WithAttributes(
		attribute.String("document.name", file.Name),
		attribute.String("document.mime_type", file.MimeType),
		attribute.Int64("document.size_bytes", file.SizeBytes),
	))
	defer span.End()

	if err := c.guard(); err != nil {
		return nil, err
	}

	if !c.uploadSlot.TryAcquire(1) {
		c.metrics.Upload(metrics.OutcomeRejected)
		c.logger.Warn(module, "Upload rejected, another upload is in flight", map[string]interface{}{
			"name": file.Name,
		})
		return nil, ErrUploadInProgress
	}
	defer c.uploadSlot.Release(1)

	c.mu.Lock()
	if _, exists := c.documents.FindByName(file.Name); exists {
		message := fmt.Sprintf(constant.DuplicateNameMessage, file.Name)
		c.conversation.SetError(message)
		c.mu.Unlock()

		c.metrics.Upload(metrics.OutcomeRejected)
		c.logger.Warn(module, "Upload rejected, duplicate document name", map[string]interface{}{
			"name": file.Name,
		})
		c.publisher.Publish(ctx, events.ErrorSet, map[string]interface{}{"message": message})
		return nil, fmt.Errorf("%w: %s", ErrDuplicateDocumentName, file.Name)
	}
	c.uploading = true
	clearedError := c.conversation.ClearError()
	c.mu.Unlock()
	c.publishErrorCleared(ctx, clearedError)

	defer func() {
		c.mu.Lock()
		c.uploading = false
		c.mu.Unlock()
	}()

	c.logger.Info(module, "Upload started", map[string]interface{}{
		"name": file.Name,
		"size": file.SizeBytes,
	})
	c.publisher.Publish(ctx, events.UploadStarted, map[string]interface{}{"name": file.Name})

	result, err := c.callUpload(ctx, file)
	if err == nil && (result == nil || result.Status == constant.DocumentStatusFailed) {
		err = errServiceRejected
	}
	if err != nil {
		uploadErr := &UploadError{Name: file.Name, Err: err}

		c.mu.Lock()
		c.conversation.SetError(constant.UploadFailedMessage)
		c.mu.Unlock()

		span.RecordError(uploadErr)
		span.SetStatus(codes.Error, "upload failed")
		c.metrics.Upload(metrics.OutcomeFailure)
		c.logger.Error(module, "Upload failed", map[string]interface{}{
			"name":  file.Name,
			"error": err.Error(),
		})
		c.publisher.Publish(ctx, events.UploadFailed, map[string]interface{}{"name": file.Name})
		c.publisher.Publish(ctx, events.ErrorSet, map[string]interface{}{"message": constant.UploadFailedMessage})
		return nil, uploadErr
	}

	doc := entity.Document{
		Id:         uuid.New(),
		Name:       file.Name,
		MimeType:   file.MimeType,
		SizeBytes:  file.SizeBytes,
		UploadedAt: c.now(),
		Status:     constant.DocumentStatusProcessed,
		RawText:    result.RawText,
	}

	c.mu.Lock()
	c.documents.Add(doc)
	count := c.documents.Count()
	c.mu.Unlock()

	span.SetAttributes(attribute.String("document.id", doc.Id.String()))
	c.metrics.Upload(metrics.OutcomeSuccess)
	c.metrics.Documents(count)
	c.logger.Info(module, "Document uploaded", map[string]interface{}{
		"id":        doc.Id.String(),
		"name":      doc.Name,
		"documents": count,
	})
	c.publisher.Publish(ctx, events.DocumentUploaded, map[string]interface{}{
		"id":   doc.Id.String(),
		"name": doc.Name,
	})
	return &doc, nil
}

func (c *conversationController) callUpload(ctx context.Context, file entity.FileDescriptor) (doc *entity.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, recovered("upload service", r)
		}
	}()
	return c.uploads.Upload(ctx, file)
}

func (c *conversationController) SubmitQuestion(ctx context.Context, text string) error {
	ctx, span := c.tracer.Start(ctx, "ConversationController.SubmitQuestion")
	defer span.End()

	if err := c.guard(); err != nil {
		return err
	}

	question := c.normalizeQuestion(text)

	c.mu.Lock()
	switch {
	case question == "":
		c.mu.Unlock()
		return ErrEmptyQuestion
	case c.conversation.Loading():
		c.mu.Unlock()
		c.metrics.Query(metrics.OutcomeRejected, 0)
		return ErrQueryInFlight
	case c.documents.Count() == 0:
		c.mu.Unlock()
		c.metrics.Query(metrics.OutcomeRejected, 0)
		return ErrNoDocuments
	}

	userMessage := entity.ChatMessage{
		Id:        c.newMessageID(),
		Role:      constant.ChatMessageRoleUser,
		Body:      question,
		CreatedAt: c.now(),
	}
	c.conversation.Append(userMessage)
	clearedError := c.conversation.ClearError()
	c.conversation.SetLoading(true)
	c.queryOp = userMessage.Id
	documents := c.documents.List()
	c.mu.Unlock()
	c.publishErrorCleared(ctx, clearedError)

	span.SetAttributes(
		attribute.String("message.id", userMessage.Id),
		attribute.Int("documents", len(documents)),
	)
	c.logger.Info(module, "Question submitted", map[string]interface{}{
		"message_id": userMessage.Id,
		"documents":  len(documents),
	})
	c.publisher.Publish(ctx, events.MessageAppended, map[string]interface{}{
		"id":   userMessage.Id,
		"role": userMessage.Role,
	})
	c.publisher.Publish(ctx, events.LoadingChanged, map[string]interface{}{"loading": true})

	started := time.Now()
	answer, err := c.callQuery(ctx, question, documents)
	if err == nil && answer == nil {
		err = errServiceRejected
	}
	took := time.Since(started)

	c.mu.Lock()
	if c.queryOp != userMessage.Id {
		c.logger.Debug(module, "Applying result of a superseded question", map[string]interface{}{
			"message_id": userMessage.Id,
			"current_op": c.queryOp,
		})
	}
	c.queryOp = ""

	if err != nil {
		markErr := c.conversation.MarkFailed(userMessage.Id)
		c.conversation.SetError(constant.QueryFailedMessage)
		c.conversation.SetLoading(false)
		c.mu.Unlock()

		queryErr := &QueryError{MessageID: userMessage.Id, Err: err}
		span.RecordError(queryErr)
		span.SetStatus(codes.Error, "query failed")
		c.metrics.Query(metrics.OutcomeFailure, took)
		details := map[string]interface{}{
			"message_id": userMessage.Id,
			"error":      err.Error(),
		}
		if markErr != nil {
			details["mark_failed"] = markErr.Error()
		}
		c.logger.Error(module, "Question failed", details)
		c.publisher.Publish(ctx, events.MessageFailed, map[string]interface{}{"id": userMessage.Id})
		c.publisher.Publish(ctx, events.ErrorSet, map[string]interface{}{"message": constant.QueryFailedMessage})
		c.publisher.Publish(ctx, events.LoadingChanged, map[string]interface{}{"loading": false})
		return queryErr
	}

	var citations []entity.CitationReference
	if len(answer.Citations) > 0 {
		citations = append(citations, answer.Citations...)
	}
	systemMessage := entity.ChatMessage{
		Id:        c.newMessageID(),
		Role:      constant.ChatMessageRoleSystem,
		Body:      answer.Body,
		CreatedAt: c.now(),
		Citations: citations,
	}
	c.conversation.Append(systemMessage)
	c.conversation.SetLoading(false)
	c.mu.Unlock()

	span.SetAttributes(attribute.Int("citations", len(citations)))
	c.metrics.Query(metrics.OutcomeSuccess, took)
	c.logger.Info(module, "Answer received", map[string]interface{}{
		"message_id": systemMessage.Id,
		"citations":  len(citations),
		"took_ms":    took.Milliseconds(),
	})
	c.publisher.Publish(ctx, events.MessageAppended, map[string]interface{}{
		"id":   systemMessage.Id,
		"role": systemMessage.Role,
	})
	c.publisher.Publish(ctx, events.LoadingChanged, map[string]interface{}{"loading": false})
	return nil
}

func (c *conversationController) callQuery(ctx context.Context, question string, documents []entity.Document) (answer *entity.SystemAnswer, err error) {
	defer func() {
		if r := recover(); r != nil {
			answer, err = nil, recovered("query service", r)
		}
	}()
	return c.queries.Ask(ctx, question, documents)
}

// normalizeQuestion trims surrounding space and clips to the configured rune count.
func (c *conversationController) normalizeQuestion(text string) string {
	question := strings.TrimSpace(text)
	limit := c.config.MaxQuestionLength
	if limit <= 0 || utf8.RuneCountInString(question) <= limit {
		return question
	}
	runes := []rune(question)
	return strings.TrimSpace(string(runes[:limit]))
}

// newMessageID prefers time-ordered v7 ids.
func (c *conversationController) newMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (c *conversationController) DeleteDocument(id uuid.UUID) error {
	if err := c.guard(); err != nil {
		return err
	}

	c.mu.Lock()
	doc, _ := c.documents.FindByID(id)
	if err := c.documents.Remove(id); err != nil {
		c.mu.Unlock()
		c.logger.Warn(module, "Delete of unknown document", map[string]interface{}{"id": id.String()})
		return err
	}
	closedPreview := false
	if c.preview != nil && c.preview.document.Id == id {
		c.preview = nil
		closedPreview = true
	}
	count := c.documents.Count()
	c.mu.Unlock()

	name := ""
	if doc != nil {
		name = doc.Name
	}
	c.metrics.Documents(count)
	c.logger.Info(module, "Document deleted", map[string]interface{}{
		"id":             id.String(),
		"name":           name,
		"documents":      count,
		"closed_preview": closedPreview,
	})
	c.publisher.Publish(context.Background(), events.DocumentDeleted, map[string]interface{}{
		"id":   id.String(),
		"name": name,
	})
	if closedPreview {
		c.publisher.Publish(context.Background(), events.PreviewClosed, map[string]interface{}{"name": name})
	}
	return nil
}

func (c *conversationController) ClearHistory() error {
	if err := c.guard(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.conversation.Loading() {
		c.mu.Unlock()
		return ErrQueryInFlight
	}
	cleared := c.conversation.Count() - 1
	c.conversation.Reset()
	c.mu.Unlock()

	c.logger.Info(module, "History cleared", map[string]interface{}{"removed": cleared})
	c.publisher.Publish(context.Background(), events.HistoryCleared, map[string]interface{}{"removed": cleared})
	return nil
}

// OpenCitationPreview targets the document named by the first citation. If that
// document is not held, the returned error is a citation.ResolutionWarning and
// no preview is open afterwards.
func (c *conversationController) OpenCitationPreview(citations []entity.CitationReference) error {
	if err := c.guard(); err != nil {
		return err
	}
	if len(citations) == 0 {
		return ErrNoCitations
	}
	refs := append([]entity.CitationReference(nil), citations...)

	c.mu.Lock()
	result := citation.Resolve(refs, c.documents)
	first, ok := result.First(refs)
	if !ok {
		wasOpen := c.preview != nil
		c.preview = nil
		c.mu.Unlock()

		if wasOpen {
			c.publisher.Publish(context.Background(), events.PreviewClosed, nil)
		}
		warning := citation.ResolutionWarning{Citation: refs[0]}
		c.metrics.CitationWarnings(len(result.Warnings))
		c.logger.Warn(module, "Citation source unavailable", map[string]interface{}{
			"document": refs[0].DocumentName,
			"locator":  refs[0].Locator,
		})
		c.publisher.Publish(context.Background(), events.CitationUnresolved, map[string]interface{}{
			"document": refs[0].DocumentName,
			"locator":  refs[0].Locator,
		})
		return warning
	}

	view := c.projector.Project(first.Document, refs)
	c.preview = &previewState{
		document:  first.Document,
		citations: refs,
		view:      view,
		warnings:  result.Warnings,
	}
	c.mu.Unlock()

	c.metrics.CitationWarnings(len(result.Warnings))
	for _, w := range result.Warnings {
		c.logger.Warn(module, "Citation source unavailable", map[string]interface{}{
			"document": w.Citation.DocumentName,
			"locator":  w.Citation.Locator,
		})
	}
	c.logger.Info(module, "Preview opened", map[string]interface{}{
		"document":   first.Document.Name,
		"citations":  len(refs),
		"highlights": view.HighlightCount(),
	})
	c.publisher.Publish(context.Background(), events.PreviewOpened, map[string]interface{}{
		"document": first.Document.Name,
	})
	return nil
}

func (c *conversationController) CloseCitationPreview() {
	c.mu.Lock()
	wasOpen := c.preview != nil
	c.preview = nil
	c.mu.Unlock()

	if wasOpen {
		c.publisher.Publish(context.Background(), events.PreviewClosed, nil)
	}
}

// Snapshot is a deep copy; mutating it never affects the session.
func (c *conversationController) Snapshot() dto.SessionSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	documents := c.documents.List()
	messages := c.conversation.List()
	loading := c.conversation.Loading()
	accepted := c.gate.Accepted()

	snapshot := dto.SessionSnapshot{
		DisclaimerAccepted: accepted,
		Documents:          c.mapper.ToDocumentDTOs(documents),
		Messages:           c.mapper.ToMessageDTOs(messages),
		Loading:            loading,
		Uploading:          c.uploading,
		Error:              c.conversation.Error(),
		HasHistory:         len(messages) > 1,
		CanAsk:             len(documents) > 0 && !loading && (accepted || !c.config.RequireDisclaimer),
	}
	if c.preview != nil {
		snapshot.Preview = c.mapper.ToPreviewDTO(c.preview.document, c.preview.citations, c.preview.view, c.preview.warnings)
	}
	return snapshot
}
