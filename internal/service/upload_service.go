// FILE: internal/service/upload_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-docchat-core/internal/constant"
	"ai-docchat-core/internal/entity"
	"ai-docchat-core/internal/pkg/logger"

	"github.com/google/uuid"
)

// IUploadService turns a validated file into a processed document.
type IUploadService interface {
	Upload(ctx context.Context, file entity.FileDescriptor) (*entity.Document, error)
}

type mockUploadService struct {
	latency time.Duration
	logger  logger.ILogger
}

// NewMockUploadService simulates a document backend with a fixed latency.
func NewMockUploadService(latency time.Duration, logger logger.ILogger) IUploadService {
	return &mockUploadService{
		latency: latency,
		logger:  logger,
	}
}

func (s *mockUploadService) Upload(ctx context.Context, file entity.FileDescriptor) (*entity.Document, error) {
	if err := sleepCtx(ctx, s.latency); err != nil {
		return nil, fmt.Errorf("upload %s: %w", file.Name, err)
	}

	doc := &entity.Document{
		Id:         uuid.New(),
		Name:       file.Name,
		MimeType:   file.MimeType,
		SizeBytes:  file.SizeBytes,
		UploadedAt: time.Now(),
		Status:     constant.DocumentStatusProcessed,
		RawText:    rawText(file),
	}

	s.logger.Debug("UPLOAD_SERVICE", "Mock upload processed", map[string]interface{}{
		"name": doc.Name,
		"size": doc.SizeBytes,
	})
	return doc, nil
}

// rawText uses plain text content verbatim; other formats are not parsed.
func rawText(file entity.FileDescriptor) string {
	if strings.HasPrefix(file.MimeType, constant.MimeTypeText) && len(file.Content) > 0 {
		return string(file.Content)
	}
	return fmt.Sprintf(constant.MockUploadContentFmt, file.Name)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
