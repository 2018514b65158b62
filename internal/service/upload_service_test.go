package service

import (
	"context"
	"testing"
	"time"

	"ai-docchat-core/internal/constant"
	"ai-docchat-core/internal/entity"
	"ai-docchat-core/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockUploadService(t *testing.T) {
	svc := NewMockUploadService(0, logger.NewNopLogger())

	t.Run("plain text content is kept verbatim", func(t *testing.T) {
		doc, err := svc.Upload(context.Background(), entity.FileDescriptor{
			Name:      "labs.txt",
			MimeType:  constant.MimeTypeText,
			SizeBytes: 22,
			Content:   []byte("Allergies: Penicillin."),
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, doc.Id)
		assert.Equal(t, "labs.txt", doc.Name)
		assert.Equal(t, int64(22), doc.SizeBytes)
		assert.Equal(t, constant.DocumentStatusProcessed, doc.Status)
		assert.Equal(t, "Allergies: Penicillin.", doc.RawText)
	})

	t.Run("other formats get placeholder text", func(t *testing.T) {
		doc, err := svc.Upload(context.Background(), entity.FileDescriptor{
			Name:      "visit.pdf",
			MimeType:  constant.MimeTypePDF,
			SizeBytes: 2048,
			Content:   []byte("%PDF-1.7"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Mock content for visit.pdf: Ready for analysis.", doc.RawText)
	})
}

func TestMockUploadServiceHonoursContext(t *testing.T) {
	svc := NewMockUploadService(time.Hour, logger.NewNopLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := svc.Upload(ctx, entity.FileDescriptor{Name: "slow.txt", MimeType: constant.MimeTypeText})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
