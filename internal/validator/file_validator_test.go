package validator

import (
	"errors"
	"testing"

	"ai-docchat-core/internal/constant"
	"ai-docchat-core/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileValidator(t *testing.T) {
	v := NewFileValidator(0)

	tests := []struct {
		name      string
		file      entity.FileDescriptor
		wantRules []string
	}{
		{"plain text", entity.FileDescriptor{Name: "labs.txt", MimeType: constant.MimeTypeText, SizeBytes: 1200}, nil},
		{"pdf", entity.FileDescriptor{Name: "visit.pdf", MimeType: constant.MimeTypePDF, SizeBytes: 2048}, nil},
		{"docx", entity.FileDescriptor{Name: "plan.docx", MimeType: constant.MimeTypeDOCX, SizeBytes: 10}, nil},
		{"charset parameter", entity.FileDescriptor{Name: "a.txt", MimeType: "text/plain; charset=utf-8", SizeBytes: 1}, nil},
		{"exactly the limit", entity.FileDescriptor{Name: "big.pdf", MimeType: constant.MimeTypePDF, SizeBytes: constant.MaxUploadBytes}, nil},
		{"image", entity.FileDescriptor{Name: "scan.png", MimeType: "image/png", SizeBytes: 10}, []string{"allowed_mime"}},
		{"too large", entity.FileDescriptor{Name: "huge.pdf", MimeType: constant.MimeTypePDF, SizeBytes: constant.MaxUploadBytes + 1}, []string{"max_upload"}},
		{"missing name", entity.FileDescriptor{MimeType: constant.MimeTypeText, SizeBytes: 1}, []string{"required"}},
		{"negative size", entity.FileDescriptor{Name: "x.txt", MimeType: constant.MimeTypeText, SizeBytes: -1}, []string{"gte"}},
		{"several failures", entity.FileDescriptor{Name: "x.exe", MimeType: "application/x-msdownload", SizeBytes: constant.MaxUploadBytes * 2}, []string{"allowed_mime", "max_upload"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.file)
			if tt.wantRules == nil {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			var rules []string
			for _, f := range verr.Fields {
				rules = append(rules, f.Rule)
			}
			assert.Equal(t, tt.wantRules, rules)
		})
	}
}

func TestFileValidatorCustomLimit(t *testing.T) {
	v := NewFileValidator(100)

	assert.NoError(t, v.Validate(entity.FileDescriptor{Name: "a.txt", MimeType: constant.MimeTypeText, SizeBytes: 100}))

	err := v.Validate(entity.FileDescriptor{Name: "a.txt", MimeType: constant.MimeTypeText, SizeBytes: 101})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 100 bytes")
}

func TestFileValidatorChecksContentAgainstDeclaredSize(t *testing.T) {
	v := NewFileValidator(100)

	fields := func(err error) []FieldError {
		t.Helper()
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
		return verr.Fields
	}

	t.Run("matching content", func(t *testing.T) {
		content := []byte("Allergies: Penicillin")
		assert.NoError(t, v.Validate(entity.FileDescriptor{Name: "a.txt", MimeType: constant.MimeTypeText, SizeBytes: int64(len(content)), Content: content}))
	})

	t.Run("under-declared oversized content", func(t *testing.T) {
		err := v.Validate(entity.FileDescriptor{Name: "big.txt", MimeType: constant.MimeTypeText, SizeBytes: 10, Content: make([]byte, 101)})
		assert.ElementsMatch(t, []FieldError{
			{Field: "Content", Rule: "max_upload", Param: "100"},
			{Field: "SizeBytes", Rule: "size_match"},
		}, fields(err))
		assert.Contains(t, err.Error(), "exceeds 100 bytes")
	})

	t.Run("zero declared size", func(t *testing.T) {
		err := v.Validate(entity.FileDescriptor{Name: "big.txt", MimeType: constant.MimeTypeText, SizeBytes: 0, Content: make([]byte, 6<<20)})
		var rules []string
		for _, f := range fields(err) {
			rules = append(rules, f.Rule)
		}
		assert.ElementsMatch(t, []string{"max_upload", "size_match"}, rules)
	})

	t.Run("size mismatch within limit", func(t *testing.T) {
		err := v.Validate(entity.FileDescriptor{Name: "a.txt", MimeType: constant.MimeTypeText, SizeBytes: 50, Content: []byte("short")})
		assert.Equal(t, []FieldError{{Field: "SizeBytes", Rule: "size_match"}}, fields(err))
	})
}
