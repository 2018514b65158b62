package validator

import (
	"errors"
	"fmt"
	"strings"

	"ai-docchat-core/internal/constant"
	"ai-docchat-core/internal/entity"

	"github.com/go-playground/validator/v10"
)

// AllowedMimeTypes are the upload formats the session accepts.
var AllowedMimeTypes = []string{
	constant.MimeTypePDF,
	constant.MimeTypeDOCX,
	constant.MimeTypeText,
}

// FileValidator rejects unsupported or oversized files before they reach the controller.
type FileValidator interface {
	Validate(file entity.FileDescriptor) error
}

type fileValidator struct {
	validate *validator.Validate
	maxBytes int64
}

// FieldError is one failed rule on a file descriptor.
type FieldError struct {
	Field string
	Rule  string
	Param string
}

// ValidationError lists every failed rule.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		switch f.Rule {
		case "allowed_mime":
			parts = append(parts, fmt.Sprintf("%s: unsupported file type", f.Field))
		case "max_upload":
			parts = append(parts, fmt.Sprintf("%s: file exceeds %s bytes", f.Field, f.Param))
		case "size_match":
			parts = append(parts, fmt.Sprintf("%s: declared size does not match content", f.Field))
		default:
			parts = append(parts, fmt.Sprintf("%s: failed %s", f.Field, f.Rule))
		}
	}
	return "invalid file: " + strings.Join(parts, ", ")
}

// NewFileValidator caps uploads at maxBytes; a non-positive value falls back to 5 MiB.
func NewFileValidator(maxBytes int64) FileValidator {
	if maxBytes <= 0 {
		maxBytes = constant.MaxUploadBytes
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("allowed_mime", func(fl validator.FieldLevel) bool {
		mime := strings.ToLower(strings.TrimSpace(fl.Field().String()))
		if i := strings.IndexByte(mime, ';'); i >= 0 {
			mime = strings.TrimSpace(mime[:i])
		}
		for _, allowed := range AllowedMimeTypes {
			if mime == allowed {
				return true
			}
		}
		return false
	})
	_ = v.RegisterValidation("max_upload", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= maxBytes
	})

	// The declared size is caller input; the content bytes are what gets stored.
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		file := sl.Current().Interface().(entity.FileDescriptor)
		if len(file.Content) == 0 {
			return
		}
		if int64(len(file.Content)) > maxBytes {
			sl.ReportError(file.Content, "Content", "Content", "max_upload", "")
		}
		if int64(len(file.Content)) != file.SizeBytes {
			sl.ReportError(file.SizeBytes, "SizeBytes", "SizeBytes", "size_match", "")
		}
	}, entity.FileDescriptor{})

	return &fileValidator{validate: v, maxBytes: maxBytes}
}

func (fv *fileValidator) Validate(file entity.FileDescriptor) error {
	err := fv.validate.Struct(file)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		param := fe.Param()
		if fe.Tag() == "max_upload" {
			param = fmt.Sprintf("%d", fv.maxBytes)
		}
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: param})
	}
	return out
}
