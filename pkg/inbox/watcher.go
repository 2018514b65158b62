// Package inbox turns files dropped into a directory into upload requests.
package inbox

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"ai-docchat-core/internal/constant"
	"ai-docchat-core/internal/entity"
	"ai-docchat-core/internal/pkg/logger"

	"github.com/fsnotify/fsnotify"
)

// MimeTypes maps the accepted extensions to their upload MIME type.
var MimeTypes = map[string]string{
	".pdf":  constant.MimeTypePDF,
	".docx": constant.MimeTypeDOCX,
	".txt":  constant.MimeTypeText,
}

// Watcher reports files created in a directory.
type Watcher struct {
	watcher *fsnotify.Watcher
	logger  logger.ILogger
}

func NewWatcher(log logger.ILogger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{watcher: w, logger: log}, nil
}

// Watch emits the path of every new file with an accepted extension until ctx ends.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan string, error) {
	if err := w.watcher.Add(dir); err != nil {
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	paths := make(chan string, 16)
	go func() {
		defer close(paths)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) || !Accepted(event.Name) {
					continue
				}
				select {
				case paths <- event.Name:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("INBOX", "Watcher error", map[string]interface{}{"error": err.Error()})
			}
		}
	}()

	return paths, nil
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Accepted reports whether path has an uploadable extension.
func Accepted(path string) bool {
	_, ok := MimeTypes[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Describe reads path into a file descriptor ready for validation. Files larger
// than maxBytes are described by size only and left unread, so validation
// rejects them without loading them. A non-positive maxBytes means 5 MiB.
func Describe(path string, maxBytes int64) (entity.FileDescriptor, error) {
	if maxBytes <= 0 {
		maxBytes = constant.MaxUploadBytes
	}

	file := entity.FileDescriptor{
		Name:     filepath.Base(path),
		MimeType: MimeTypes[strings.ToLower(filepath.Ext(path))],
	}

	info, err := os.Stat(path)
	if err != nil {
		return entity.FileDescriptor{}, err
	}
	if !info.Mode().IsRegular() {
		return entity.FileDescriptor{}, fmt.Errorf("%s is not a regular file", path)
	}
	if info.Size() > maxBytes {
		file.SizeBytes = info.Size()
		return file, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return entity.FileDescriptor{}, err
	}
	defer f.Close()

	// The file may still be growing; never read past the limit.
	content, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return entity.FileDescriptor{}, err
	}
	file.SizeBytes = int64(len(content))
	if file.SizeBytes <= maxBytes {
		file.Content = content
	}
	return file, nil
}
