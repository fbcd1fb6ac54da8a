package upload

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/projectfair/server/internal/logger"
	"github.com/projectfair/server/internal/model"
)

// MaxFileBytes is the upload size ceiling.
const MaxFileBytes = 2 << 20 // 2 MiB

const keyPrefix = "thumbnails/"

// File describes an upload candidate. Size must be the exact byte length
// of Reader's content.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// ProgressFunc receives the upload progress as a percentage in [0, 100].
type ProgressFunc func(percent float64)

// Pipeline validates image uploads and streams them to object storage,
// reporting transfer progress along the way.
type Pipeline struct {
	storage model.ObjectStorage
	logger  *logger.Logger
}

// NewPipeline creates an upload pipeline backed by the given storage.
func NewPipeline(storage model.ObjectStorage, logger *logger.Logger) *Pipeline {
	return &Pipeline{
		storage: storage,
		logger:  logger,
	}
}

// Validate rejects files the pipeline will not upload. It runs before any
// byte is transferred.
func (p *Pipeline) Validate(file File) error {
	if file.Reader == nil || file.Size == 0 {
		return model.NewValidationError("No file selected for upload")
	}
	if !strings.HasPrefix(file.ContentType, "image/") {
		return model.NewValidationError("Only image files are allowed")
	}
	if file.Size > MaxFileBytes {
		return model.NewValidationError("Image must be smaller than 2MB")
	}
	return nil
}

// Upload validates the file, streams it to storage under the thumbnails
// prefix and returns the public URL of the stored object. progress, when
// non-nil, is called with a non-decreasing percentage reaching 100 on the
// final read.
func (p *Pipeline) Upload(ctx context.Context, file File, progress ProgressFunc) (string, error) {
	if err := p.Validate(file); err != nil {
		return "", err
	}

	key := keyPrefix + file.Name

	reader := file.Reader
	if progress != nil {
		reader = &progressReader{r: file.Reader, total: file.Size, report: progress}
	}

	p.logger.Debug("Upload pipeline: uploading",
		"key", key,
		"size", file.Size,
		"content_type", file.ContentType)

	if err := p.storage.Upload(ctx, key, reader, file.Size, file.ContentType); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	url := p.storage.URL(key)

	p.logger.Info("Upload pipeline: upload complete", "key", key, "url", url)

	return url, nil
}

// Remove deletes a previously uploaded object given its public URL. URLs
// that do not point into the thumbnails keyspace are ignored.
func (p *Pipeline) Remove(ctx context.Context, url string) error {
	idx := strings.LastIndex(url, "/"+keyPrefix)
	if idx < 0 {
		return nil
	}
	key := url[idx+1:]

	if err := p.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to remove image: %w", err)
	}

	p.logger.Info("Upload pipeline: object removed", "key", key)

	return nil
}

// progressReader reports cumulative read progress as a percentage of the
// declared total.
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	report ProgressFunc
}

func (pr *progressReader) Read(b []byte) (int, error) {
	n, err := pr.r.Read(b)
	if n > 0 {
		pr.read += int64(n)
		pr.report(float64(pr.read) / float64(pr.total) * 100)
	}
	return n, err
}
