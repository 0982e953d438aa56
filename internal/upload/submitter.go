package upload

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/cvmatch/internal/backend"
	"github.com/spigell/cvmatch/internal/logger"
)

type DocumentUploader interface {
	UploadDocument(ctx context.Context, in backend.UploadRequest) (*backend.UploadResponse, error)
}

// Submission is the backend's acknowledgement of an upload. Accepted is set
// when the backend assigned a document id, whether or not processing started.
type Submission struct {
	DocumentID int64
	Accepted   bool
	Message    string
}

// Submitter transfers a file without looking at its content; checking the
// document is the caller's job.
type Submitter struct {
	uploader DocumentUploader
	logger   *zap.Logger
}

func NewSubmitter(uploader DocumentUploader, log *zap.Logger) *Submitter {
	return &Submitter{
		uploader: uploader,
		logger:   logger.WithFields(log),
	}
}

// Submit issues exactly one upload request. It returns ErrCancelled when ctx
// was cancelled before or during the transfer, and *UploadError on any other
// failure.
func (s *Submitter) Submit(ctx context.Context, file File, documentType backend.DocumentType) (Submission, error) {
	if ctx.Err() != nil {
		return Submission{}, ErrCancelled
	}

	if file.Open == nil {
		return Submission{}, &UploadError{Message: fmt.Sprintf("file %s cannot be read", file.Name)}
	}

	content, err := file.Open()
	if err != nil {
		return Submission{}, &UploadError{Message: fmt.Sprintf("open %s: %v", file.Name, err), Err: err}
	}
	defer content.Close()

	log := logger.WithUpload(s.logger, file.Name, string(documentType), 0)
	log.Debug("sending document", zap.Int64("size", file.Size), zap.String("content_type", file.ContentType))

	resp, err := s.uploader.UploadDocument(ctx, backend.UploadRequest{
		FileName:     file.Name,
		ContentType:  file.ContentType,
		DocumentType: documentType,
		Content:      content,
	})
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			log.Debug("transfer aborted")
			return Submission{}, ErrCancelled
		}

		uploadErr := newUploadError(err)
		log.Debug("upload rejected", zap.String("reason", uploadErr.Message))
		return Submission{}, uploadErr
	}

	submission := Submission{Message: resp.Message}
	if resp.Document != nil && resp.Document.ID > 0 {
		submission.DocumentID = resp.Document.ID
		submission.Accepted = true
	}

	return submission, nil
}
