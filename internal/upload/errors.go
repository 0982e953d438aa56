package upload

import (
	"errors"
	"strings"

	"github.com/spigell/cvmatch/internal/backend"
)

const defaultUploadMessage = "failed to upload document"

var (
	// ErrCancelled is returned by Submit when the transfer was aborted by the caller.
	ErrCancelled = errors.New("upload cancelled")
	// ErrProcessingFailed is carried by a failed event when the backend reports failure.
	ErrProcessingFailed = errors.New("document processing failed")
	// ErrPollLimit is carried by a failed event when the poll ceiling is reached.
	ErrPollLimit = errors.New("document is still processing after the maximum number of polls")
)

// UploadError is a rejected submission. Message is what the user should see.
type UploadError struct {
	Message string
	Err     error
}

func (e *UploadError) Error() string {
	return e.Message
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// newUploadError picks the backend's message first, then the transport's,
// then a generic one.
func newUploadError(err error) *UploadError {
	var message string

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		message = apiErr.Message
	} else if err != nil {
		message = err.Error()
	}

	message = strings.TrimSpace(message)
	if message == "" {
		message = defaultUploadMessage
	}

	return &UploadError{Message: message, Err: err}
}
