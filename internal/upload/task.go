package upload

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/cvmatch/internal/backend"
	"github.com/spigell/cvmatch/internal/logger"
)

// uploading, processing and one terminal event.
const maxEvents = 3

// Backend is the part of the API client a task talks to.
type Backend interface {
	DocumentUploader
	StatusChecker
}

// Result is the final outcome of a task.
type Result struct {
	DocumentID int64
	State      State
	// Message is the backend's acknowledgement of the upload.
	Message string
	// Err explains a failed state reached while polling.
	Err error
}

// Uploader starts upload tasks against one backend.
type Uploader struct {
	submitter *Submitter
	poller    *Poller
	logger    *zap.Logger
}

func NewUploader(b Backend, cfg PollConfig, log *zap.Logger) *Uploader {
	log = logger.WithFields(log)

	return &Uploader{
		submitter: NewSubmitter(b, log),
		poller:    NewPoller(b, cfg, log),
		logger:    log,
	}
}

// Task is a single upload-and-poll attempt. It is owned by the caller that
// started it.
type Task struct {
	file         File
	documentType backend.DocumentType
	uploader     *Uploader
	logger       *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	state      State
	cancelled  bool
	documentID int64
	message    string
	failure    error
	rejection  error
	events     chan ProgressEvent

	done chan struct{}
}

// Start emits uploading synchronously and runs the rest of the task in the
// background. Cancelling ctx has the same effect as calling Cancel.
func (u *Uploader) Start(ctx context.Context, file File, documentType backend.DocumentType) *Task {
	taskCtx, cancel := context.WithCancel(ctx)

	t := &Task{
		file:         file,
		documentType: documentType,
		uploader:     u,
		logger:       logger.WithUpload(u.logger, file.Name, string(documentType), 0),
		ctx:          taskCtx,
		cancel:       cancel,
		events:       make(chan ProgressEvent, maxEvents),
		done:         make(chan struct{}),
	}

	t.emit(ProgressEvent{State: StateUploading})

	go t.run()

	return t
}

// Events returns the progress of the task. The channel is closed when the
// task is over, including after cancellation.
func (t *Task) Events() <-chan ProgressEvent {
	return t.events
}

// Done is closed when the task is over.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state
}

// DocumentID is zero until the backend accepted the upload.
func (t *Task) DocumentID() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.documentID
}

// Cancel aborts the request in flight and any pending poll. After Cancel
// returns no event is delivered. Calling it again, or after the task is over,
// has no effect.
func (t *Task) Cancel() {
	t.mu.Lock()
	if t.cancelled || t.state.Terminal() {
		t.mu.Unlock()
		return
	}
	t.cancelled = true
	t.state = StateCancelled
	t.mu.Unlock()

	t.logger.Debug("cancelling upload")
	t.cancel()
}

// Wait blocks until the task is over. The error is non-nil only when the
// initial submission was rejected (*UploadError) or ctx ended first.
func (t *Task) Wait(ctx context.Context) (Result, error) {
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case <-t.done:
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	result := Result{
		DocumentID: t.documentID,
		State:      t.state,
		Message:    t.message,
		Err:        t.failure,
	}

	return result, t.rejection
}

func (t *Task) run() {
	defer close(t.done)
	defer t.cancel()

	submission, err := t.uploader.submitter.Submit(t.ctx, t.file, t.documentType)
	switch {
	case errors.Is(err, ErrCancelled):
		t.finish(StateCancelled, nil)
		return
	case err != nil:
		t.finish(StateFailed, err)
		return
	case !submission.Accepted:
		message := submission.Message
		if message == "" {
			message = "document was not accepted by the backend"
		}
		t.finish(StateFailed, &UploadError{Message: message})
		return
	}

	t.accept(submission)

	if !t.emit(ProgressEvent{State: StateProcessing, DocumentID: submission.DocumentID}) {
		t.finish(StateCancelled, nil)
		return
	}

	final := t.uploader.poller.Poll(t.ctx, submission.DocumentID, func(ev ProgressEvent) {
		t.emit(ev)
	})

	t.finish(final, nil)
}

// emit delivers ev unless the task was cancelled and reports whether it did.
// The channel is buffered for every event a task can produce, so the send
// never blocks while the lock is held.
func (t *Task) emit(ev ProgressEvent) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancelled || t.state.Terminal() {
		return false
	}

	t.state = ev.State
	if ev.Err != nil {
		t.failure = ev.Err
	}
	t.events <- ev

	return true
}

func (t *Task) accept(submission Submission) {
	t.mu.Lock()
	t.documentID = submission.DocumentID
	t.message = submission.Message
	t.mu.Unlock()

	t.logger.Debug("document accepted",
		zap.Int64(logger.FieldDocumentID, submission.DocumentID),
		zap.String("message", submission.Message),
	)
}

// finish settles the task state and closes the events channel. A cancellation
// requested by the caller wins over whatever the background work concluded.
func (t *Task) finish(final State, rejection error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case t.cancelled || (t.ctx.Err() != nil && !t.state.Terminal()):
		t.cancelled = true
		t.state = StateCancelled
	case rejection != nil:
		t.state = StateFailed
		t.rejection = rejection
	case !t.state.Terminal():
		t.state = final
	}

	close(t.events)

	t.logger.Debug("upload finished",
		zap.Int64(logger.FieldDocumentID, t.documentID),
		zap.String("state", string(t.state)),
	)
}
