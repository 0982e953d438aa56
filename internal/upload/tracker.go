package upload

import (
	"context"
	"sync"

	"github.com/spigell/cvmatch/internal/backend"
)

// Tracker keeps at most one live task per caller. Starting a new upload
// cancels the previous one first, so two pollers never report into the same
// place.
type Tracker struct {
	uploader *Uploader

	mu   sync.Mutex
	live *Task
}

func NewTracker(uploader *Uploader) *Tracker {
	return &Tracker{uploader: uploader}
}

func (t *Tracker) Start(ctx context.Context, file File, documentType backend.DocumentType) *Task {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.live != nil {
		t.live.Cancel()
	}

	t.live = t.uploader.Start(ctx, file, documentType)
	return t.live
}

// Live returns the current task, or nil when none was started or it is over.
func (t *Tracker) Live() *Task {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.live == nil {
		return nil
	}

	select {
	case <-t.live.Done():
		return nil
	default:
		return t.live
	}
}

// Cancel cancels the current task, if any. Used on teardown.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.live != nil {
		t.live.Cancel()
		t.live = nil
	}
}
