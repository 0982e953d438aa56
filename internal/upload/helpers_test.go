package upload

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/spigell/cvmatch/internal/backend"
)

type fakeBackend struct {
	mu      sync.Mutex
	upload  func(ctx context.Context, in backend.UploadRequest) (*backend.UploadResponse, error)
	status  func(ctx context.Context, id int64) (*backend.DocumentStatus, error)
	uploads int
	polled  []int64
}

func (f *fakeBackend) UploadDocument(ctx context.Context, in backend.UploadRequest) (*backend.UploadResponse, error) {
	f.mu.Lock()
	f.uploads++
	fn := f.upload
	f.mu.Unlock()

	return fn(ctx, in)
}

func (f *fakeBackend) DocumentStatus(ctx context.Context, id int64) (*backend.DocumentStatus, error) {
	f.mu.Lock()
	f.polled = append(f.polled, id)
	fn := f.status
	f.mu.Unlock()

	return fn(ctx, id)
}

func (f *fakeBackend) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploads
}

func (f *fakeBackend) polledIDs() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.polled...)
}

func acceptWithID(id int64) func(context.Context, backend.UploadRequest) (*backend.UploadResponse, error) {
	return func(context.Context, backend.UploadRequest) (*backend.UploadResponse, error) {
		return &backend.UploadResponse{
			Success:  true,
			Message:  "File uploaded successfully",
			Document: &backend.Document{ID: id, Filename: "resume.pdf", DocumentType: "cv"},
		}, nil
	}
}

// scripted answers with the given statuses in order, repeating the last one.
func scripted(statuses ...string) func(context.Context, int64) (*backend.DocumentStatus, error) {
	var mu sync.Mutex
	i := 0
	return func(_ context.Context, id int64) (*backend.DocumentStatus, error) {
		mu.Lock()
		defer mu.Unlock()

		s := statuses[i]
		if i < len(statuses)-1 {
			i++
		}
		return &backend.DocumentStatus{ID: id, Status: s}, nil
	}
}

// blockUntilCancelled signals started and then waits for ctx.
func blockUntilCancelled(started chan<- struct{}) func(ctx context.Context) error {
	var once sync.Once
	return func(ctx context.Context) error {
		once.Do(func() { close(started) })
		<-ctx.Done()
		return &backend.TransportError{Method: "GET", Path: "/", Err: ctx.Err()}
	}
}

func resumeFile() File {
	return FileFromBytes("resume.pdf", []byte("%PDF-1.4\n%test document\n"))
}

func collect(t *testing.T, task *Task) []ProgressEvent {
	t.Helper()

	var events []ProgressEvent
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-task.Events():
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatalf("task did not finish, events so far: %v", events)
			return nil
		}
	}
}

func statesOf(events []ProgressEvent) []State {
	states := make([]State, 0, len(events))
	for _, ev := range events {
		states = append(states, ev.State)
	}
	return states
}

func waitResult(t *testing.T, task *Task) (Result, error) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return task.Wait(ctx)
}
