package upload

type State string

const (
	StateUploading  State = "uploading"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
	StateCancelled  State = "cancelled"
)

func (s State) Terminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateCancelled:
		return true
	default:
		return false
	}
}

// ProgressEvent reports a single state transition of a task. Err is set only
// for StateFailed. Cancellation is never reported as an event.
type ProgressEvent struct {
	State      State
	DocumentID int64
	Err        error
}
