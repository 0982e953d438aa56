package upload

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/cvmatch/internal/backend"
	"github.com/spigell/cvmatch/internal/logger"
	"github.com/spigell/cvmatch/internal/utils"
)

const defaultPollInterval = 2 * time.Second

type StatusChecker interface {
	DocumentStatus(ctx context.Context, id int64) (*backend.DocumentStatus, error)
}

type PollConfig struct {
	// Interval is the delay between the end of one poll and the next request.
	Interval time.Duration
	// MaxPolls stops polling with ErrPollLimit after that many requests. Zero means no limit.
	MaxPolls int
}

// Poller asks for the document status one request at a time until the backend
// reports a terminal status.
type Poller struct {
	checker  StatusChecker
	interval time.Duration
	maxPolls int
	logger   *zap.Logger

	wait func(ctx context.Context, d time.Duration) error
}

func NewPoller(checker StatusChecker, cfg PollConfig, log *zap.Logger) *Poller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	maxPolls := cfg.MaxPolls
	if maxPolls < 0 {
		maxPolls = 0
	}

	return &Poller{
		checker:  checker,
		interval: interval,
		maxPolls: maxPolls,
		logger:   logger.WithFields(log),
		wait:     utils.WaitFor,
	}
}

// Poll drives documentID to a terminal state and returns it. emit is called
// only for completed or failed; a cancelled ctx returns StateCancelled without
// emitting anything.
func (p *Poller) Poll(ctx context.Context, documentID int64, emit func(ProgressEvent)) State {
	log := p.logger.With(zap.Int64(logger.FieldDocumentID, documentID))

	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return StateCancelled
		}

		status, err := p.checker.DocumentStatus(ctx, documentID)
		if err != nil {
			if ctx.Err() != nil {
				return StateCancelled
			}

			log.Debug("status request failed", zap.Int("attempt", attempt), zap.Error(err))
			emit(ProgressEvent{
				State:      StateFailed,
				DocumentID: documentID,
				Err:        fmt.Errorf("poll document status: %w", err),
			})
			return StateFailed
		}

		canonical := status.Canonical()
		log.Debug("got document status", zap.Int("attempt", attempt), zap.String("status", string(canonical)))

		switch canonical {
		case backend.StatusCompleted:
			emit(ProgressEvent{State: StateCompleted, DocumentID: documentID})
			return StateCompleted
		case backend.StatusFailed:
			err := ErrProcessingFailed
			if detail := status.Detail(); detail != "" {
				err = fmt.Errorf("%w: %s", ErrProcessingFailed, detail)
			}
			emit(ProgressEvent{State: StateFailed, DocumentID: documentID, Err: err})
			return StateFailed
		}

		if p.maxPolls > 0 && attempt >= p.maxPolls {
			emit(ProgressEvent{State: StateFailed, DocumentID: documentID, Err: ErrPollLimit})
			return StateFailed
		}

		if err := p.wait(ctx, p.interval); err != nil {
			return StateCancelled
		}
	}
}
