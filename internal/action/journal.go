package action

import (
	"context"

	"go.uber.org/zap"
)

// Journal records discrete effects after they run. actionErr is the
// effect's own error, nil on success.
type Journal interface {
	RecordAction(ctx context.Context, kind string, x, y int, actionErr error) error
}

// Journaled wraps a Sink and writes every click, minimize and close to a
// Journal together with the cursor position at the time. Moves are not
// journaled.
type Journaled struct {
	next    Sink
	journal Journal
	logger  *zap.Logger

	x, y int
}

// NewJournaled creates a journaling decorator around next.
func NewJournaled(next Sink, journal Journal, logger *zap.Logger) *Journaled {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Journaled{next: next, journal: journal, logger: logger}
}

func (j *Journaled) MoveCursorTo(ctx context.Context, x, y int) error {
	err := j.next.MoveCursorTo(ctx, x, y)
	if err == nil {
		j.x, j.y = x, y
	}
	return err
}

func (j *Journaled) Click(ctx context.Context) error {
	return j.record(ctx, KindClick, j.next.Click(ctx))
}

func (j *Journaled) MinimizeActiveWindow(ctx context.Context) error {
	return j.record(ctx, KindMinimize, j.next.MinimizeActiveWindow(ctx))
}

func (j *Journaled) CloseActiveWindow(ctx context.Context) error {
	return j.record(ctx, KindClose, j.next.CloseActiveWindow(ctx))
}

// record journals the outcome and returns actionErr unchanged. Journal
// failures are logged only.
func (j *Journaled) record(ctx context.Context, kind Kind, actionErr error) error {
	if err := j.journal.RecordAction(ctx, string(kind), j.x, j.y, actionErr); err != nil {
		j.logger.Warn("journal write failed", zap.String("kind", string(kind)), zap.Error(err))
	}
	return actionErr
}
