package action

import (
	"context"

	"go.uber.org/zap"
)

// Noop logs every effect at debug level and performs none. It backs dry
// runs and headless machines.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a Noop sink.
func NewNoop(logger *zap.Logger) *Noop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Noop{logger: logger}
}

func (n *Noop) MoveCursorTo(_ context.Context, x, y int) error {
	n.logger.Debug("move", zap.Int("x", x), zap.Int("y", y))
	return nil
}

func (n *Noop) Click(_ context.Context) error {
	n.logger.Debug("click")
	return nil
}

func (n *Noop) MinimizeActiveWindow(_ context.Context) error {
	n.logger.Debug("minimize")
	return nil
}

func (n *Noop) CloseActiveWindow(_ context.Context) error {
	n.logger.Debug("close")
	return nil
}
