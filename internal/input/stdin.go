// Package input delivers touch/keypress events to the scheduler over
// a channel. Sources never touch displays or configuration; a press
// only ever becomes a queued event.
package input

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/genricoloni/mediapanel/internal/domain"
	"go.uber.org/zap"
)

// ReaderSource turns each line read from r into a press event. Used in
// demo mode with stdin standing in for the touch controller.
type ReaderSource struct {
	logger *zap.Logger
	r      io.Reader
	events chan domain.PressEvent
}

// NewReaderSource creates a source reading from r.
func NewReaderSource(logger *zap.Logger, r io.Reader) *ReaderSource {
	return &ReaderSource{
		logger: logger,
		r:      r,
		events: make(chan domain.PressEvent, 8),
	}
}

// Events returns the press notification channel.
func (s *ReaderSource) Events() <-chan domain.PressEvent { return s.events }

// Start reads lines until EOF or context cancellation. Each line is
// one press.
func (s *ReaderSource) Start(ctx context.Context) error {
	scanner := bufio.NewScanner(s.r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		select {
		case s.events <- domain.PressEvent{At: time.Now()}:
			s.logger.Debug("Press queued")
		default:
			s.logger.Debug("Press dropped, queue full")
		}
	}
	return scanner.Err()
}

// Stop is a no-op; the reader is owned by the caller.
func (s *ReaderSource) Stop() error { return nil }

// NoopSource is the source used when no input device is configured.
type NoopSource struct{ ch chan domain.PressEvent }

// NewNoopSource creates a source that never produces events.
func NewNoopSource() *NoopSource {
	return &NoopSource{ch: make(chan domain.PressEvent)}
}

func (n *NoopSource) Start(ctx context.Context) error    { <-ctx.Done(); return nil }
func (n *NoopSource) Events() <-chan domain.PressEvent   { return n.ch }
func (n *NoopSource) Stop() error                        { return nil }
