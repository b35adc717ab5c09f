package events

import (
	"context"
	"errors"
	"time"

	"sea-u/pkg/logger"

	"go.uber.org/zap"
)

// session runs one connection until it fails. connected reports whether the
// connection came up before failing, which resets the backoff.
type session func(ctx context.Context) (connected bool, err error)

// reconnector re-runs a session with exponential backoff until ctx ends or
// the bus it feeds is closed.
type reconnector struct {
	name       string
	log        *logger.Logger
	minBackoff time.Duration
	maxBackoff time.Duration
}

func newReconnector(name string, log *logger.Logger) reconnector {
	return reconnector{name: name, log: log, minBackoff: 500 * time.Millisecond, maxBackoff: 30 * time.Second}
}

func (r reconnector) run(ctx context.Context, s session) error {
	backoff := r.minBackoff
	for {
		connected, err := s(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, ErrBusClosed) {
			return err
		}
		if connected {
			backoff = r.minBackoff
		}
		r.log.Logger.Warn(r.name+" disconnected", zap.Duration("retry_in", backoff), zap.Error(err))

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > r.maxBackoff {
			backoff = r.maxBackoff
		}
	}
}
