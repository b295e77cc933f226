package coordinator

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/delcain/drawsync/pkg/caixa"
	"github.com/delcain/drawsync/pkg/draw"
	"github.com/delcain/drawsync/pkg/observability"
)

// fetchWithRetry fetches one draw, retrying transient failures up to the
// configured bound with doubling backoff. NotFound and Malformed are
// permanent for the draw number and returned immediately.
func (s *service) fetchWithRetry(ctx context.Context, number int) (*draw.Record, error) {
	backoff := s.cfg.RetryBackoff

	var lastErr error

	for attempt := 0; attempt <= s.cfg.RetryAttempts; attempt++ {
		if attempt > 0 {
			observability.RecordFetchRetry()

			select {
			case <-time.After(backoff):
				backoff *= 2
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		rec, err := s.client.FetchDraw(ctx, number)
		if err == nil {
			return rec, nil
		}

		lastErr = err

		if !errors.Is(err, caixa.ErrTransient) {
			return nil, err
		}

		s.log.WithError(err).WithFields(logrus.Fields{
			"number":  number,
			"attempt": attempt + 1,
		}).Debug("Transient fetch failure")
	}

	return nil, lastErr
}
