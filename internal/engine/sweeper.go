package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"matchfeed/internal/domain"
	"matchfeed/internal/store"
)

// SweepSummary reports the totals of one sweep pass. Remaining counts every
// row still in the store afterwards, dead rows included.
type SweepSummary struct {
	Attempted   int
	Delivered   int
	StillFailed int
	Remaining   int
}

// Sweeper re-attempts delivery of previously failed events. Rows whose retry
// count has reached the ceiling are never attempted again; a row at
// maxRetries-1 gets exactly one final attempt before going dead.
type Sweeper struct {
	attempter  Attempter
	store      *store.Store
	maxRetries int
	delay      time.Duration
	logger     *slog.Logger
}

func NewSweeper(attempter Attempter, st *store.Store, maxRetries int, delay time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		attempter:  attempter,
		store:      st,
		maxRetries: maxRetries,
		delay:      delay,
		logger:     logger,
	}
}

// Sweep runs one full pass over all retryable rows, oldest first. Successful
// redeliveries are deleted; failures get their retry count bumped. Store
// faults abort the pass.
func (s *Sweeper) Sweep(ctx context.Context) (SweepSummary, error) {
	var sum SweepSummary

	rows, err := s.store.ListRetryable(ctx, s.maxRetries)
	if err != nil {
		return sum, fmt.Errorf("listing retryable events: %w", err)
	}

	if len(rows) == 0 {
		remaining, err := s.store.Count(ctx)
		if err != nil {
			return sum, fmt.Errorf("counting failed events: %w", err)
		}
		sum.Remaining = remaining
		s.logger.Info("nothing to retry", "remaining", remaining)
		return sum, nil
	}

	s.logger.Info("sweep started", "retryable", len(rows), "max_retries", s.maxRetries)

	for i, row := range rows {
		if i > 0 {
			// Politeness delay so a long backlog does not hammer the endpoint.
			if err := s.pause(ctx); err != nil {
				return sum, err
			}
		}
		sum.Attempted++

		if _, err := domain.ParseEvent(row.EventData); err != nil {
			// The stored payload no longer decodes as an event. Count it as a
			// failed attempt so it eventually goes dead instead of blocking
			// the sweep forever.
			if ierr := s.store.IncrementRetry(ctx, row.ID, fmt.Sprintf("stored event data invalid: %v", err)); ierr != nil {
				return sum, fmt.Errorf("recording retry failure for row %d: %w", row.ID, ierr)
			}
			sum.StillFailed++
			s.logger.Warn("stored event data invalid", "id", row.ID, "error", err)
			continue
		}

		// Redeliver the stored bytes verbatim, never a re-marshal.
		outcome := s.attempter.Deliver(ctx, row.EventData)
		if outcome.Delivered() {
			if err := s.store.Delete(ctx, row.ID); err != nil {
				return sum, fmt.Errorf("deleting redelivered row %d: %w", row.ID, err)
			}
			sum.Delivered++
			s.logger.Info("event redelivered", "id", row.ID, "retry_count", row.RetryCount)
			continue
		}

		if err := s.store.IncrementRetry(ctx, row.ID, outcome.Reason); err != nil {
			return sum, fmt.Errorf("recording retry failure for row %d: %w", row.ID, err)
		}
		sum.StillFailed++
		s.logger.Warn("redelivery failed",
			"id", row.ID,
			"retry_count", row.RetryCount+1,
			"status", outcome.Status.String(),
			"reason", outcome.Reason,
		)
	}

	remaining, err := s.store.Count(ctx)
	if err != nil {
		return sum, fmt.Errorf("counting failed events: %w", err)
	}
	sum.Remaining = remaining

	s.logger.Info("sweep complete",
		"attempted", sum.Attempted,
		"delivered", sum.Delivered,
		"still_failed", sum.StillFailed,
		"remaining", sum.Remaining,
	)
	return sum, nil
}

func (s *Sweeper) pause(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
