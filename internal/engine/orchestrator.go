package engine

import (
	"context"
	"fmt"
	"log/slog"

	"matchfeed/internal/domain"
	"matchfeed/internal/store"
	"matchfeed/internal/worker"
)

// EventSource yields match events one at a time in generation order. The
// second return value is false once the source is exhausted.
type EventSource interface {
	Next(ctx context.Context) (*domain.Event, bool)
}

// Attempter performs one synchronous delivery attempt of a serialized event.
type Attempter interface {
	Deliver(ctx context.Context, payload []byte) worker.Outcome
}

// RunSummary reports the totals of one generation pass.
type RunSummary struct {
	Produced  int
	Delivered int
	Failed    int
}

// Orchestrator drains an event source, attempts synchronous delivery of each
// event, and persists every failure to the store. Events are processed one at
// a time in generation order; a failed event is never re-attempted within the
// same pass.
type Orchestrator struct {
	attempter Attempter
	store     *store.Store
	logger    *slog.Logger
}

func NewOrchestrator(attempter Attempter, st *store.Store, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		attempter: attempter,
		store:     st,
		logger:    logger,
	}
}

// Run consumes the source until exhaustion. Delivery failures are routed to
// the store and do not stop the pass; store faults do, since losing a failure
// record would break the at-least-once contract.
func (o *Orchestrator) Run(ctx context.Context, src EventSource) (RunSummary, error) {
	var sum RunSummary

	for {
		ev, ok := src.Next(ctx)
		if !ok {
			break
		}
		sum.Produced++

		payload, err := ev.Marshal()
		if err != nil {
			return sum, fmt.Errorf("encoding event %s: %w", ev.EventID, err)
		}

		outcome := o.attempter.Deliver(ctx, payload)
		if outcome.Delivered() {
			sum.Delivered++
			o.logger.Debug("event delivered",
				"event_id", ev.EventID,
				"event_type", ev.EventType,
			)
			continue
		}

		id, err := o.store.InsertFailure(ctx, payload, outcome.Reason)
		if err != nil {
			return sum, fmt.Errorf("storing failed event %s: %w", ev.EventID, err)
		}
		sum.Failed++
		o.logger.Warn("delivery failed",
			"event_id", ev.EventID,
			"event_type", ev.EventType,
			"status", outcome.Status.String(),
			"reason", outcome.Reason,
			"stored_id", id,
		)
	}

	o.logger.Info("generation pass complete",
		"produced", sum.Produced,
		"delivered", sum.Delivered,
		"failed", sum.Failed,
	)
	return sum, nil
}
