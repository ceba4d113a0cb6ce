package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"matchfeed/internal/domain"
)

// InsertFailure records a first-time delivery failure with a zero retry
// count and returns the assigned row id.
func (s *Store) InsertFailure(ctx context.Context, eventData []byte, failureReason string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO failed_events (event_data, failure_reason, created_at, retry_count)
		VALUES ($1, $2, $3, 0)
		RETURNING id
	`, string(eventData), failureReason, time.Now().UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting failed event: %w", err)
	}
	return id, nil
}

// ListRetryable returns all rows whose retry count is still below the
// ceiling, oldest failures first so a burst of new ones cannot starve them.
// Rows at or above the ceiling are dead and never returned.
func (s *Store) ListRetryable(ctx context.Context, maxRetries int) ([]domain.FailedEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_data, failure_reason, created_at, retry_count
		FROM failed_events
		WHERE retry_count < $1
		ORDER BY created_at, id
	`, maxRetries)
	if err != nil {
		return nil, fmt.Errorf("querying retryable events: %w", err)
	}
	defer rows.Close()

	return scanFailedEvents(rows)
}

// List returns stored failed events, newest first, including dead ones.
func (s *Store) List(ctx context.Context, limit int) ([]domain.FailedEvent, error) {
	query := `
		SELECT id, event_data, failure_reason, created_at, retry_count
		FROM failed_events
		ORDER BY created_at DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying failed events: %w", err)
	}
	defer rows.Close()

	return scanFailedEvents(rows)
}

// IncrementRetry bumps the retry count by one and overwrites the failure
// reason with the latest one.
func (s *Store) IncrementRetry(ctx context.Context, id int64, failureReason string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE failed_events
		SET retry_count = retry_count + 1, failure_reason = $1
		WHERE id = $2
	`, failureReason, id)
	if err != nil {
		return fmt.Errorf("incrementing retry count: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("failed event %d not found", id)
	}
	return nil
}

// Delete removes a row after successful redelivery. Deleting an absent row
// is not an error.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM failed_events WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting failed event: %w", err)
	}
	return nil
}

// Count returns the total number of stored rows, dead ones included.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM failed_events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting failed events: %w", err)
	}
	return n, nil
}

func scanFailedEvents(rows *sql.Rows) ([]domain.FailedEvent, error) {
	var events []domain.FailedEvent
	for rows.Next() {
		var fe domain.FailedEvent
		var data string
		if err := rows.Scan(&fe.ID, &data, &fe.FailureReason, &fe.CreatedAt, &fe.RetryCount); err != nil {
			return nil, fmt.Errorf("scanning failed event: %w", err)
		}
		fe.EventData = []byte(data)
		events = append(events, fe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating failed events: %w", err)
	}

	if events == nil {
		events = []domain.FailedEvent{}
	}
	return events, nil
}
