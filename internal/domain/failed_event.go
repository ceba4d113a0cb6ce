package domain

import "time"

// FailedEvent is one delivery failure persisted for later redelivery.
// EventData is the byte-exact payload of the original failed attempt.
type FailedEvent struct {
	ID            int64     `json:"id"`
	EventData     []byte    `json:"event_data"`
	FailureReason string    `json:"failure_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	RetryCount    int       `json:"retry_count"`
}
