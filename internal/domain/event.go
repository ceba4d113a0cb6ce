package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType identifies one kind of match action.
type EventType string

const (
	EventTypePass         EventType = "pass"
	EventTypeShot         EventType = "shot"
	EventTypeGoal         EventType = "goal"
	EventTypeFoul         EventType = "foul"
	EventTypeYellowCard   EventType = "yellow_card"
	EventTypeRedCard      EventType = "red_card"
	EventTypeSubstitution EventType = "substitution"
	EventTypeOffside      EventType = "offside"
	EventTypeCorner       EventType = "corner"
	EventTypeFreeKick     EventType = "free_kick"
	EventTypeInterception EventType = "interception"
)

var validEventTypes = map[EventType]bool{
	EventTypePass:         true,
	EventTypeShot:         true,
	EventTypeGoal:         true,
	EventTypeFoul:         true,
	EventTypeYellowCard:   true,
	EventTypeRedCard:      true,
	EventTypeSubstitution: true,
	EventTypeOffside:      true,
	EventTypeCorner:       true,
	EventTypeFreeKick:     true,
	EventTypeInterception: true,
}

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	return validEventTypes[t]
}

// Event is one simulated match occurrence in its wire form. Metadata is
// type-specific and carried opaquely; the delivery path never looks inside it.
type Event struct {
	EventID   string          `json:"eventId"`
	MatchID   string          `json:"matchId"`
	EventType EventType       `json:"eventType"`
	Timestamp time.Time       `json:"timestamp"`
	TeamID    int             `json:"teamId"`
	PlayerID  string          `json:"playerId"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

// Marshal serializes the event into its wire payload.
func (e *Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// ParseEvent decodes a wire payload back into an Event and checks that it is
// structurally valid.
func ParseEvent(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decoding event: %w", err)
	}
	if e.EventID == "" {
		return nil, fmt.Errorf("event has no eventId")
	}
	if !e.EventType.Valid() {
		return nil, fmt.Errorf("unknown event type %q", e.EventType)
	}
	return &e, nil
}
