package simulate

import (
	"encoding/json"

	"matchfeed/internal/domain"
	"matchfeed/internal/roster"
)

// Per-type metadata shapes. Each carries the action tag naming its event type
// so consumers can dispatch without looking at the envelope.

type passMetadata struct {
	Action string `json:"action"`
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
}

type shotMetadata struct {
	Action    string `json:"action"`
	ShooterID string `json:"shooter_id"`
}

type goalMetadata struct {
	Action   string `json:"action"`
	ScorerID string `json:"scorer_id"`
	AssistID string `json:"assist_id,omitempty"`
}

type foulMetadata struct {
	Action   string `json:"action"`
	FoulerID string `json:"fouler_id"`
	VictimID string `json:"victim_id"`
}

type cardMetadata struct {
	Action   string `json:"action"`
	PlayerID string `json:"player_id"`
	CardType string `json:"card_type"`
	Reason   string `json:"reason"`
}

type offsideMetadata struct {
	Action   string `json:"action"`
	PlayerID string `json:"player_id"`
}

type setPieceMetadata struct {
	Action  string `json:"action"`
	Type    string `json:"type"`
	TakerID string `json:"taker_id"`
}

type interceptionMetadata struct {
	Action            string `json:"action"`
	InterceptorID     string `json:"interceptor_id"`
	InterceptedFromID string `json:"intercepted_from_id"`
}

type actionMetadata struct {
	Action string `json:"action"`
}

// buildMetadata constructs the type-specific metadata for an event. Every
// event type gets a case here; adding a type without one falls through to the
// bare action tag.
func (s *Simulation) buildMetadata(eventType domain.EventType, player roster.Player, team Team) interface{} {
	action := string(eventType)

	switch eventType {
	case domain.EventTypePass:
		target := s.teammateOf(team, player)
		return passMetadata{Action: action, FromID: player.ID, ToID: target.ID}

	case domain.EventTypeShot:
		return shotMetadata{Action: action, ShooterID: player.ID}

	case domain.EventTypeGoal:
		md := goalMetadata{Action: action, ScorerID: player.ID}
		// 70% chance of having an assist
		if s.rng.Float64() < 0.7 {
			md.AssistID = s.teammateOf(team, player).ID
		}
		return md

	case domain.EventTypeFoul:
		victim := s.opponentOf(team)
		return foulMetadata{Action: action, FoulerID: player.ID, VictimID: victim.ID}

	case domain.EventTypeYellowCard:
		return cardMetadata{Action: action, PlayerID: player.ID, CardType: "yellow", Reason: "unsporting behavior"}

	case domain.EventTypeRedCard:
		return cardMetadata{Action: action, PlayerID: player.ID, CardType: "red", Reason: "serious foul play"}

	case domain.EventTypeOffside:
		return offsideMetadata{Action: action, PlayerID: player.ID}

	case domain.EventTypeCorner:
		return setPieceMetadata{Action: action, Type: "corner", TakerID: player.ID}

	case domain.EventTypeFreeKick:
		return setPieceMetadata{Action: action, Type: "free_kick", TakerID: player.ID}

	case domain.EventTypeInterception:
		from := s.opponentOf(team)
		return interceptionMetadata{Action: action, InterceptorID: player.ID, InterceptedFromID: from.ID}

	default:
		return actionMetadata{Action: action}
	}
}

// marshalMetadata serializes metadata, falling back to an empty object so a
// metadata problem never breaks event generation.
func marshalMetadata(md interface{}) json.RawMessage {
	data, err := json.Marshal(md)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return data
}

// teammateOf picks a random teammate other than the player, or the player
// itself if the team has nobody else.
func (s *Simulation) teammateOf(team Team, player roster.Player) roster.Player {
	var pool []roster.Player
	for _, p := range team.Players {
		if p.ID != player.ID {
			pool = append(pool, p)
		}
	}
	if len(pool) == 0 {
		return player
	}
	return pool[s.rng.IntN(len(pool))]
}

// opponentOf picks a random player from the other team.
func (s *Simulation) opponentOf(team Team) roster.Player {
	opponents := s.home.Players
	if team.ID == s.home.ID {
		opponents = s.away.Players
	}
	return opponents[s.rng.IntN(len(opponents))]
}
