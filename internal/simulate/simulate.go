package simulate

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"matchfeed/internal/domain"
	"matchfeed/internal/roster"
)

// Team is one side of the simulated match with its starting eleven.
type Team struct {
	ID      int
	Name    string
	Players []roster.Player
}

// Per-minute event type probabilities (normalized before use). Substitution
// stays at zero: no subs in the opening minutes.
var eventWeights = []struct {
	eventType domain.EventType
	weight    float64
}{
	{domain.EventTypePass, 0.65},
	{domain.EventTypeShot, 0.12},
	{domain.EventTypeGoal, 0.03},
	{domain.EventTypeFoul, 0.08},
	{domain.EventTypeYellowCard, 0.02},
	{domain.EventTypeRedCard, 0.005},
	{domain.EventTypeSubstitution, 0.0},
	{domain.EventTypeOffside, 0.02},
	{domain.EventTypeCorner, 0.03},
	{domain.EventTypeFreeKick, 0.03},
	{domain.EventTypeInterception, 0.04},
}

// Simulation generates a stream of match events minute by minute: 20-50
// events per minute for the configured number of minutes, all sharing one
// match id. It is pure data generation with no network or storage side
// effects, and implements engine.EventSource.
type Simulation struct {
	matchID string
	home    Team
	away    Team
	minutes int
	kickoff time.Time
	rng     *rand.Rand
	cum     []float64

	// Progress, if set, is called at the start of every simulated minute with
	// the minute number, the number of events it will produce, and the
	// running total including them.
	Progress func(minute, count, total int)

	minute    int
	left      int
	produced  int
	perMinute []int
}

// New creates a simulation for one match. Kickoff is now, truncated to the
// minute; event timestamps advance one minute per simulated minute.
func New(home, away Team, minutes int, rng *rand.Rand) *Simulation {
	var total float64
	for _, w := range eventWeights {
		total += w.weight
	}
	cum := make([]float64, len(eventWeights))
	var acc float64
	for i, w := range eventWeights {
		acc += w.weight / total
		cum[i] = acc
	}

	return &Simulation{
		matchID: uuid.NewString(),
		home:    home,
		away:    away,
		minutes: minutes,
		kickoff: time.Now().Truncate(time.Minute),
		rng:     rng,
		cum:     cum,
	}
}

// MatchID returns the id shared by every event of this simulation.
func (s *Simulation) MatchID() string {
	return s.matchID
}

// Produced returns the number of events generated so far.
func (s *Simulation) Produced() int {
	return s.produced
}

// EventsPerMinute returns the event count of each simulated minute so far.
func (s *Simulation) EventsPerMinute() []int {
	return s.perMinute
}

// Next yields the next event in generation order, or false when the match is
// over or the context is cancelled.
func (s *Simulation) Next(ctx context.Context) (*domain.Event, bool) {
	if ctx.Err() != nil {
		return nil, false
	}

	for s.left == 0 {
		if s.minute >= s.minutes {
			return nil, false
		}
		s.minute++
		s.left = 20 + s.rng.IntN(31) // 20-50 events per minute
		s.perMinute = append(s.perMinute, s.left)
		if s.Progress != nil {
			s.Progress(s.minute, s.left, s.produced+s.left)
		}
	}

	s.left--
	s.produced++
	return s.event(), true
}

func (s *Simulation) event() *domain.Event {
	team := s.home
	if s.rng.IntN(2) == 1 {
		team = s.away
	}
	player := team.Players[s.rng.IntN(len(team.Players))]
	eventType := s.pickType()

	return &domain.Event{
		EventID:   uuid.NewString(),
		MatchID:   s.matchID,
		EventType: eventType,
		Timestamp: s.kickoff.Add(time.Duration(s.minute-1) * time.Minute),
		TeamID:    team.ID,
		PlayerID:  player.ID,
		Metadata:  marshalMetadata(s.buildMetadata(eventType, player, team)),
	}
}

func (s *Simulation) pickType() domain.EventType {
	r := s.rng.Float64()
	for i, c := range s.cum {
		if r < c {
			return eventWeights[i].eventType
		}
	}
	return eventWeights[len(eventWeights)-1].eventType
}
