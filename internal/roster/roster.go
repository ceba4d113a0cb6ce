package roster

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
)

// Player positions as they appear in roster files.
const (
	PositionGoalkeeper = "gk"
	PositionDefender   = "def"
	PositionMidfielder = "mid"
	PositionForward    = "fwd"
)

// Player is one entry of a team roster.
type Player struct {
	ID       string
	Name     string
	Position string
}

// Formation is the positional breakdown of a starting eleven. GK is always 1.
type Formation struct {
	GK  int
	Def int
	Mid int
	Fwd int
}

func (f Formation) String() string {
	return fmt.Sprintf("GK-%d-%d-%d", f.Def, f.Mid, f.Fwd)
}

// Common football formations (excluding GK, always 1).
var formations = []Formation{
	{GK: 1, Def: 4, Mid: 4, Fwd: 2},
	{GK: 1, Def: 4, Mid: 3, Fwd: 3},
	{GK: 1, Def: 3, Mid: 5, Fwd: 2},
	{GK: 1, Def: 5, Mid: 3, Fwd: 2},
	{GK: 1, Def: 4, Mid: 5, Fwd: 1},
	{GK: 1, Def: 3, Mid: 4, Fwd: 3},
}

// Load reads a roster CSV with columns id, name, position (any order).
// Positions are lowercased.
func Load(path string) ([]Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening roster file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading roster header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"id", "name", "position"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("roster file %s has no %q column", path, required)
		}
	}

	var players []Player
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading roster rows: %w", err)
	}
	for _, rec := range records {
		players = append(players, Player{
			ID:       strings.TrimSpace(rec[cols["id"]]),
			Name:     strings.TrimSpace(rec[cols["name"]]),
			Position: strings.ToLower(strings.TrimSpace(rec[cols["position"]])),
		})
	}

	if len(players) == 0 {
		return nil, fmt.Errorf("roster file %s has no players", path)
	}
	return players, nil
}

// SelectStartingXI picks a random formation and samples players for each
// position. It errors when the roster cannot fill a position.
func SelectStartingXI(players []Player, rng *rand.Rand) ([]Player, Formation, error) {
	formation := formations[rng.IntN(len(formations))]

	slots := []struct {
		position string
		count    int
	}{
		{PositionGoalkeeper, formation.GK},
		{PositionDefender, formation.Def},
		{PositionMidfielder, formation.Mid},
		{PositionForward, formation.Fwd},
	}

	var selected []Player
	for _, slot := range slots {
		var pool []Player
		for _, p := range players {
			if p.Position == slot.position {
				pool = append(pool, p)
			}
		}
		if len(pool) < slot.count {
			return nil, Formation{}, fmt.Errorf(
				"not enough players for position %s: need %d, have %d",
				slot.position, slot.count, len(pool))
		}
		rng.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
		selected = append(selected, pool[:slot.count]...)
	}

	return selected, formation, nil
}
