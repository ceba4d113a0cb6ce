package roster

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	players, err := Load(filepath.Join("testdata", "squad.csv"))
	require.NoError(t, err)
	require.Len(t, players, 18)

	assert.Equal(t, Player{ID: "p01", Name: "Alan Keeper", Position: "gk"}, players[0])
	// Positions are lowercased even when the file shouts.
	for _, p := range players {
		assert.Contains(t, []string{PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionForward}, p.Position)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "no-such-team.csv"))
	require.Error(t, err)
}

func TestLoad_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,name\n1,Someone\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"position"`)
}

func TestLoad_EmptyRoster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,name,position\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no players")
}

func TestSelectStartingXI(t *testing.T) {
	players, err := Load(filepath.Join("testdata", "squad.csv"))
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(7, 0))
	xi, formation, err := SelectStartingXI(players, rng)
	require.NoError(t, err)

	require.Len(t, xi, 11)
	assert.Equal(t, 1, formation.GK)
	assert.Equal(t, 11, formation.GK+formation.Def+formation.Mid+formation.Fwd)

	counts := map[string]int{}
	seen := map[string]bool{}
	for _, p := range xi {
		counts[p.Position]++
		assert.False(t, seen[p.ID], "player %s picked twice", p.ID)
		seen[p.ID] = true
	}
	assert.Equal(t, formation.GK, counts[PositionGoalkeeper])
	assert.Equal(t, formation.Def, counts[PositionDefender])
	assert.Equal(t, formation.Mid, counts[PositionMidfielder])
	assert.Equal(t, formation.Fwd, counts[PositionForward])
}

func TestSelectStartingXI_NotEnoughPlayers(t *testing.T) {
	// No goalkeepers at all: every formation needs one.
	players := []Player{
		{ID: "1", Name: "A", Position: PositionDefender},
		{ID: "2", Name: "B", Position: PositionMidfielder},
	}

	rng := rand.New(rand.NewPCG(7, 0))
	_, _, err := SelectStartingXI(players, rng)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not enough players")
}

func TestFormationString(t *testing.T) {
	f := Formation{GK: 1, Def: 4, Mid: 4, Fwd: 2}
	assert.Equal(t, "GK-4-4-2", f.String())
}
