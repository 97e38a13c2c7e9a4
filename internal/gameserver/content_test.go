package gameserver

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/rpgproject/internal/game/level"
	"github.com/cory-johannsen/rpgproject/internal/game/ruleset"
	"github.com/cory-johannsen/rpgproject/internal/game/stats"
	"github.com/cory-johannsen/rpgproject/internal/game/world"
	"github.com/cory-johannsen/rpgproject/internal/scripting"
)

const contentRoot = "../../content"

func TestShippedContent_LoadsAndRuns(t *testing.T) {
	rules, err := ruleset.LoadRegistry(
		filepath.Join(contentRoot, "archetypes"),
		filepath.Join(contentRoot, "spells"),
		filepath.Join(contentRoot, "pickups"),
	)
	require.NoError(t, err)
	lvl, err := level.LoadFromFile(filepath.Join(contentRoot, "level.yaml"), func(id string) bool {
		_, ok := rules.Pickup(id)
		return ok
	})
	require.NoError(t, err)

	logger := zaptest.NewLogger(t)
	scripts := scripting.NewManager(logger)
	t.Cleanup(scripts.Close)
	_, err = scripts.Load(filepath.Join(contentRoot, "scripts"), 0)
	require.NoError(t, err)

	w := world.New(lvl, rules, world.WithLogger(logger), world.WithHealResolver(scripts))
	assert.Equal(t, 4, w.PopulatePickups())

	eve, err := w.Spawn(world.SpawnSpec{Name: "Eve", Archetype: "eve"})
	require.NoError(t, err)
	assert.Equal(t, 0.5, eve.Character.Health)
	assert.Equal(t, 0.75, eve.Character.Mana)

	warden, err := w.Spawn(world.SpawnSpec{Name: "Warden", Archetype: "warden"})
	require.NoError(t, err)
	out, snap, err := w.Cast(warden.Character.ID)
	require.NoError(t, err)
	require.Equal(t, stats.CastStarted, out)
	// desperate_mend: 0.1 + (1 - 0.8) * 0.25 = 0.15
	assert.InDelta(t, 0.95, snap.Health, 1e-9)
	assert.InDelta(t, 0.2, snap.Mana, 1e-9)
}
