package gameserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rpgproject/internal/game/world"
)

func TestSimulation_StepRegenerates(t *testing.T) {
	w := testWorld(t)
	arr, err := w.Spawn(world.SpawnSpec{Archetype: "eve"})
	require.NoError(t, err)
	sim := NewSimulation(w, time.Second, zap.NewNop())

	for i := 0; i < 10; i++ {
		sim.Step(100 * time.Millisecond)
	}
	snap, _ := w.Character(arr.Character.ID)
	assert.InDelta(t, 0.51, snap.Health, 1e-9)
	assert.InDelta(t, 0.76, snap.Mana, 1e-9)
	assert.Equal(t, uint64(10), w.Ticks())
}

func TestSimulation_StepClampsLongStall(t *testing.T) {
	w := testWorld(t)
	arr, err := w.Spawn(world.SpawnSpec{Archetype: "eve"})
	require.NoError(t, err)
	_, _, err = w.Cast(arr.Character.ID)
	require.NoError(t, err)

	core, logs := observer.New(zap.WarnLevel)
	sim := NewSimulation(w, 500*time.Millisecond, zap.New(core))
	sim.Step(time.Hour)

	snap, _ := w.Character(arr.Character.ID)
	assert.True(t, snap.Casting)
	assert.InDelta(t, 1.7, snap.CastRemaining, 1e-9)
	assert.Equal(t, 1, logs.FilterMessage("simulation step clamped").Len())
}

func TestPropertySimulation_CastEndsAfterDuration(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		w := testWorld(t)
		arr, err := w.Spawn(world.SpawnSpec{Archetype: "eve"})
		require.NoError(rt, err)
		_, _, err = w.Cast(arr.Character.ID)
		require.NoError(rt, err)

		sim := NewSimulation(w, time.Second, zap.NewNop())
		elapsed := time.Duration(0)
		for elapsed < 2200*time.Millisecond {
			step := time.Duration(rapid.IntRange(1, 1000).Draw(rt, "step_ms")) * time.Millisecond
			snap, _ := w.Character(arr.Character.ID)
			if !snap.Casting {
				rt.Fatalf("cast ended early after %v", elapsed)
			}
			sim.Step(step)
			elapsed += step
		}
		snap, _ := w.Character(arr.Character.ID)
		assert.False(rt, snap.Casting)
	})
}
