package world

import (
	"github.com/cory-johannsen/rpgproject/internal/game/ruleset"
	"github.com/cory-johannsen/rpgproject/internal/game/stats"
)

// Character is a live character owned by the World.
// Access is serialised by the World lock.
type Character struct {
	ID        string
	Name      string
	Archetype string
	Area      string
	Stats     stats.Stats

	spell *ruleset.Spell
}

// Health returns the current normalized health.
func (c *Character) Health() float64 { return c.Stats.Health.Value }

// SetHealth sets health, clamped to [0, 1].
func (c *Character) SetHealth(v float64) { c.Stats.Health.Set(v) }

// Snapshot is an immutable copy of a character's observable state.
type Snapshot struct {
	ID            string
	Name          string
	Archetype     string
	Area          string
	Health        float64
	Mana          float64
	Casting       bool
	CastRemaining float64 // seconds
}

func (c *Character) snapshot() Snapshot {
	return Snapshot{
		ID:            c.ID,
		Name:          c.Name,
		Archetype:     c.Archetype,
		Area:          c.Area,
		Health:        c.Stats.Health.Value,
		Mana:          c.Stats.Mana.Value,
		Casting:       c.Stats.Cast.Casting,
		CastRemaining: c.Stats.Cast.Remaining(),
	}
}
