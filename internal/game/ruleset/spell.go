package ruleset

import (
	"fmt"

	"github.com/cory-johannsen/rpgproject/internal/game/stats"
)

// Spell defines a castable self-heal.
type Spell struct {
	ID           string  `yaml:"id"`
	Name         string  `yaml:"name"`
	ManaCost     float64 `yaml:"mana_cost"`
	HealAmount   float64 `yaml:"heal_amount"`
	CastDuration float64 `yaml:"cast_duration"` // seconds the caster is locked in the cast
	// Effect is the cosmetic effect played on the caster when the cast starts.
	Effect string `yaml:"effect"`
	// Hook names a Lua function that resolves the heal amount. Empty = HealAmount.
	Hook string `yaml:"hook"`
}

// Validate checks the spell's fields.
func (s *Spell) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("spell id must not be empty")
	}
	if s.Name == "" {
		return fmt.Errorf("spell %q: name must not be empty", s.ID)
	}
	if !inUnit(s.ManaCost) {
		return fmt.Errorf("spell %q: mana_cost must be in [0, 1], got %v", s.ID, s.ManaCost)
	}
	if !inUnit(s.HealAmount) {
		return fmt.Errorf("spell %q: heal_amount must be in [0, 1], got %v", s.ID, s.HealAmount)
	}
	if s.CastDuration <= 0 {
		return fmt.Errorf("spell %q: cast_duration must be > 0, got %v", s.ID, s.CastDuration)
	}
	return nil
}

// CastState returns an idle cast gate for this spell.
func (s *Spell) CastState() stats.CastState {
	return stats.CastState{
		ManaCost:     s.ManaCost,
		HealAmount:   s.HealAmount,
		CastDuration: s.CastDuration,
	}
}

// LoadSpells reads all .yaml files in dir and parses each as a Spell.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed spells (may be empty slice) or a non-nil error.
func LoadSpells(dir string) ([]*Spell, error) {
	return loadDir[Spell](dir, "spell")
}
