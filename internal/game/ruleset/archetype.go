package ruleset

import (
	"fmt"

	"github.com/cory-johannsen/rpgproject/internal/game/stats"
)

// AttributeDef is the starting value and regeneration of one attribute.
type AttributeDef struct {
	Start         float64 `yaml:"start"`
	RegenRate     float64 `yaml:"regen_rate"`
	RegenInterval float64 `yaml:"regen_interval"` // seconds
}

// Validate checks that the values are normalized and the interval is positive.
func (d AttributeDef) Validate(name string) error {
	if !inUnit(d.Start) {
		return fmt.Errorf("%s.start must be in [0, 1], got %v", name, d.Start)
	}
	if !inUnit(d.RegenRate) {
		return fmt.Errorf("%s.regen_rate must be in [0, 1], got %v", name, d.RegenRate)
	}
	if d.RegenInterval <= 0 {
		return fmt.Errorf("%s.regen_interval must be > 0, got %v", name, d.RegenInterval)
	}
	return nil
}

// Attribute builds a stats.Attribute starting at d.Start.
func (d AttributeDef) Attribute() stats.Attribute {
	return stats.NewAttribute(d.Start, d.RegenRate, d.RegenInterval)
}

// Archetype is a playable character template.
//
// Precondition: ID, Name and Spell must be non-empty after loading.
type Archetype struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Health      AttributeDef `yaml:"health"`
	Mana        AttributeDef `yaml:"mana"`
	Spell       string       `yaml:"spell"`
}

// Validate checks the archetype's own fields. Cross references are checked
// by Registry.Validate.
func (a *Archetype) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("archetype id must not be empty")
	}
	if a.Name == "" {
		return fmt.Errorf("archetype %q: name must not be empty", a.ID)
	}
	if a.Spell == "" {
		return fmt.Errorf("archetype %q: spell must not be empty", a.ID)
	}
	if err := a.Health.Validate("health"); err != nil {
		return fmt.Errorf("archetype %q: %w", a.ID, err)
	}
	if err := a.Mana.Validate("mana"); err != nil {
		return fmt.Errorf("archetype %q: %w", a.ID, err)
	}
	return nil
}

// NewStats builds fresh stats for a character of this archetype casting spell.
//
// Precondition: spell must be non-nil.
func (a *Archetype) NewStats(spell *Spell) stats.Stats {
	return stats.Stats{
		Health: a.Health.Attribute(),
		Mana:   a.Mana.Attribute(),
		Cast:   spell.CastState(),
	}
}

// LoadArchetypes reads all .yaml files in dir and parses each as an Archetype.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed archetypes (may be empty slice) or a non-nil error.
func LoadArchetypes(dir string) ([]*Archetype, error) {
	return loadDir[Archetype](dir, "archetype")
}
