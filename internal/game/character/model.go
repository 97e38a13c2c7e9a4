// Package character defines the persistent character record and its
// creation from an archetype.
package character

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/cory-johannsen/rpgproject/internal/game/ruleset"
)

// MaxNameLength is the longest accepted character name, in runes.
const MaxNameLength = 32

// Character is a character's persistent state.
//
// CreatedAt and UpdatedAt are set by the persistence layer; zero values
// indicate an unsaved character.
type Character struct {
	ID        string // uuid
	Name      string
	Archetype string // archetype ID
	Area      string // area the character was last in

	Health float64 // normalized [0, 1]
	Mana   float64 // normalized [0, 1]

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Build constructs a new Character from a name, archetype, and spawn area.
// Health and mana start at the archetype's starting values.
//
// Precondition: arch must be non-nil and validated.
// Postcondition: Returns a Character with a fresh ID ready for persistence,
// or a non-nil error for an invalid name or empty area.
func Build(name string, arch *ruleset.Archetype, area string) (*Character, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if area == "" {
		return nil, fmt.Errorf("character %q: area must not be empty", name)
	}
	return &Character{
		ID:        uuid.NewString(),
		Name:      name,
		Archetype: arch.ID,
		Area:      area,
		Health:    arch.Health.Start,
		Mana:      arch.Mana.Start,
	}, nil
}

// ValidateName checks that name is non-empty and at most MaxNameLength runes.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("character name must not be empty")
	}
	if n := utf8.RuneCountInString(name); n > MaxNameLength {
		return fmt.Errorf("character name must be at most %d characters, got %d", MaxNameLength, n)
	}
	return nil
}
