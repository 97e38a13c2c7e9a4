// Package controller binds players to the characters they control.
package controller

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cory-johannsen/rpgproject/internal/game/stats"
	"github.com/cory-johannsen/rpgproject/internal/game/world"
)

// ErrNotPossessing is returned when a controller has no live character.
var ErrNotPossessing = errors.New("controller possesses no character")

// Pawns is the part of the World a controller drives.
type Pawns interface {
	Character(id string) (world.Snapshot, bool)
	Cast(id string) (stats.CastOutcome, world.Snapshot, error)
	Move(id, areaID string) (world.Arrival, error)
}

// PlayerController possesses at most one character at a time.
// All methods are safe for concurrent use.
type PlayerController struct {
	mu        sync.RWMutex
	uid       string
	pawns     Pawns
	possessed string
}

// New creates a controller for player uid that possesses nothing.
//
// Precondition: pawns must be non-nil.
func New(uid string, pawns Pawns) *PlayerController {
	return &PlayerController{uid: uid, pawns: pawns}
}

// UID returns the owning player's UID.
func (pc *PlayerController) UID() string { return pc.uid }

// Possess takes control of the character with the given ID, releasing any
// previously possessed character.
func (pc *PlayerController) Possess(characterID string) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.possessed = characterID
}

// Unpossess releases the possessed character and returns its ID, or "" if
// nothing was possessed.
func (pc *PlayerController) Unpossess() string {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	id := pc.possessed
	pc.possessed = ""
	return id
}

// PossessedID returns the ID of the possessed character, or "".
func (pc *PlayerController) PossessedID() string {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.possessed
}

// PossessedCharacter returns the possessed character.
//
// Postcondition: ok is false when nothing is possessed or the possessed
// character is no longer in the world.
func (pc *PlayerController) PossessedCharacter() (world.Snapshot, bool) {
	id := pc.PossessedID()
	if id == "" {
		return world.Snapshot{}, false
	}
	return pc.pawns.Character(id)
}

// CastSpell forwards the cast input to the possessed character.
//
// Postcondition: returns ErrNotPossessing when nothing is possessed.
func (pc *PlayerController) CastSpell() (stats.CastOutcome, world.Snapshot, error) {
	id := pc.PossessedID()
	if id == "" {
		return stats.CastUnknown, world.Snapshot{}, fmt.Errorf("player %q: %w", pc.uid, ErrNotPossessing)
	}
	return pc.pawns.Cast(id)
}

// MoveTo forwards movement of the possessed character to areaID.
//
// Postcondition: returns ErrNotPossessing when nothing is possessed.
func (pc *PlayerController) MoveTo(areaID string) (world.Arrival, error) {
	id := pc.PossessedID()
	if id == "" {
		return world.Arrival{}, fmt.Errorf("player %q: %w", pc.uid, ErrNotPossessing)
	}
	return pc.pawns.Move(id, areaID)
}
