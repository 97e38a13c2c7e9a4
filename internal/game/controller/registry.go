package controller

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrPlayerConnected is returned when a UID already has a controller.
	ErrPlayerConnected = errors.New("player already connected")
	// ErrPlayerNotFound is returned when a UID has no controller.
	ErrPlayerNotFound = errors.New("player not found")
)

// Registry tracks the controllers of all connected players.
// All methods are safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	pawns       Pawns
	controllers map[string]*PlayerController // uid → controller
}

// NewRegistry creates an empty Registry whose controllers drive pawns.
func NewRegistry(pawns Pawns) *Registry {
	return &Registry{
		pawns:       pawns,
		controllers: make(map[string]*PlayerController),
	}
}

// Add creates a controller for uid possessing characterID.
//
// Precondition: uid must be non-empty.
// Postcondition: Returns the new controller, or ErrPlayerConnected.
func (r *Registry) Add(uid, characterID string) (*PlayerController, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.controllers[uid]; exists {
		return nil, fmt.Errorf("adding %q: %w", uid, ErrPlayerConnected)
	}
	pc := New(uid, r.pawns)
	pc.Possess(characterID)
	r.controllers[uid] = pc
	return pc, nil
}

// Remove unpossesses and drops the controller for uid, returning the ID of
// the character it held.
//
// Postcondition: Returns ErrPlayerNotFound when uid has no controller.
func (r *Registry) Remove(uid string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pc, ok := r.controllers[uid]
	if !ok {
		return "", fmt.Errorf("removing %q: %w", uid, ErrPlayerNotFound)
	}
	delete(r.controllers, uid)
	return pc.Unpossess(), nil
}

// Get returns the controller for uid.
func (r *Registry) Get(uid string) (*PlayerController, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pc, ok := r.controllers[uid]
	if !ok {
		return nil, fmt.Errorf("player %q: %w", uid, ErrPlayerNotFound)
	}
	return pc, nil
}

// UIDs returns the UIDs of all connected players, sorted.
func (r *Registry) UIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.controllers))
	for uid := range r.controllers {
		out = append(out, uid)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of connected players.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.controllers)
}
