package ruleset

import (
	"fmt"
	"sort"
	"strings"
)

// Registry indexes the loaded content by ID.
// It is read-only after Validate and safe for concurrent reads.
type Registry struct {
	archetypes map[string]*Archetype
	spells     map[string]*Spell
	pickups    map[string]*PickupDef
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		archetypes: make(map[string]*Archetype),
		spells:     make(map[string]*Spell),
		pickups:    make(map[string]*PickupDef),
	}
}

// RegisterArchetype adds a validated archetype.
//
// Postcondition: Returns an error on invalid fields or a duplicate ID.
func (r *Registry) RegisterArchetype(a *Archetype) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if _, ok := r.archetypes[a.ID]; ok {
		return fmt.Errorf("duplicate archetype id %q", a.ID)
	}
	r.archetypes[a.ID] = a
	return nil
}

// RegisterSpell adds a validated spell.
func (r *Registry) RegisterSpell(s *Spell) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if _, ok := r.spells[s.ID]; ok {
		return fmt.Errorf("duplicate spell id %q", s.ID)
	}
	r.spells[s.ID] = s
	return nil
}

// RegisterPickup adds a validated pickup definition.
func (r *Registry) RegisterPickup(p *PickupDef) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if _, ok := r.pickups[p.ID]; ok {
		return fmt.Errorf("duplicate pickup id %q", p.ID)
	}
	r.pickups[p.ID] = p
	return nil
}

// Archetype returns the archetype with the given ID.
func (r *Registry) Archetype(id string) (*Archetype, bool) {
	a, ok := r.archetypes[id]
	return a, ok
}

// Spell returns the spell with the given ID.
func (r *Registry) Spell(id string) (*Spell, bool) {
	s, ok := r.spells[id]
	return s, ok
}

// Pickup returns the pickup definition with the given ID.
func (r *Registry) Pickup(id string) (*PickupDef, bool) {
	p, ok := r.pickups[id]
	return p, ok
}

// ArchetypeIDs returns the registered archetype IDs in sorted order.
func (r *Registry) ArchetypeIDs() []string {
	ids := make([]string, 0, len(r.archetypes))
	for id := range r.archetypes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Counts returns the number of archetypes, spells and pickups.
func (r *Registry) Counts() (archetypes, spells, pickups int) {
	return len(r.archetypes), len(r.spells), len(r.pickups)
}

// Validate checks cross references between definitions.
//
// Postcondition: Returns nil if every archetype's spell is registered, or an
// error describing all violations.
func (r *Registry) Validate() error {
	var errs []string
	for _, id := range r.ArchetypeIDs() {
		a := r.archetypes[id]
		if _, ok := r.spells[a.Spell]; !ok {
			errs = append(errs, fmt.Sprintf("archetype %q references unknown spell %q", a.ID, a.Spell))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("ruleset validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// LoadRegistry loads archetypes, spells and pickups from their directories
// and validates the result.
//
// Precondition: all three directories must be readable.
// Postcondition: Returns a validated Registry or a non-nil error.
func LoadRegistry(archetypesDir, spellsDir, pickupsDir string) (*Registry, error) {
	reg := NewRegistry()

	spells, err := LoadSpells(spellsDir)
	if err != nil {
		return nil, err
	}
	for _, s := range spells {
		if err := reg.RegisterSpell(s); err != nil {
			return nil, err
		}
	}

	archetypes, err := LoadArchetypes(archetypesDir)
	if err != nil {
		return nil, err
	}
	for _, a := range archetypes {
		if err := reg.RegisterArchetype(a); err != nil {
			return nil, err
		}
	}

	pickups, err := LoadPickups(pickupsDir)
	if err != nil {
		return nil, err
	}
	for _, p := range pickups {
		if err := reg.RegisterPickup(p); err != nil {
			return nil, err
		}
	}

	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}
