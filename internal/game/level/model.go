// Package level provides the playable map: areas and the pickups placed in them.
package level

import "fmt"

// Placement puts Count instances of a pickup definition into an area.
type Placement struct {
	// Pickup is the pickup definition ID.
	Pickup string
	// Count is the number of instances spawned by World.PopulatePickups.
	Count int
}

// Area is a region of the level. A character entering an area overlaps every
// pickup lying in it.
type Area struct {
	// ID uniquely identifies this area within the level.
	ID string
	// Title is the display name.
	Title string
	// Pickups lists the pickups placed here at level start, in overlap order.
	Pickups []Placement
}

// Level groups the areas a character can move between.
type Level struct {
	ID        string
	Name      string
	StartArea string
	Areas     map[string]*Area
	// order preserves the file order of areas for deterministic iteration.
	order []string
}

// Area returns the area with the given ID.
func (l *Level) Area(id string) (*Area, bool) {
	a, ok := l.Areas[id]
	return a, ok
}

// AreaIDs returns area IDs in the order they were declared.
func (l *Level) AreaIDs() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Validate checks level invariants. knownPickup, when non-nil, reports
// whether a pickup definition exists.
//
// Postcondition: Returns nil if valid, or an error describing the first violation.
func (l *Level) Validate(knownPickup func(id string) bool) error {
	if l.ID == "" {
		return fmt.Errorf("level ID must not be empty")
	}
	if l.Name == "" {
		return fmt.Errorf("level %q: name must not be empty", l.ID)
	}
	if len(l.Areas) == 0 {
		return fmt.Errorf("level %q: must contain at least one area", l.ID)
	}
	if _, ok := l.Areas[l.StartArea]; !ok {
		return fmt.Errorf("level %q: start_area %q not found in areas", l.ID, l.StartArea)
	}
	for _, id := range l.order {
		area := l.Areas[id]
		if area.Title == "" {
			return fmt.Errorf("level %q: area %q: title must not be empty", l.ID, id)
		}
		for _, p := range area.Pickups {
			if p.Count < 1 {
				return fmt.Errorf("level %q: area %q: pickup %q count must be >= 1, got %d", l.ID, id, p.Pickup, p.Count)
			}
			if knownPickup != nil && !knownPickup(p.Pickup) {
				return fmt.Errorf("level %q: area %q: unknown pickup %q", l.ID, id, p.Pickup)
			}
		}
	}
	return nil
}
