// Package world owns the live simulation: characters, their area presence,
// and the pickups lying in each area.
package world

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rpgproject/internal/game/level"
	"github.com/cory-johannsen/rpgproject/internal/game/pickup"
	"github.com/cory-johannsen/rpgproject/internal/game/ruleset"
	"github.com/cory-johannsen/rpgproject/internal/game/stats"
)

var (
	// ErrCharacterNotFound is returned when no character has the given ID.
	ErrCharacterNotFound = errors.New("character not found")
	// ErrCharacterExists is returned when spawning an ID already in the world.
	ErrCharacterExists = errors.New("character already in world")
	// ErrUnknownArchetype is returned when spawning with an unregistered archetype.
	ErrUnknownArchetype = errors.New("unknown archetype")
	// ErrUnknownArea is returned when an area ID is not part of the level.
	ErrUnknownArea = errors.New("unknown area")
	// ErrCasting is returned when a casting character tries to move.
	ErrCasting = errors.New("character is casting")
)

// HealResolver computes the heal amount of a scripted spell.
type HealResolver interface {
	ResolveHeal(hook string, health, mana, base float64) float64
}

// Vitals are persisted attribute values restored on spawn.
type Vitals struct {
	Health float64
	Mana   float64
}

// SpawnSpec describes a character entering the world.
type SpawnSpec struct {
	// ID is the character ID; empty generates a new one.
	ID        string
	Name      string
	Archetype string
	// Area is the spawn area; empty means the level's start area.
	Area string
	// Restore overrides the archetype's starting health and mana.
	Restore *Vitals
}

// PickupResult reports a pickup consumed on arrival.
type PickupResult struct {
	PickupID string
	DefID    string
	Healed   float64
	Effect   string
}

// Arrival is the result of a character entering an area.
type Arrival struct {
	Character Snapshot
	Pickups   []PickupResult
}

// PickupView is a read-only view of a pickup lying in an area.
type PickupView struct {
	ID        string
	DefID     string
	Name      string
	HealValue float64
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the world's logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(w *World) { w.logger = logger }
}

// WithEffects sets the sink receiving cosmetic effects.
func WithEffects(sink EffectSink) Option {
	return func(w *World) { w.effects = sink }
}

// WithHealResolver enables scripted spell heals.
func WithHealResolver(r HealResolver) Option {
	return func(w *World) { w.heal = r }
}

// World owns every live character and pickup.
//
// All methods are safe for concurrent use. Every mutation holds the world
// lock for its whole duration, so ticks and command events never interleave.
type World struct {
	mu         sync.Mutex
	level      *level.Level
	rules      *ruleset.Registry
	heal       HealResolver
	effects    EffectSink
	logger     *zap.Logger
	characters map[string]*Character
	presence   map[string]map[string]bool        // area → set of character IDs
	pickups    map[string][]*pickup.HealthPickup // area → pickups in overlap order
	ticks      uint64
}

// New creates an empty World for lvl using the content in rules.
//
// Precondition: lvl and rules must be non-nil and validated.
func New(lvl *level.Level, rules *ruleset.Registry, opts ...Option) *World {
	w := &World{
		level:      lvl,
		rules:      rules,
		logger:     zap.NewNop(),
		characters: make(map[string]*Character),
		presence:   make(map[string]map[string]bool),
		pickups:    make(map[string][]*pickup.HealthPickup),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.effects == nil {
		w.effects = NewLogEffectSink(w.logger)
	}
	return w
}

// PopulatePickups spawns every pickup placement declared by the level.
//
// Postcondition: returns the number of pickups spawned.
func (w *World) PopulatePickups() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, areaID := range w.level.AreaIDs() {
		area := w.level.Areas[areaID]
		for _, pl := range area.Pickups {
			def, ok := w.rules.Pickup(pl.Pickup)
			if !ok {
				w.logger.Warn("level references unknown pickup",
					zap.String("area", areaID),
					zap.String("pickup", pl.Pickup),
				)
				continue
			}
			for i := 0; i < pl.Count; i++ {
				w.pickups[areaID] = append(w.pickups[areaID], pickup.New(def, areaID, w.logger))
				n++
			}
		}
	}
	return n
}

// Spawn places a new character in the world and resolves overlaps in its
// spawn area.
//
// Postcondition: Returns the arrival, or ErrCharacterExists,
// ErrUnknownArchetype or ErrUnknownArea.
func (w *World) Spawn(spec SpawnSpec) (Arrival, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := spec.ID
	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := w.characters[id]; exists {
		return Arrival{}, fmt.Errorf("spawning %q: %w", id, ErrCharacterExists)
	}
	arch, ok := w.rules.Archetype(spec.Archetype)
	if !ok {
		return Arrival{}, fmt.Errorf("spawning %q: %w %q", id, ErrUnknownArchetype, spec.Archetype)
	}
	spell, ok := w.rules.Spell(arch.Spell)
	if !ok {
		return Arrival{}, fmt.Errorf("spawning %q: archetype %q: unknown spell %q", id, arch.ID, arch.Spell)
	}
	areaID := spec.Area
	if areaID == "" {
		areaID = w.level.StartArea
	}
	if _, ok := w.level.Area(areaID); !ok {
		return Arrival{}, fmt.Errorf("spawning %q: %w %q", id, ErrUnknownArea, areaID)
	}

	c := &Character{
		ID:        id,
		Name:      spec.Name,
		Archetype: arch.ID,
		Stats:     arch.NewStats(spell),
		spell:     spell,
	}
	if spec.Restore != nil {
		c.Stats.Health.Set(spec.Restore.Health)
		c.Stats.Mana.Set(spec.Restore.Mana)
	}
	w.characters[id] = c
	w.logger.Info("character spawned",
		zap.String("character", id),
		zap.String("name", c.Name),
		zap.String("archetype", c.Archetype),
		zap.String("area", areaID),
	)
	return w.enter(c, areaID), nil
}

// Despawn removes a character. A running cast is cancelled so nothing of the
// character survives in the simulation.
//
// Postcondition: Returns the final snapshot or ErrCharacterNotFound.
func (w *World) Despawn(id string) (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, ok := w.characters[id]
	if !ok {
		return Snapshot{}, fmt.Errorf("despawning %q: %w", id, ErrCharacterNotFound)
	}
	if c.Stats.CancelCast() {
		w.logger.Info("cast cancelled on despawn", zap.String("character", id))
	}
	w.leave(c)
	delete(w.characters, id)
	w.logger.Info("character despawned", zap.String("character", id))
	return c.snapshot(), nil
}

// Move relocates a character to areaID, overlapping every pickup there.
// Moving to the current area does not overlap again. Movement is locked
// while a cast is running.
//
// Postcondition: Returns the arrival, or ErrCharacterNotFound,
// ErrUnknownArea or ErrCasting.
func (w *World) Move(id, areaID string) (Arrival, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, ok := w.characters[id]
	if !ok {
		return Arrival{}, fmt.Errorf("moving %q: %w", id, ErrCharacterNotFound)
	}
	if _, ok := w.level.Area(areaID); !ok {
		return Arrival{}, fmt.Errorf("moving %q: %w %q", id, ErrUnknownArea, areaID)
	}
	if c.Area == areaID {
		return Arrival{Character: c.snapshot()}, nil
	}
	if c.Stats.Cast.Casting {
		return Arrival{}, fmt.Errorf("moving %q: %w", id, ErrCasting)
	}
	w.leave(c)
	return w.enter(c, areaID), nil
}

// Cast triggers the character's spell. Busy and insufficient-mana outcomes
// are returned as values, not errors.
//
// Postcondition: Returns the outcome and resulting snapshot, or ErrCharacterNotFound.
func (w *World) Cast(id string) (stats.CastOutcome, Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, ok := w.characters[id]
	if !ok {
		return stats.CastUnknown, Snapshot{}, fmt.Errorf("casting %q: %w", id, ErrCharacterNotFound)
	}
	if c.Stats.CanCast() && c.spell.Hook != "" && w.heal != nil {
		c.Stats.Cast.HealAmount = w.heal.ResolveHeal(
			c.spell.Hook, c.Stats.Health.Value, c.Stats.Mana.Value, c.spell.HealAmount,
		)
	}
	out := c.Stats.TryCast()
	w.logger.Debug("cast attempted",
		zap.String("character", id),
		zap.String("spell", c.spell.ID),
		zap.Stringer("outcome", out),
	)
	if out.OK() && c.spell.Effect != "" {
		w.effects.Play(Effect{
			Name:        c.spell.Effect,
			CharacterID: c.ID,
			Area:        c.Area,
			Source:      c.spell.ID,
		})
	}
	return out, c.snapshot(), nil
}

// Tick advances every character by dt seconds.
func (w *World) Tick(dt float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ticks++
	for id, c := range w.characters {
		r := c.Stats.Tick(dt)
		if r.CastFinished {
			w.logger.Debug("cast finished",
				zap.String("character", id),
				zap.String("spell", c.spell.ID),
			)
		}
	}
}

// StartArea returns the level's default spawn area.
func (w *World) StartArea() string { return w.level.StartArea }

// Ticks returns the number of ticks processed.
func (w *World) Ticks() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ticks
}

// SetHealth sets a character's health, clamped to [0, 1].
//
// Postcondition: Returns the resulting snapshot or ErrCharacterNotFound.
func (w *World) SetHealth(id string, v float64) (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.characters[id]
	if !ok {
		return Snapshot{}, fmt.Errorf("setting health of %q: %w", id, ErrCharacterNotFound)
	}
	c.SetHealth(v)
	return c.snapshot(), nil
}

// Character returns a snapshot of the character with the given ID.
func (w *World) Character(id string) (Snapshot, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.characters[id]
	if !ok {
		return Snapshot{}, false
	}
	return c.snapshot(), true
}

// Snapshots returns snapshots of all characters sorted by ID.
func (w *World) Snapshots() []Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Snapshot, 0, len(w.characters))
	for _, c := range w.characters {
		out = append(out, c.snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CharactersIn returns the IDs of characters in areaID, sorted.
func (w *World) CharactersIn(areaID string) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	ids := make([]string, 0, len(w.presence[areaID]))
	for id := range w.presence[areaID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// PickupsIn returns the pickups lying in areaID in overlap order.
func (w *World) PickupsIn(areaID string) []PickupView {
	w.mu.Lock()
	defer w.mu.Unlock()
	ps := w.pickups[areaID]
	out := make([]PickupView, 0, len(ps))
	for _, p := range ps {
		out = append(out, PickupView{ID: p.ID, DefID: p.DefID, Name: p.Name, HealValue: p.HealValue})
	}
	return out
}

// enter places c in areaID and overlaps the pickups there.
// Caller must hold w.mu.
func (w *World) enter(c *Character, areaID string) Arrival {
	c.Area = areaID
	if w.presence[areaID] == nil {
		w.presence[areaID] = make(map[string]bool)
	}
	w.presence[areaID][c.ID] = true

	var results []PickupResult
	remaining := w.pickups[areaID][:0]
	for _, p := range w.pickups[areaID] {
		out := p.OnOverlap(c)
		if !out.Consumed {
			remaining = append(remaining, p)
			continue
		}
		results = append(results, PickupResult{
			PickupID: p.ID,
			DefID:    p.DefID,
			Healed:   out.Healed,
			Effect:   out.Effect,
		})
		if out.Effect != "" {
			w.effects.Play(Effect{Name: out.Effect, CharacterID: c.ID, Area: areaID, Source: p.DefID})
		}
		w.logger.Info("pickup consumed",
			zap.String("character", c.ID),
			zap.String("pickup", p.DefID),
			zap.String("area", areaID),
			zap.Float64("healed", out.Healed),
		)
	}
	if len(remaining) == 0 {
		delete(w.pickups, areaID)
	} else {
		w.pickups[areaID] = remaining
	}
	return Arrival{Character: c.snapshot(), Pickups: results}
}

// leave removes c from its current area. Caller must hold w.mu.
func (w *World) leave(c *Character) {
	if rs, ok := w.presence[c.Area]; ok {
		delete(rs, c.ID)
		if len(rs) == 0 {
			delete(w.presence, c.Area)
		}
	}
}
