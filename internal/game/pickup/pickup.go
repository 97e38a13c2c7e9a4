// Package pickup implements health pickups that heal a character on overlap
// and then remove themselves from the level.
package pickup

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rpgproject/internal/game/ruleset"
	"github.com/cory-johannsen/rpgproject/internal/game/stats"
)

// Healable is anything with a normalized health and a public setter.
type Healable interface {
	Health() float64
	SetHealth(v float64)
}

// Outcome describes the effect of one overlap.
type Outcome struct {
	// Consumed is true when the pickup healed the target and must be removed.
	Consumed bool
	// Healed is the health actually added.
	Healed float64
	// Effect is the cosmetic effect to play on the target; empty when the
	// pickup has none configured.
	Effect string
}

// HealthPickup is one placed instance of a pickup definition.
//
// Invariant: a consumed pickup never heals again.
type HealthPickup struct {
	ID        string
	DefID     string
	Name      string
	Area      string
	HealValue float64
	Effect    string

	consumed bool
	logger   *zap.Logger
}

// New creates a pickup instance of def placed in area.
//
// Precondition: def and logger must be non-nil.
func New(def *ruleset.PickupDef, area string, logger *zap.Logger) *HealthPickup {
	return &HealthPickup{
		ID:        uuid.NewString(),
		DefID:     def.ID,
		Name:      def.Name,
		Area:      area,
		HealValue: def.HealValue,
		Effect:    def.Effect,
		logger:    logger,
	}
}

// Consumed reports whether the pickup has already been used.
func (p *HealthPickup) Consumed() bool {
	return p.consumed
}

// OnOverlap heals target by HealValue, clamped to 1.0, if target is not at
// full health, and marks the pickup consumed. A full-health target leaves
// the pickup in place. A pickup without an effect logs a warning and is
// still consumed.
//
// Precondition: target must be non-nil.
func (p *HealthPickup) OnOverlap(target Healable) Outcome {
	if p.consumed {
		return Outcome{}
	}
	health := target.Health()
	if health >= stats.MaxValue {
		return Outcome{}
	}
	healed := stats.Clamp(health+p.HealValue) - health
	target.SetHealth(health + healed)
	p.consumed = true

	if p.Effect == "" {
		p.logger.Warn("pickup effect not configured",
			zap.String("pickup", p.DefID),
			zap.String("instance", p.ID),
			zap.String("area", p.Area),
		)
	}
	return Outcome{Consumed: true, Healed: healed, Effect: p.Effect}
}
