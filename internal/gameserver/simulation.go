package gameserver

import (
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rpgproject/internal/game/world"
)

// Simulation advances the world by measured wall-clock deltas.
type Simulation struct {
	world   *world.World
	maxStep time.Duration
	logger  *zap.Logger
}

// NewSimulation returns a Simulation stepping w. Deltas longer than maxStep
// are clamped so a stalled process does not apply one huge tick.
//
// Precondition: maxStep must be > 0.
func NewSimulation(w *world.World, maxStep time.Duration, logger *zap.Logger) *Simulation {
	return &Simulation{world: w, maxStep: maxStep, logger: logger}
}

// Step advances the world by elapsed.
//
// Postcondition: World.Tick is called exactly once with a delta in
// [0, maxStep] seconds.
func (s *Simulation) Step(elapsed time.Duration) {
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > s.maxStep {
		s.logger.Warn("simulation step clamped",
			zap.Duration("elapsed", elapsed),
			zap.Duration("max_step", s.maxStep),
		)
		elapsed = s.maxStep
	}
	s.world.Tick(elapsed.Seconds())
}
