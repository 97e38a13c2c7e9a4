package gameserver

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/rpgproject/internal/game/world"
)

// VitalsSaver persists a character's area and vitals.
type VitalsSaver interface {
	SaveVitals(ctx context.Context, id, area string, health, mana float64) error
}

// Autosaver periodically persists every online character.
type Autosaver struct {
	world       *world.World
	store       VitalsSaver
	concurrency int
	logger      *zap.Logger
}

// NewAutosaver creates an Autosaver saving at most concurrency characters
// at a time.
//
// Precondition: concurrency must be >= 1.
func NewAutosaver(w *world.World, store VitalsSaver, concurrency int, logger *zap.Logger) *Autosaver {
	return &Autosaver{world: w, store: store, concurrency: concurrency, logger: logger}
}

// SaveAll persists every character in the world. Each character is read
// again just before its write, so characters that left since the sweep
// started are skipped rather than overwritten with stale vitals. Every
// character is attempted even when some saves fail.
//
// Postcondition: Returns the number of characters saved, and a non-nil
// error naming the failure count when any save failed.
func (a *Autosaver) SaveAll(ctx context.Context) (int, error) {
	snaps := a.world.Snapshots()
	var g errgroup.Group
	g.SetLimit(a.concurrency)
	var saved, skipped, failed atomic.Int64
	for _, snap := range snaps {
		id := snap.ID
		g.Go(func() error {
			cur, ok := a.world.Character(id)
			if !ok {
				skipped.Add(1)
				return nil
			}
			if err := a.store.SaveVitals(ctx, cur.ID, cur.Area, cur.Health, cur.Mana); err != nil {
				failed.Add(1)
				a.logger.Error("autosave failed",
					zap.String("character", cur.ID),
					zap.Error(err),
				)
				return nil
			}
			saved.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	a.logger.Debug("autosave complete",
		zap.Int("characters", len(snaps)),
		zap.Int64("saved", saved.Load()),
		zap.Int64("skipped", skipped.Load()),
		zap.Int64("failed", failed.Load()),
	)
	if n := failed.Load(); n > 0 {
		return int(saved.Load()), fmt.Errorf("autosave: %d of %d saves failed", n, len(snaps))
	}
	return int(saved.Load()), nil
}
