// Package stats holds the per-character simulation state: normalized
// attributes with passive regeneration and the cast gate.
//
// Nothing in this package is safe for concurrent use; the owner serialises
// access (see world.World).
package stats

import "math"

// MaxValue is the upper bound of every attribute; 1.0 is 100%.
const MaxValue = 1.0

// timeEpsilon absorbs float drift when frame deltas are summed against an
// interval (ten 0.1s frames must reach a 1.0s interval).
const timeEpsilon = 1e-9

// valueEpsilon absorbs float drift when costs are repeatedly subtracted from
// an attribute (five 0.15 casts must fit in 0.75 mana).
const valueEpsilon = 1e-9

// Attribute is a normalized character statistic that regenerates by a fixed
// amount every RegenInterval seconds of accumulated time.
//
// Invariant: 0 <= Value <= MaxValue.
type Attribute struct {
	Value         float64
	RegenRate     float64 // amount added per elapsed interval
	RegenInterval float64 // seconds
	Accumulated   float64 // seconds since the last interval elapsed
}

// NewAttribute returns an Attribute with value clamped to [0, MaxValue].
func NewAttribute(value, regenRate, regenInterval float64) Attribute {
	a := Attribute{RegenRate: regenRate, RegenInterval: regenInterval}
	a.Set(value)
	return a
}

// Advance accumulates dt seconds. When the accumulated time reaches
// RegenInterval the accumulator resets to zero and RegenRate is added to
// Value, clamped to MaxValue. A full attribute is left unchanged but its
// accumulator still resets.
//
// Negative or NaN dt counts as zero.
//
// Postcondition: returns true iff the regeneration interval elapsed.
func (a *Attribute) Advance(dt float64) bool {
	if !(dt > 0) {
		dt = 0
	}
	a.Accumulated += dt
	if a.Accumulated+timeEpsilon < a.RegenInterval {
		return false
	}
	a.Accumulated = 0
	if a.Value < MaxValue {
		a.Add(a.RegenRate)
	}
	return true
}

// Add changes Value by delta, clamped to [0, MaxValue].
//
// Postcondition: returns the change actually applied.
func (a *Attribute) Add(delta float64) float64 {
	before := a.Value
	a.Set(a.Value + delta)
	return a.Value - before
}

// Set replaces Value, clamped to [0, MaxValue]. NaN and infinite values are
// ignored.
func (a *Attribute) Set(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	a.Value = Clamp(v)
}

// Full reports whether the attribute is at MaxValue.
func (a Attribute) Full() bool {
	return a.Value >= MaxValue
}

// Clamp bounds v to [0, MaxValue].
func Clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > MaxValue:
		return MaxValue
	default:
		return v
	}
}
