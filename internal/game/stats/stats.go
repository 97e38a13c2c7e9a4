package stats

// Stats owns a character's health, mana and cast gate.
type Stats struct {
	Health Attribute
	Mana   Attribute
	Cast   CastState
}

// TickReport describes what happened during one Tick.
type TickReport struct {
	HealthRegenerated bool
	ManaRegenerated   bool
	CastFinished      bool
}

// Tick advances the simulation by dt seconds: health regeneration, then mana
// regeneration, then the cast timer.
func (s *Stats) Tick(dt float64) TickReport {
	var r TickReport
	r.HealthRegenerated = s.Health.Advance(dt)
	r.ManaRegenerated = s.Mana.Advance(dt)
	if s.Cast.advance(dt) {
		s.OnCastTimerElapsed()
		r.CastFinished = true
	}
	return r
}

// CanCast reports whether TryCast would start a cast.
func (s *Stats) CanCast() bool {
	return s.castOutcome() == CastStarted
}

func (s *Stats) castOutcome() CastOutcome {
	if s.Cast.Casting {
		return CastBusy
	}
	if s.Mana.Value+valueEpsilon < s.Cast.ManaCost {
		return CastInsufficientMana
	}
	return CastStarted
}

// TryCast attempts to cast the spell. On success it deducts ManaCost from
// mana, adds HealAmount to health (clamped), sets Casting and starts the
// duration timer. Busy and insufficient-mana attempts leave state unchanged.
//
// Postcondition: mana is never reduced below 0; mana only changes when the
// outcome is CastStarted.
func (s *Stats) TryCast() CastOutcome {
	out := s.castOutcome()
	if out != CastStarted {
		return out
	}
	s.Mana.Add(-s.Cast.ManaCost)
	if s.Mana.Value < valueEpsilon {
		s.Mana.Value = 0
	}
	s.Health.Add(s.Cast.HealAmount)
	s.Cast.Casting = true
	s.Cast.Elapsed = 0
	return CastStarted
}

// OnCastTimerElapsed ends the running cast.
func (s *Stats) OnCastTimerElapsed() {
	s.Cast.Casting = false
	s.Cast.Elapsed = 0
}

// CancelCast ends a running cast without further effects. Spent mana is not
// refunded.
//
// Postcondition: returns true iff a cast was running.
func (s *Stats) CancelCast() bool {
	if !s.Cast.Casting {
		return false
	}
	s.OnCastTimerElapsed()
	return true
}
