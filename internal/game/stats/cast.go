package stats

// CastOutcome is the result of a cast attempt. Only CastStarted changes state.
type CastOutcome int

const (
	// CastUnknown is the zero outcome, returned alongside an error when no
	// cast was attempted.
	CastUnknown CastOutcome = iota
	// CastStarted means mana was spent, the heal applied and the cast timer started.
	CastStarted
	// CastBusy means a cast is already running.
	CastBusy
	// CastInsufficientMana means mana is below the spell's cost.
	CastInsufficientMana
)

// OK reports whether the cast started.
func (o CastOutcome) OK() bool { return o == CastStarted }

// String returns the wire name of the outcome.
func (o CastOutcome) String() string {
	switch o {
	case CastStarted:
		return "started"
	case CastBusy:
		return "busy"
	case CastInsufficientMana:
		return "insufficient_mana"
	default:
		return "unknown"
	}
}

// CastState is the cast gate: a casting flag held for CastDuration seconds
// after a successful cast. The duration timer is the Elapsed deadline, owned
// here and advanced by Stats.Tick, so it cannot outlive its character.
type CastState struct {
	Casting      bool
	ManaCost     float64
	HealAmount   float64
	CastDuration float64 // seconds
	Elapsed      float64 // seconds since the cast started; meaningful only while Casting
}

// Remaining returns the seconds left on the running cast, or 0 when idle.
func (c CastState) Remaining() float64 {
	if !c.Casting {
		return 0
	}
	r := c.CastDuration - c.Elapsed
	if r < 0 {
		return 0
	}
	return r
}

// advance moves the cast timer forward while casting.
//
// Postcondition: returns true exactly once per cast, on the tick where the
// duration is reached.
func (c *CastState) advance(dt float64) bool {
	if !c.Casting {
		return false
	}
	if dt > 0 {
		c.Elapsed += dt
	}
	return c.Elapsed+timeEpsilon >= c.CastDuration
}
