package countdown

// Unset is the previous value of a position that has never been painted.
const Unset byte = 0

// DecisionKind says whether a position must visibly change.
type DecisionKind int

const (
	Noop DecisionKind = iota
	Transition
)

func (k DecisionKind) String() string {
	if k == Transition {
		return "transition"
	}
	return "noop"
}

// Decision is the outcome of offering a digit to a Position.
// From and To are only meaningful for Transition; From is Unset on first paint.
type Decision struct {
	Kind DecisionKind
	From byte
	To   byte
}

// Position is the state of one digit slot: the digit it last committed to and
// whether a transition is still on screen.
//
// The zero value is an idle, never painted position.
type Position struct {
	previous byte
	busy     bool
}

// Update offers digit d to the position.
//
// A busy position drops d without recording it; the slot catches up on a later
// update once it is idle. An idle position showing d is a Noop. Anything else
// commits d, marks the position busy and asks for a transition.
func (p *Position) Update(d byte) Decision {
	if p.busy {
		return Decision{Kind: Noop}
	}
	if d == p.previous {
		return Decision{Kind: Noop}
	}
	old := p.previous
	p.previous = d
	p.busy = true
	return Decision{Kind: Transition, From: old, To: d}
}

// TransitionComplete marks the in-flight transition as finished.
func (p *Position) TransitionComplete() {
	p.busy = false
}

// Previous returns the last committed digit, or Unset.
func (p *Position) Previous() byte { return p.previous }

// Busy reports whether a transition is in flight.
func (p *Position) Busy() bool { return p.busy }
