package board

import (
	"sync"

	"github.com/bggdog/sanctum-video-review/internal/review"
)

// Phase is where a transition is in its lifecycle.
type Phase int

const (
	PhaseIdle       Phase = iota // not yet applied
	PhaseApplied                 // local board updated, store update in flight
	PhaseConfirmed               // store accepted the change (terminal)
	PhaseRolledBack              // store rejected the change and the board was reverted (terminal)
)

func (p Phase) String() string {
	switch p {
	case PhaseApplied:
		return "applied"
	case PhaseConfirmed:
		return "confirmed"
	case PhaseRolledBack:
		return "rolled_back"
	default:
		return "idle"
	}
}

// Terminal reports whether the phase is final.
func (p Phase) Terminal() bool {
	return p == PhaseConfirmed || p == PhaseRolledBack
}

// Transition tracks one requested status change.
type Transition struct {
	VideoID string
	From    review.Status
	To      review.Status

	mu    sync.Mutex
	phase Phase
	err   error
	done  chan struct{}
}

func newTransition(id string, from, to review.Status) *Transition {
	return &Transition{VideoID: id, From: from, To: to, done: make(chan struct{})}
}

// Phase returns the current phase.
func (t *Transition) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase
}

// Err returns the store error after a rollback, nil otherwise.
func (t *Transition) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Done is closed once the transition has settled and its notification has
// been sent.
func (t *Transition) Done() <-chan struct{} {
	return t.done
}

func (t *Transition) setPhase(p Phase) {
	t.mu.Lock()
	t.phase = p
	t.mu.Unlock()
}

func (t *Transition) settle(p Phase, err error) {
	t.mu.Lock()
	t.phase = p
	t.err = err
	t.mu.Unlock()
}

func (t *Transition) finish() {
	close(t.done)
}
