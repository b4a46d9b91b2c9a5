package confirm

import (
	"sync"
	"time"
)

// Kind is what the kiosk screen is showing.
type Kind string

const (
	KindSuccess        Kind = "success"
	KindError          Kind = "error"
	KindPending        Kind = "pending"
	KindAlreadyScanned Kind = "already_scanned"
)

// Duration is how long each confirmation stays on screen.
func (k Kind) Duration() time.Duration {
	switch k {
	case KindSuccess:
		return 5 * time.Second
	case KindError:
		return 4 * time.Second
	case KindPending:
		return 5 * time.Second
	case KindAlreadyScanned:
		return 3 * time.Second
	default:
		return 4 * time.Second
	}
}

// State is the machine's externally visible snapshot. Idle is the
// zero value with Displaying false.
type State struct {
	Displaying bool      `json:"displaying"`
	Kind       Kind      `json:"kind,omitempty"`
	Message    string    `json:"message,omitempty"`
	ExpiresAt  time.Time `json:"expires_at,omitempty"`
}

// Machine drives the kiosk's transient confirmation overlay:
// Idle -> Displaying(kind) -> Idle, with one owned timer that is
// always cancelled before a new one is armed, so two displays can
// never race to reset the state.
type Machine struct {
	mu    sync.Mutex
	state State
	timer *time.Timer
	gen   uint64
	now   func() time.Time
}

func NewMachine() *Machine {
	return &Machine{now: time.Now}
}

// Show replaces whatever is on screen with the given confirmation and
// re-arms the reset timer.
func (m *Machine) Show(kind Kind, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timer != nil {
		m.timer.Stop()
	}

	m.gen++
	gen := m.gen
	duration := kind.Duration()

	m.state = State{
		Displaying: true,
		Kind:       kind,
		Message:    message,
		ExpiresAt:  m.now().Add(duration),
	}

	m.timer = time.AfterFunc(duration, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		// A newer Show re-armed the timer; this firing is stale.
		if m.gen != gen {
			return
		}
		m.state = State{}
		m.timer = nil
	})
}

// State returns the current snapshot.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	// The timer may not have fired yet on a loaded scheduler; report
	// idle as soon as the display expired.
	if m.state.Displaying && !m.now().Before(m.state.ExpiresAt) {
		return State{}
	}
	return m.state
}

// Busy reports whether a confirmation is currently displaying. While
// busy, new scans are swallowed at the point of input, except the
// already-scanned answer.
func (m *Machine) Busy() bool {
	return m.State().Displaying
}

// Stop cancels the owned timer. Used on shutdown.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.gen++
	m.state = State{}
}
