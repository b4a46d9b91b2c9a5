package confirm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestMachine(start time.Time) (*Machine, *time.Time) {
	now := start
	m := NewMachine()
	m.now = func() time.Time { return now }
	return m, &now
}

func TestKindDurations(t *testing.T) {
	assert.Equal(t, 5*time.Second, KindSuccess.Duration())
	assert.Equal(t, 4*time.Second, KindError.Duration())
	assert.Equal(t, 5*time.Second, KindPending.Duration())
	assert.Equal(t, 3*time.Second, KindAlreadyScanned.Duration())
}

func TestShow_DisplaysUntilExpiry(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	m, now := newTestMachine(start)
	defer m.Stop()

	m.Show(KindSuccess, "Bonjour Marie, arrivee enregistree")

	state := m.State()
	assert.True(t, state.Displaying)
	assert.Equal(t, KindSuccess, state.Kind)
	assert.Equal(t, "Bonjour Marie, arrivee enregistree", state.Message)
	assert.Equal(t, start.Add(5*time.Second), state.ExpiresAt)
	assert.True(t, m.Busy())

	*now = start.Add(4 * time.Second)
	assert.True(t, m.Busy())

	*now = start.Add(5 * time.Second)
	assert.False(t, m.Busy())
	assert.Equal(t, State{}, m.State())
}

func TestShow_ReplacesCurrentDisplay(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	m, now := newTestMachine(start)
	defer m.Stop()

	m.Show(KindSuccess, "Bonjour")
	*now = start.Add(time.Second)
	m.Show(KindAlreadyScanned, "Badge deja scanne")

	state := m.State()
	assert.Equal(t, KindAlreadyScanned, state.Kind)
	// The replacement runs on its own clock, not the remainder of the
	// display it cancelled.
	assert.Equal(t, start.Add(1*time.Second).Add(3*time.Second), state.ExpiresAt)

	*now = start.Add(4 * time.Second)
	assert.Equal(t, State{}, m.State())
}

func TestStop_ClearsDisplay(t *testing.T) {
	m, _ := newTestMachine(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	m.Show(KindError, "Pointage refuse")
	m.Stop()

	assert.Equal(t, State{}, m.State())
	assert.False(t, m.Busy())
}
