package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chronopointe/pointage-go/internal/pkg/validator"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// BlockDuration is the anti-replay window: a badge accepted once is
// blocked for this long regardless of how the submission goes.
const BlockDuration = 30 * time.Second

// SweepInterval is how often expired blocks are cleaned up. The sweep
// is memory hygiene only; correctness comes from the expiry check at
// scan time.
const SweepInterval = 1 * time.Minute

var ErrInvalidToken = errors.New("scanned payload is not a badge token")

// AlreadyScannedError is informational: the badge was accepted moments
// ago and the employee just needs to wait out the block.
type AlreadyScannedError struct {
	BlockedUntil time.Time
}

func (e *AlreadyScannedError) Error() string {
	return fmt.Sprintf("badge already scanned, blocked until %s", e.BlockedUntil.Format(time.RFC3339))
}

// Event is a raw badge read, immutable once created.
type Event struct {
	BadgeToken string
	CapturedAt time.Time
}

// EmployeeHint is the display identity pulled out of the token without
// verifying it; the server remains the authority.
type EmployeeHint struct {
	FirstName string
	LastName  string
}

// BlockList tracks per-token blocked-until instants. It is an injected
// dependency of the validator so tests can reset it.
type BlockList struct {
	mu      sync.Mutex
	blocked map[string]time.Time
	now     func() time.Time
}

func NewBlockList() *BlockList {
	return &BlockList{
		blocked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Check returns the blocked-until instant if the token is still inside
// its block window.
func (b *BlockList) Check(token string) (time.Time, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	until, ok := b.blocked[token]
	if !ok || !b.now().Before(until) {
		return time.Time{}, false
	}
	return until, true
}

// Block marks the token as accepted. Called before any network
// submission so a slow round-trip cannot be double-tapped through.
func (b *BlockList) Block(token string) time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()

	until := b.now().Add(BlockDuration)
	b.blocked[token] = until
	return until
}

// Sweep drops expired entries.
func (b *BlockList) Sweep() {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	for token, until := range b.blocked {
		if !now.Before(until) {
			delete(b.blocked, token)
		}
	}
}

// Run sweeps on a coarse interval until the context is cancelled.
func (b *BlockList) Run(ctx context.Context) {
	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.Sweep()
		}
	}
}

// Validator checks scanned payloads structurally and enforces the
// anti-replay block.
type Validator struct {
	blocks *BlockList
}

func NewValidator(blocks *BlockList) *Validator {
	return &Validator{blocks: blocks}
}

// Accept validates the raw payload and, on success, sets the block and
// returns the scan event. The block is set here, before the caller
// gets a chance to submit anything.
func (v *Validator) Accept(raw string, capturedAt time.Time) (Event, error) {
	token := strings.TrimSpace(raw)
	if !validator.IsTokenShaped(token) {
		return Event{}, ErrInvalidToken
	}

	if until, blocked := v.blocks.Check(token); blocked {
		return Event{}, &AlreadyScannedError{BlockedUntil: until}
	}

	v.blocks.Block(token)
	return Event{BadgeToken: token, CapturedAt: capturedAt}, nil
}

// Blocked reports whether the token is currently inside its block
// window, without recording anything. Used by the confirmation guard
// to answer repeated taps while a display cycle runs.
func (v *Validator) Blocked(raw string) (time.Time, bool) {
	token := strings.TrimSpace(raw)
	if !validator.IsTokenShaped(token) {
		return time.Time{}, false
	}
	return v.blocks.Check(token)
}

// Hint extracts the employee display name from the token payload
// without verifying the signature. A token that passed the structural
// check but carries an unreadable payload degrades to a placeholder
// name; the queueing decision is unaffected.
func Hint(token string) EmployeeHint {
	fallback := EmployeeHint{FirstName: "Employe", LastName: "inconnu"}

	parsed, err := jwt.ParseString(token, jwt.WithVerify(false), jwt.WithValidate(false))
	if err != nil {
		return fallback
	}

	raw, ok := parsed.Get("full_name")
	fullName, _ := raw.(string)
	if !ok || fullName == "" {
		return fallback
	}

	first, last, found := strings.Cut(fullName, " ")
	if !found {
		return EmployeeHint{FirstName: fullName}
	}
	return EmployeeHint{FirstName: first, LastName: last}
}
