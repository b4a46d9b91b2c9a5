package syncer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/chronopointe/pointage-go/internal/kiosk/client"
	"github.com/chronopointe/pointage-go/internal/kiosk/queue"
	"github.com/chronopointe/pointage-go/internal/kiosk/scan"
)

// Store is the slice of the offline queue the agent drains.
type Store interface {
	List(ctx context.Context) ([]queue.QueuedScan, error)
	Remove(ctx context.Context, id string) error
	RecordAttempt(ctx context.Context, id string) error
	Len(ctx context.Context) (int, error)
}

// Submitter sends one scan to the server.
type Submitter interface {
	SubmitPunch(ctx context.Context, event scan.Event) (client.SubmitResult, error)
}

// Result of one drain pass. Partial success is the normal case.
type Result struct {
	Synced    int
	Failed    int
	Remaining int
	Skipped   bool
}

// Syncer drains the offline queue in capture order. Runs never
// overlap: a trigger that lands while a drain is in flight is a no-op.
type Syncer struct {
	store          Store
	submitter      Submitter
	interval       time.Duration
	alertThreshold int

	mu     sync.Mutex
	wakeup chan struct{}
}

func New(store Store, submitter Submitter, interval time.Duration, alertThreshold int) *Syncer {
	return &Syncer{
		store:          store,
		submitter:      submitter,
		interval:       interval,
		alertThreshold: alertThreshold,
		wakeup:         make(chan struct{}, 1),
	}
}

// TriggerOnline requests an immediate drain, used on the offline to
// online transition. Non-blocking; collapses with a pending trigger.
func (s *Syncer) TriggerOnline() {
	select {
	case s.wakeup <- struct{}{}:
	default:
	}
}

// Run drains on the fixed interval and on explicit triggers until the
// context is cancelled.
func (s *Syncer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-s.wakeup:
		}

		result := s.DrainOnce(ctx)
		if result.Skipped {
			continue
		}
		if result.Synced > 0 || result.Failed > 0 {
			slog.Info("Sync pass finished",
				"synced", result.Synced,
				"failed", result.Failed,
				"remaining", result.Remaining)
		}
	}
}

// DrainOnce runs a single pass over the queue snapshot. New scans
// enqueued during the pass are left for the next one.
func (s *Syncer) DrainOnce(ctx context.Context) Result {
	if !s.mu.TryLock() {
		return Result{Skipped: true}
	}
	defer s.mu.Unlock()

	scans, err := s.store.List(ctx)
	if err != nil {
		slog.Error("Sync: cannot list queue", "error", err)
		return Result{}
	}
	if len(scans) == 0 {
		return Result{}
	}

	var result Result
	for _, queued := range scans {
		event := scan.Event{
			BadgeToken: queued.BadgeToken,
			CapturedAt: queued.CapturedAt,
		}

		_, err := s.submitter.SubmitPunch(ctx, event)
		switch {
		case err == nil, errors.Is(err, client.ErrServerConflict):
			// A conflict means an earlier attempt landed before the
			// network call appeared to fail. Same outcome: acknowledged.
			if err := s.store.Remove(ctx, queued.ID); err != nil {
				slog.Error("Sync: cannot remove acknowledged scan", "id", queued.ID, "error", err)
				continue
			}
			result.Synced++
		default:
			result.Failed++
			if err := s.store.RecordAttempt(ctx, queued.ID); err != nil {
				slog.Error("Sync: cannot record attempt", "id", queued.ID, "error", err)
			}
			attempts := queued.Attempts + 1
			if attempts >= s.alertThreshold {
				slog.Warn("Sync: scan keeps failing, operator attention needed",
					"id", queued.ID,
					"attempts", attempts,
					"captured_at", queued.CapturedAt,
					"error", err)
			}
		}
	}

	if remaining, err := s.store.Len(ctx); err == nil {
		result.Remaining = remaining
	}
	return result
}
