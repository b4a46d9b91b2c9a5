package kiosk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/chronopointe/pointage-go/internal/kiosk/client"
	"github.com/chronopointe/pointage-go/internal/kiosk/confirm"
	"github.com/chronopointe/pointage-go/internal/kiosk/queue"
	"github.com/chronopointe/pointage-go/internal/kiosk/scan"
	"github.com/chronopointe/pointage-go/internal/kiosk/syncer"
)

// PingInterval paces the connectivity watcher that catches the server
// coming back while nobody scans.
const PingInterval = 5 * time.Second

// Controller owns the scan path of the kiosk: validate, submit or
// enqueue, and drive the confirmation display. It is the only writer
// of the confirmation machine.
type Controller struct {
	validator *scan.Validator
	store     *queue.Store
	client    *client.Client
	machine   *confirm.Machine
	syncer    *syncer.Syncer

	online atomic.Bool
}

func NewController(
	validator *scan.Validator,
	store *queue.Store,
	apiClient *client.Client,
	machine *confirm.Machine,
	sync *syncer.Syncer,
) *Controller {
	c := &Controller{
		validator: validator,
		store:     store,
		client:    apiClient,
		machine:   machine,
		syncer:    sync,
	}
	c.online.Store(true)
	return c
}

// HandleScan processes one raw badge read and returns the resulting
// display state. Every outcome of the scan path becomes one of the
// four confirmation kinds; nothing propagates as an error to the UI.
func (c *Controller) HandleScan(ctx context.Context, raw string) confirm.State {
	if c.machine.Busy() {
		// Swallowed by the display guard, except that a repeated tap of
		// an already-accepted badge still deserves its answer.
		if until, blocked := c.validator.Blocked(raw); blocked {
			c.machine.Show(confirm.KindAlreadyScanned,
				fmt.Sprintf("Badge deja scanne, patientez jusqu'a %s", until.Format("15:04:05")))
		}
		return c.machine.State()
	}

	event, err := c.validator.Accept(raw, time.Now())
	if err != nil {
		var already *scan.AlreadyScannedError
		switch {
		case errors.As(err, &already):
			c.machine.Show(confirm.KindAlreadyScanned,
				fmt.Sprintf("Badge deja scanne, patientez jusqu'a %s", already.BlockedUntil.Format("15:04:05")))
		case errors.Is(err, scan.ErrInvalidToken):
			c.machine.Show(confirm.KindError, "Badge illisible, reessayez")
		default:
			c.machine.Show(confirm.KindError, "Scan refuse")
		}
		return c.machine.State()
	}

	c.submit(ctx, event)
	return c.machine.State()
}

func (c *Controller) submit(ctx context.Context, event scan.Event) {
	result, err := c.client.SubmitPunch(ctx, event)

	switch {
	case err == nil:
		c.markOnline()
		c.machine.Show(confirm.KindSuccess, greeting(result))

	case errors.Is(err, client.ErrServerConflict):
		// The server already holds this punch; from the employee's
		// point of view that is a success.
		c.markOnline()
		c.machine.Show(confirm.KindSuccess, "Pointage deja enregistre")

	case errors.Is(err, client.ErrNetworkUnavailable):
		c.online.Store(false)
		c.enqueue(ctx, event)

	default:
		// Rejected outright; the badge is the problem, not the network.
		c.markOnline()
		slog.Warn("Punch rejected by server", "error", err)
		c.machine.Show(confirm.KindError, "Pointage refuse par le serveur")
	}
}

func (c *Controller) enqueue(ctx context.Context, event scan.Event) {
	hint := scan.Hint(event.BadgeToken)

	id, err := c.store.Enqueue(ctx, event, hint)
	if err != nil {
		// Losing scans is the one thing the kiosk must never do
		// silently.
		slog.Error("OFFLINE QUEUE STORAGE FAILED, scan lost", "error", err)
		c.machine.Show(confirm.KindError, "ERREUR STOCKAGE: prevenez le responsable")
		return
	}

	slog.Info("Scan queued offline",
		"id", id,
		"employee", hint.FirstName+" "+hint.LastName,
		"captured_at", event.CapturedAt)
	c.machine.Show(confirm.KindPending,
		fmt.Sprintf("Hors ligne: pointage de %s enregistre, envoi differe", hint.FirstName))
}

func (c *Controller) markOnline() {
	if !c.online.Swap(true) {
		// Offline to online edge: drain what accumulated.
		c.syncer.TriggerOnline()
	}
}

// Online reports the last observed connectivity.
func (c *Controller) Online() bool {
	return c.online.Load()
}

// WatchConnectivity pings the server so the offline to online edge is
// caught even when nobody scans. Runs until the context is cancelled.
func (c *Controller) WatchConnectivity(ctx context.Context) {
	ticker := time.NewTicker(PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.client.Ping(ctx) {
				c.markOnline()
			} else {
				c.online.Store(false)
			}
		}
	}
}

func greeting(result client.SubmitResult) string {
	name := result.EmployeeName
	if name == "" {
		name = "vous"
	}
	if result.PunchType == "depart" {
		return fmt.Sprintf("Au revoir %s, depart enregistre", name)
	}
	return fmt.Sprintf("Bonjour %s, arrivee enregistree", name)
}
