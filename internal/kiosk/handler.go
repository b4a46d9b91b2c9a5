package kiosk

import (
	"encoding/json"
	"net/http"

	"github.com/chronopointe/pointage-go/internal/handler/http/response"
	"github.com/chronopointe/pointage-go/internal/kiosk/queue"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter exposes the kiosk agent's local API to the tablet UI:
// scan input, the confirmation display state and queue statistics.
// It binds to localhost only; the kiosk is a fixed trusted device.
func NewRouter(controller *Controller, store *queue.Store) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	h := &localHandler{controller: controller, store: store}

	r.Post("/scan", h.Scan)
	r.Get("/status", h.Status)
	r.Get("/queue/stats", h.QueueStats)

	return r
}

type localHandler struct {
	controller *Controller
	store      *queue.Store
}

type scanRequest struct {
	Payload string `json:"payload"`
}

func (h *localHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if req.Payload == "" {
		response.BadRequest(w, "payload is required", nil)
		return
	}

	state := h.controller.HandleScan(r.Context(), req.Payload)
	response.Success(w, state)
}

type statusResponse struct {
	Online  bool        `json:"online"`
	Display interface{} `json:"display"`
}

func (h *localHandler) Status(w http.ResponseWriter, r *http.Request) {
	response.Success(w, statusResponse{
		Online:  h.controller.Online(),
		Display: h.controller.machine.State(),
	})
}

type queueStatsResponse struct {
	Pending    int    `json:"pending"`
	OldestScan string `json:"oldest_scan,omitempty"`
	MaxAttempt int    `json:"max_attempts"`
}

func (h *localHandler) QueueStats(w http.ResponseWriter, r *http.Request) {
	scans, err := h.store.List(r.Context())
	if err != nil {
		response.InternalServerError(w, "Cannot read queue")
		return
	}

	stats := queueStatsResponse{Pending: len(scans)}
	for _, s := range scans {
		if stats.OldestScan == "" {
			stats.OldestScan = s.CapturedAt.Format("2006-01-02 15:04:05")
		}
		if s.Attempts > stats.MaxAttempt {
			stats.MaxAttempt = s.Attempts
		}
	}

	response.Success(w, stats)
}
