package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chronopointe/pointage-go/internal/kiosk/scan"
)

// Error taxonomy of the submission path. Conflict is deliberately a
// success signal: the server already holds this punch.
var (
	ErrNetworkUnavailable = errors.New("punch server unreachable")
	ErrServerConflict     = errors.New("punch already recorded by the server")
)

// ServerRejectedError is a non-2xx, non-409 answer: the entry stays
// queued and is retried, surfacing to the operator past a threshold.
type ServerRejectedError struct {
	StatusCode int
	Message    string
}

func (e *ServerRejectedError) Error() string {
	return fmt.Sprintf("server rejected punch (%d): %s", e.StatusCode, e.Message)
}

// SubmitResult is what the kiosk shows after a confirmed punch.
type SubmitResult struct {
	EmployeeName string
	PunchType    string
}

// Client talks to the punch endpoint of the attendance server.
type Client struct {
	baseURL string
	kioskID string
	httpc   *http.Client
}

func New(baseURL, kioskID string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		kioskID: kioskID,
		httpc:   &http.Client{Timeout: timeout},
	}
}

type submitPayload struct {
	BadgeToken string `json:"badge_token"`
	CapturedAt string `json:"captured_at"`
	KioskID    string `json:"kiosk_id"`
}

type submitEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		EmployeeName string `json:"employee_name"`
		Type         string `json:"type"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SubmitPunch sends one scan to the server. The capturedAt of the scan
// is transmitted as-is; a queued scan synced an hour late still punches
// at its capture time.
func (c *Client) SubmitPunch(ctx context.Context, event scan.Event) (SubmitResult, error) {
	body, err := json.Marshal(submitPayload{
		BadgeToken: event.BadgeToken,
		CapturedAt: event.CapturedAt.Format(time.RFC3339),
		KioskID:    c.kioskID,
	})
	if err != nil {
		return SubmitResult{}, fmt.Errorf("encode punch payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/punch", bytes.NewReader(body))
	if err != nil {
		return SubmitResult{}, fmt.Errorf("build punch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("%w: %v", ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	var envelope submitEnvelope
	_ = json.NewDecoder(resp.Body).Decode(&envelope)

	switch {
	case resp.StatusCode == http.StatusConflict:
		return SubmitResult{}, ErrServerConflict
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return SubmitResult{
			EmployeeName: envelope.Data.EmployeeName,
			PunchType:    envelope.Data.Type,
		}, nil
	default:
		message := "no detail"
		if envelope.Error != nil {
			message = envelope.Error.Message
		}
		return SubmitResult{}, &ServerRejectedError{
			StatusCode: resp.StatusCode,
			Message:    message,
		}
	}
}

// Ping checks reachability of the server heartbeat. Used to detect the
// offline to online transition that triggers an immediate drain.
func (c *Client) Ping(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}
