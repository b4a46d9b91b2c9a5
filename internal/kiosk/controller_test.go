package kiosk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chronopointe/pointage-go/internal/kiosk/client"
	"github.com/chronopointe/pointage-go/internal/kiosk/confirm"
	"github.com/chronopointe/pointage-go/internal/kiosk/queue"
	"github.com/chronopointe/pointage-go/internal/kiosk/scan"
	"github.com/chronopointe/pointage-go/internal/kiosk/syncer"
	"github.com/chronopointe/pointage-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBadgeToken(t *testing.T) string {
	t.Helper()
	jwtSvc := jwt.NewJWTService("test-secret-key-for-jwt", "8760h")
	token, _, err := jwtSvc.GenerateBadgeToken("emp-1", "EMP-0001", "Marie Dupont")
	require.NoError(t, err)
	return token
}

func newTestController(t *testing.T, serverURL string) (*Controller, *queue.Store) {
	t.Helper()

	store, err := queue.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	apiClient := client.New(serverURL, "kiosk-test", time.Second)
	machine := confirm.NewMachine()
	t.Cleanup(machine.Stop)
	sync := syncer.New(store, apiClient, time.Minute, 5)

	return NewController(scan.NewValidator(scan.NewBlockList()), store, apiClient, machine, sync), store
}

func TestHandleScan_OnlineSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{"employee_name":"Marie Dupont","type":"arrivee"}}`))
	}))
	defer server.Close()

	controller, store := newTestController(t, server.URL)

	state := controller.HandleScan(context.Background(), testBadgeToken(t))

	assert.True(t, state.Displaying)
	assert.Equal(t, confirm.KindSuccess, state.Kind)
	assert.Contains(t, state.Message, "Marie Dupont")
	assert.True(t, controller.Online())

	n, _ := store.Len(context.Background())
	assert.Zero(t, n)
}

func TestHandleScan_ConflictShownAsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"success":false,"error":{"message":"duplicate punch"}}`))
	}))
	defer server.Close()

	controller, _ := newTestController(t, server.URL)

	state := controller.HandleScan(context.Background(), testBadgeToken(t))

	assert.Equal(t, confirm.KindSuccess, state.Kind)
	assert.Equal(t, "Pointage deja enregistre", state.Message)
}

func TestHandleScan_OfflineQueuesScan(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	controller, store := newTestController(t, server.URL)

	state := controller.HandleScan(context.Background(), testBadgeToken(t))

	assert.Equal(t, confirm.KindPending, state.Kind)
	assert.Contains(t, state.Message, "Hors ligne")
	assert.Contains(t, state.Message, "Marie")
	assert.False(t, controller.Online())

	scans, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, scans, 1)
	assert.Equal(t, "Marie", scans[0].FirstName)
	assert.Equal(t, "Dupont", scans[0].LastName)
}

func TestHandleScan_InvalidPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should reach the server")
	}))
	defer server.Close()

	controller, _ := newTestController(t, server.URL)

	state := controller.HandleScan(context.Background(), "not a badge")

	assert.Equal(t, confirm.KindError, state.Kind)
	assert.Equal(t, "Badge illisible, reessayez", state.Message)
}

func TestHandleScan_RepeatedTapAnsweredWhileBusy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{"employee_name":"Marie Dupont","type":"arrivee"}}`))
	}))
	defer server.Close()

	controller, _ := newTestController(t, server.URL)
	token := testBadgeToken(t)

	first := controller.HandleScan(context.Background(), token)
	require.Equal(t, confirm.KindSuccess, first.Kind)

	// Same badge again while the confirmation is still on screen.
	second := controller.HandleScan(context.Background(), token)
	assert.Equal(t, confirm.KindAlreadyScanned, second.Kind)
	assert.Contains(t, second.Message, "Badge deja scanne")
}

func TestHandleScan_OtherScansSwallowedWhileBusy(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{"employee_name":"Marie Dupont","type":"arrivee"}}`))
	}))
	defer server.Close()

	controller, _ := newTestController(t, server.URL)

	first := controller.HandleScan(context.Background(), testBadgeToken(t))
	require.Equal(t, confirm.KindSuccess, first.Kind)

	// A different, never-seen payload during the display cycle does not
	// reach the server and does not change the display.
	second := controller.HandleScan(context.Background(), "x.y.z")
	assert.Equal(t, confirm.KindSuccess, second.Kind)
	assert.Equal(t, 1, requests)
}
