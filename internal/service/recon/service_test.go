package recon

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/chronopointe/pointage-go/internal/domain/anomaly"
	"github.com/chronopointe/pointage-go/internal/domain/punch"
	"github.com/chronopointe/pointage-go/internal/domain/shift"
	"github.com/chronopointe/pointage-go/internal/pkg/sse"
	shiftservice "github.com/chronopointe/pointage-go/internal/service/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPunchRepo struct {
	punches []punch.Punch
}

func (s *stubPunchRepo) Create(ctx context.Context, p punch.Punch) (punch.Punch, error) {
	return p, nil
}

func (s *stubPunchRepo) ListByEmployeeAndWorkDay(ctx context.Context, employeeID string, workDay time.Time) ([]punch.Punch, error) {
	return s.punches, nil
}

func (s *stubPunchRepo) GetLastByEmployee(ctx context.Context, employeeID string, workDay time.Time) (*punch.Punch, error) {
	return nil, nil
}

func (s *stubPunchRepo) ListByWorkDay(ctx context.Context, workDay time.Time) ([]punch.Punch, error) {
	return s.punches, nil
}

type stubShiftRepo struct {
	planned *shift.PlannedShift
}

func (s *stubShiftRepo) GetByEmployeeAndWorkDay(ctx context.Context, employeeID string, workDay time.Time) (shift.PlannedShift, error) {
	if s.planned == nil {
		return shift.PlannedShift{}, shift.ErrShiftNotFound
	}
	return *s.planned, nil
}

func (s *stubShiftRepo) ListByWorkDay(ctx context.Context, workDay time.Time) ([]shift.PlannedShift, error) {
	return nil, nil
}

type memAnomalyRepo struct {
	anomalies []anomaly.Anomaly
}

func (m *memAnomalyRepo) Create(ctx context.Context, a anomaly.Anomaly) (anomaly.Anomaly, error) {
	a.ID = fmt.Sprintf("ano-%d", len(m.anomalies)+1)
	m.anomalies = append(m.anomalies, a)
	return a, nil
}

func (m *memAnomalyRepo) ExistsFor(ctx context.Context, employeeID string, workDay time.Time, anomalyType anomaly.Type) (bool, error) {
	for _, a := range m.anomalies {
		if a.EmployeeID == employeeID && a.WorkDay.Equal(workDay) && a.Type == anomalyType {
			return true, nil
		}
	}
	return false, nil
}

func (m *memAnomalyRepo) GetByID(ctx context.Context, id string) (anomaly.Anomaly, error) {
	return anomaly.Anomaly{}, anomaly.ErrAnomalyNotFound
}

func (m *memAnomalyRepo) List(ctx context.Context, filter anomaly.ListFilter) ([]anomaly.Anomaly, int64, error) {
	return m.anomalies, int64(len(m.anomalies)), nil
}

func (m *memAnomalyRepo) Update(ctx context.Context, a anomaly.Anomaly) error {
	return nil
}

func passthroughTransactor(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestReconService(punches []punch.Punch, planned *shift.PlannedShift) (Service, *memAnomalyRepo, *sse.Hub) {
	return newTestReconServiceWithTransactor(punches, planned, passthroughTransactor)
}

func newTestReconServiceWithTransactor(punches []punch.Punch, planned *shift.PlannedShift, transact Transactor) (Service, *memAnomalyRepo, *sse.Hub) {
	shiftSvc := shiftservice.NewShiftService(&stubShiftRepo{planned: planned}, 420)
	engine := NewEngine(shiftSvc, DefaultConfig())
	anomalyRepo := &memAnomalyRepo{}
	hub := sse.NewHub()
	svc := NewReconService(engine, &stubPunchRepo{punches: punches}, shiftSvc, anomalyRepo, hub, transact)
	return svc, anomalyRepo, hub
}

func lateDayFixture() ([]punch.Punch, *shift.PlannedShift, time.Time) {
	// A past work-day so the shift is closed no matter when the test
	// runs.
	workDay := time.Date(2020, 3, 9, 0, 0, 0, 0, time.UTC)
	at := func(hour, min int) time.Time {
		return time.Date(2020, 3, 9, hour, min, 0, 0, time.UTC)
	}

	punches := []punch.Punch{
		{EmployeeID: "emp-1", Type: punch.TypeArrivee, CapturedAt: at(9, 20), WorkDay: workDay},
		{EmployeeID: "emp-1", Type: punch.TypeDepart, CapturedAt: at(17, 0), WorkDay: workDay},
	}
	planned := &shift.PlannedShift{
		EmployeeID: "emp-1",
		WorkDay:    workDay,
		Kind:       shift.KindWork,
		Segments: []shift.Segment{
			{Start: "09:00", End: "17:00", Kind: shift.SegmentWork},
		},
	}
	return punches, planned, workDay
}

func TestReconcile_PersistsAndPublishesProposals(t *testing.T) {
	punches, planned, workDay := lateDayFixture()
	svc, repo, hub := newTestReconService(punches, planned)

	events, cleanup := hub.Subscribe(AnomalyTopic)
	defer cleanup()

	result, created, err := svc.Reconcile(context.Background(), "emp-1", workDay)

	require.NoError(t, err)
	assert.Equal(t, 1, created)
	require.Len(t, repo.anomalies, 1)
	assert.Equal(t, anomaly.TypeRetard, repo.anomalies[0].Type)
	assert.Equal(t, anomaly.StatusEnAttente, repo.anomalies[0].Status)
	assert.True(t, result.ShiftFinished)

	select {
	case event := <-events:
		assert.Equal(t, "anomaly.proposed", event.Event)
		resp, ok := event.Data.(anomaly.AnomalyResponse)
		require.True(t, ok)
		assert.Equal(t, anomaly.TypeRetard, resp.Type)
	default:
		t.Fatal("expected an anomaly.proposed event on the feed")
	}
}

func TestReconcile_SecondRunCreatesNothing(t *testing.T) {
	punches, planned, workDay := lateDayFixture()
	svc, repo, _ := newTestReconService(punches, planned)

	_, created, err := svc.Reconcile(context.Background(), "emp-1", workDay)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	// Rerunning the hourly job must not duplicate open proposals.
	_, created, err = svc.Reconcile(context.Background(), "emp-1", workDay)
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Len(t, repo.anomalies, 1)
}

func TestReconcile_PersistsInsideTransaction(t *testing.T) {
	punches, planned, workDay := lateDayFixture()

	calls := 0
	transact := func(ctx context.Context, fn func(ctx context.Context) error) error {
		calls++
		return fn(ctx)
	}
	svc, repo, _ := newTestReconServiceWithTransactor(punches, planned, transact)

	_, created, err := svc.Reconcile(context.Background(), "emp-1", workDay)

	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, calls)
	assert.Len(t, repo.anomalies, 1)
}

func TestReconcile_RolledBackRunPublishesNothing(t *testing.T) {
	punches, planned, workDay := lateDayFixture()

	transact := func(ctx context.Context, fn func(ctx context.Context) error) error {
		_ = fn(ctx)
		return fmt.Errorf("commit failed")
	}
	svc, _, hub := newTestReconServiceWithTransactor(punches, planned, transact)

	events, cleanup := hub.Subscribe(AnomalyTopic)
	defer cleanup()

	_, created, err := svc.Reconcile(context.Background(), "emp-1", workDay)

	require.Error(t, err)
	assert.Zero(t, created)
	select {
	case <-events:
		t.Fatal("no event may be published for a rolled-back run")
	default:
	}
}

func TestSummary_PersistsNothing(t *testing.T) {
	punches, planned, workDay := lateDayFixture()
	svc, repo, _ := newTestReconService(punches, planned)

	result, err := svc.Summary(context.Background(), "emp-1", workDay)

	require.NoError(t, err)
	require.NotEmpty(t, result.Proposals)
	assert.Empty(t, repo.anomalies)
}

func TestReconcile_NoShiftNoPunches(t *testing.T) {
	workDay := time.Date(2020, 3, 9, 0, 0, 0, 0, time.UTC)
	svc, repo, _ := newTestReconService(nil, nil)

	result, created, err := svc.Reconcile(context.Background(), "emp-1", workDay)

	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Empty(t, repo.anomalies)
	assert.Equal(t, "emp-1", result.EmployeeID)
	assert.Equal(t, workDay, result.WorkDay)
}
