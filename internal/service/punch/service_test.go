package punch

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/chronopointe/pointage-go/internal/domain/employee"
	"github.com/chronopointe/pointage-go/internal/domain/punch"
	"github.com/chronopointe/pointage-go/internal/pkg/jwt"
	"github.com/chronopointe/pointage-go/internal/pkg/workday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

type fakePunchRepo struct {
	mu      sync.Mutex
	punches []punch.Punch
	nextID  int
}

func (f *fakePunchRepo) Create(ctx context.Context, p punch.Punch) (punch.Punch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p.ID = fmt.Sprintf("punch-%d", f.nextID)
	p.CreatedAt = time.Now()
	f.punches = append(f.punches, p)
	return p, nil
}

func (f *fakePunchRepo) ListByEmployeeAndWorkDay(ctx context.Context, employeeID string, workDay time.Time) ([]punch.Punch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []punch.Punch
	for _, p := range f.punches {
		if p.EmployeeID == employeeID && p.WorkDay.Equal(workDay) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePunchRepo) GetLastByEmployee(ctx context.Context, employeeID string, workDay time.Time) (*punch.Punch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var last *punch.Punch
	for i := range f.punches {
		p := f.punches[i]
		if p.EmployeeID == employeeID && p.WorkDay.Equal(workDay) {
			if last == nil || p.CapturedAt.After(last.CapturedAt) {
				last = &f.punches[i]
			}
		}
	}
	return last, nil
}

func (f *fakePunchRepo) ListByWorkDay(ctx context.Context, workDay time.Time) ([]punch.Punch, error) {
	return nil, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	for _, emp := range f.employees {
		if emp.Code == code {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range f.employees {
		if emp.Active {
			out = append(out, emp)
		}
	}
	return out, nil
}

func newTestService(t *testing.T, active bool) (punch.PunchService, *fakePunchRepo, string) {
	t.Helper()

	jwtSvc := jwt.NewJWTService(testSecret, "8760h")
	token, _, err := jwtSvc.GenerateBadgeToken("emp-1", "EMP-0001", "Marie Dupont")
	require.NoError(t, err)

	punchRepo := &fakePunchRepo{}
	employeeRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", Code: "EMP-0001", FirstName: "Marie", LastName: "Dupont", Active: active},
	}}

	return NewPunchService(punchRepo, employeeRepo, jwtSvc), punchRepo, token
}

func submitAt(t *testing.T, svc punch.PunchService, token string, at time.Time) (punch.SubmitResponse, error) {
	t.Helper()
	return svc.Submit(context.Background(), punch.SubmitRequest{
		BadgeToken: token,
		CapturedAt: at.Format(time.RFC3339),
		KioskID:    "kiosk-entree",
	})
}

func TestSubmit_FirstPunchIsArrival(t *testing.T) {
	svc, _, token := newTestService(t, true)
	capturedAt := time.Now().Add(-time.Hour)

	resp, err := submitAt(t, svc, token, capturedAt)

	require.NoError(t, err)
	assert.Equal(t, punch.TypeArrivee, resp.Type)
	assert.Equal(t, "emp-1", resp.EmployeeID)
	assert.Equal(t, "Marie Dupont", resp.EmployeeName)
	assert.Equal(t, workday.Of(capturedAt).Format("2006-01-02"), resp.WorkDay)
}

func TestSubmit_AlternatesWithinWorkDay(t *testing.T) {
	svc, _, token := newTestService(t, true)
	base := time.Now().Add(-5 * time.Hour)

	first, err := submitAt(t, svc, token, base)
	require.NoError(t, err)
	assert.Equal(t, punch.TypeArrivee, first.Type)

	second, err := submitAt(t, svc, token, base.Add(4*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, punch.TypeDepart, second.Type)
}

func TestSubmit_CoolDownRejectsDuplicate(t *testing.T) {
	svc, repo, token := newTestService(t, true)
	base := time.Now().Add(-time.Hour)

	_, err := submitAt(t, svc, token, base)
	require.NoError(t, err)

	_, err = submitAt(t, svc, token, base.Add(10*time.Second))
	assert.ErrorIs(t, err, punch.ErrDuplicatePunch)
	assert.Len(t, repo.punches, 1)

	// Past the cool-down the next punch goes through.
	_, err = submitAt(t, svc, token, base.Add(31*time.Second))
	assert.NoError(t, err)
}

func TestSubmit_InvalidToken(t *testing.T) {
	svc, _, _ := newTestService(t, true)

	// Well-shaped but signed with the wrong key.
	otherSvc := jwt.NewJWTService("another-secret", "8760h")
	forged, _, err := otherSvc.GenerateBadgeToken("emp-1", "EMP-0001", "Marie Dupont")
	require.NoError(t, err)

	_, err = submitAt(t, svc, forged, time.Now())
	assert.ErrorIs(t, err, punch.ErrInvalidBadgeToken)
}

func TestSubmit_RevokedTokenRejected(t *testing.T) {
	jwtSvc := jwt.NewJWTService(testSecret, "8760h")
	token, _, err := jwtSvc.GenerateBadgeToken("emp-1", "EMP-0001", "Marie Dupont")
	require.NoError(t, err)

	employeeRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", Code: "EMP-0001", FirstName: "Marie", LastName: "Dupont", Active: true},
	}}
	svc := NewPunchService(&fakePunchRepo{}, employeeRepo, jwtSvc)

	jwtSvc.RevokeToken(token)

	_, err = submitAt(t, svc, token, time.Now())
	assert.ErrorIs(t, err, punch.ErrInvalidBadgeToken)
}

func TestSubmit_InactiveEmployee(t *testing.T) {
	svc, _, token := newTestService(t, false)

	_, err := submitAt(t, svc, token, time.Now())
	assert.ErrorIs(t, err, punch.ErrEmployeeInactive)
}

func TestSubmit_TimestampBounds(t *testing.T) {
	svc, _, token := newTestService(t, true)

	_, err := submitAt(t, svc, token, time.Now().Add(2*time.Hour))
	assert.ErrorIs(t, err, punch.ErrTimestampInFuture)

	_, err = submitAt(t, svc, token, time.Now().Add(-8*24*time.Hour))
	assert.ErrorIs(t, err, punch.ErrTimestampTooOld)
}

func TestSubmit_LatePunchKeepsCapturedWorkDay(t *testing.T) {
	svc, repo, token := newTestService(t, true)

	// A queued offline scan from two days ago arrives now; the punch
	// lands on the work-day of the scan, not of the submission.
	capturedAt := time.Now().Add(-48 * time.Hour)
	resp, err := submitAt(t, svc, token, capturedAt)

	require.NoError(t, err)
	assert.Equal(t, workday.Of(capturedAt).Format("2006-01-02"), resp.WorkDay)
	require.Len(t, repo.punches, 1)
	assert.WithinDuration(t, capturedAt, repo.punches[0].CapturedAt, time.Second)
}
