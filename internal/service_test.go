package internal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gcu-hr/attendance-reconciler/internal/attendance"
	"github.com/gcu-hr/attendance-reconciler/internal/biometric"
	"github.com/gcu-hr/attendance-reconciler/internal/directory"
	"github.com/gcu-hr/attendance-reconciler/internal/model"
	"github.com/gcu-hr/attendance-reconciler/internal/notify"
	"github.com/gcu-hr/attendance-reconciler/internal/report"
	"github.com/gcu-hr/attendance-reconciler/internal/sheet"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, message notify.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func newTestService(m Mailer) *Service {
	return NewService(attendance.NewClassifier(attendance.DefaultThresholds(), nil), 0, nil, m)
}

func reconcileRequest() ReconcileRequest {
	return ReconcileRequest{
		Cohorts: []CohortInput{
			{Name: "Faculty", Table: facultyExport(), Layout: biometric.DefaultLayout},
			{Name: "Admin", Table: biometricExport("Admin", "sometime", []string{"29"}), Layout: biometric.DefaultLayout},
		},
		Ledger:     ledgerTable(),
		Exemptions: exemptionsWorkbook(),
		Directory:  directory.TableSource{Table: directoryTable()},
		Params:     Params{MiscHolidays: "not-a-date", ReferenceYear: 2025},
	}
}

func rowFor(t *testing.T, cr report.CohortReport, id string) report.Row {
	for _, r := range cr.Rows {
		if r.EmployeeID == id {
			return r
		}
	}
	t.Fatalf("no row for %s", id)
	return report.Row{}
}

func TestServiceReconcile(t *testing.T) {
	service := newTestService(nil)

	result, err := service.Reconcile(context.Background(), reconcileRequest())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, result.RunID)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, "Admin", result.Failures[0].Cohort)

	require.Len(t, result.Cohorts, 1)
	faculty := result.Cohorts[0]
	assert.Equal(t, "Faculty", faculty.Cohort)
	require.Len(t, faculty.Rows, 2)

	asha := rowFor(t, faculty, "GCU1")
	assert.Equal(t, report.Row{
		Cohort: "Faculty", EmployeeID: "GCU1", Name: "Asha Rao", Designation: "Professor", Department: "Physics",
		WorkingDays: 3, Present: 1.5, Absent: 1.5, HalfDays: 1, FullDays: 1, Late: 0,
		ObservedLeaves: 1.5, ApprovedLeaves: 1, UnauthorizedLeaves: 0.5,
	}, asha)

	ravi := rowFor(t, faculty, "GCU2")
	assert.Equal(t, "Driver", ravi.Designation)
	assert.Equal(t, 1.0, ravi.FullDays)
	assert.Equal(t, 0.0, ravi.HalfDays)
	assert.Equal(t, 2.0, ravi.Present)
	assert.Equal(t, 1.0, ravi.UnauthorizedLeaves)

	require.Len(t, faculty.Exempted, 1)
	assert.Equal(t, "GCU1", faculty.Exempted[0].EmployeeID)
	assert.Equal(t, 1.0, faculty.Exempted[0].Late)
	assert.Equal(t, 1.0, faculty.Exempted[0].ExemptLate)

	require.Len(t, faculty.Leaves, 1, "ledger rows of other cohorts are not reconciled here")
	assert.Equal(t, "GCU1", faculty.Leaves[0].EmployeeID)
	assert.Equal(t, "Emp Id", faculty.Punches.Cell(0, 0))

	var kinds []string
	for _, w := range result.Warnings {
		kinds = append(kinds, w.Kind)
	}
	assert.Equal(t, []string{model.WarnInvalidOverride}, kinds)
}

func TestServiceReconcileIsIdempotent(t *testing.T) {
	service := newTestService(nil)

	first, err := service.Reconcile(context.Background(), reconcileRequest())
	require.NoError(t, err)
	second, err := service.Reconcile(context.Background(), reconcileRequest())
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Cohorts, second.Cohorts)
	assert.Equal(t, first.Failures, second.Failures)
	assert.Equal(t, first.Warnings, second.Warnings)
}

func TestServiceReconcileWorkingDaysOverride(t *testing.T) {
	req := reconcileRequest()
	req.Params.WorkingDays = 22

	result, err := newTestService(nil).Reconcile(context.Background(), req)
	require.NoError(t, err)
	asha := rowFor(t, result.Cohorts[0], "GCU1")
	assert.Equal(t, 22.0, asha.WorkingDays)
	assert.Equal(t, 20.5, asha.Present)

	req.Params.WorkingDays = 40
	_, err = newTestService(nil).Reconcile(context.Background(), req)
	assert.True(t, errors.Is(err, ErrInvalidWorkingDays))
}

func TestServiceReconcileManualWorkingDay(t *testing.T) {
	req := reconcileRequest()
	req.Params.MiscHolidays = "31-Dec-2025"

	result, err := newTestService(nil).Reconcile(context.Background(), req)
	require.NoError(t, err)
	asha := rowFor(t, result.Cohorts[0], "GCU1")
	assert.Equal(t, 2.0, asha.WorkingDays)
	assert.Equal(t, 0.0, asha.FullDays)
	assert.Equal(t, 0.0, asha.ApprovedLeaves, "leave on a holiday is not counted")
	assert.Empty(t, result.Warnings)

	req.Params.MiscWorkingDays = "31-Dec-2025"
	result, err = newTestService(nil).Reconcile(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 3.0, rowFor(t, result.Cohorts[0], "GCU1").WorkingDays)
}

func TestServiceReconcileJoinGap(t *testing.T) {
	req := reconcileRequest()
	req.Directory = directory.TableSource{Table: sheet.Table{Name: "employees", Rows: directoryTable().Rows[:2]}}

	result, err := newTestService(nil).Reconcile(context.Background(), req)
	require.NoError(t, err)

	var gaps []model.Warning
	for _, w := range result.Warnings {
		if w.Kind == model.WarnJoinGap {
			gaps = append(gaps, w)
		}
	}
	require.Len(t, gaps, 1)
	assert.Equal(t, "GCU2", gaps[0].EmployeeID)
	assert.Equal(t, "Faculty", gaps[0].Cohort)

	ravi := rowFor(t, result.Cohorts[0], "GCU2")
	assert.Empty(t, ravi.Department)
	// without a directory designation Ravi is classified as regular staff
	assert.Equal(t, 1.0, ravi.FullDays)
	assert.Equal(t, 1.0, ravi.HalfDays)
}

func TestServiceReconcileStructuralErrors(t *testing.T) {
	t.Run("ledger", func(t *testing.T) {
		req := reconcileRequest()
		req.Ledger = sheet.Table{Name: "ERP Leave", Rows: [][]string{{"Emp Id"}}}

		_, err := newTestService(nil).Reconcile(context.Background(), req)
		var missing *sheet.MissingColumnError
		assert.True(t, errors.As(err, &missing), "got %v", err)
	})

	t.Run("exemptions", func(t *testing.T) {
		req := reconcileRequest()
		req.Exemptions = sheet.NewWorkbook()

		_, err := newTestService(nil).Reconcile(context.Background(), req)
		assert.Error(t, err)
	})

	t.Run("directory", func(t *testing.T) {
		req := reconcileRequest()
		req.Directory = directory.TableSource{Table: sheet.Table{Name: "employees"}}

		_, err := newTestService(nil).Reconcile(context.Background(), req)
		assert.Error(t, err)
	})
}

func TestServiceReconcileEmailsReport(t *testing.T) {
	mailer := &MockMailer{}
	sent := make(chan notify.Message, 1)
	mailer.On("Send", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent <- args.Get(1).(notify.Message) }).
		Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	result, err := newTestService(mailer).Reconcile(ctx, reconcileRequest())
	cancel()
	require.NoError(t, err)

	select {
	case msg := <-sent:
		assert.Contains(t, msg.Subject, "26-Dec-2025 To 25-Jan-2026")
		assert.Contains(t, msg.Body, result.RunID.String())
		assert.Contains(t, msg.Body, "Failed Admin")
		require.Len(t, msg.Attachments, 1)
		assert.Equal(t, reportFilename, msg.Attachments[0].Filename)
		assert.NotEmpty(t, msg.Attachments[0].Data)
	case <-time.After(5 * time.Second):
		t.Fatal("report email was not sent")
	}
}
