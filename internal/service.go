package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/gcu-hr/attendance-reconciler/internal/attendance"
	"github.com/gcu-hr/attendance-reconciler/internal/biometric"
	"github.com/gcu-hr/attendance-reconciler/internal/calendar"
	appcontext "github.com/gcu-hr/attendance-reconciler/internal/context"
	"github.com/gcu-hr/attendance-reconciler/internal/directory"
	"github.com/gcu-hr/attendance-reconciler/internal/exemption"
	"github.com/gcu-hr/attendance-reconciler/internal/holiday"
	"github.com/gcu-hr/attendance-reconciler/internal/leave"
	"github.com/gcu-hr/attendance-reconciler/internal/model"
	"github.com/gcu-hr/attendance-reconciler/internal/notify"
	"github.com/gcu-hr/attendance-reconciler/internal/report"
	"github.com/gcu-hr/attendance-reconciler/internal/sheet"
)

const reportFilename = "attendance_report.xlsx"

// ErrInvalidWorkingDays is returned when the working-day override is outside 0 or 1-31.
var ErrInvalidWorkingDays = errors.New("working days must be 0 or between 1 and 31")

// Mailer delivers the finished report.
type Mailer interface {
	Send(ctx context.Context, message notify.Message) error
}

type Service struct {
	classifier       *attendance.Classifier
	holidayThreshold float64
	directory        directory.Source
	mailer           Mailer
}

// CohortInput is one biometric export and the layout it was written with.
type CohortInput struct {
	Name   string
	Table  sheet.Table
	Layout biometric.Layout
}

// Params are the operator supplied overrides of a run.
type Params struct {
	// WorkingDays overrides the working-day count; 0 derives it from the labelled dates.
	WorkingDays     int
	MiscHolidays    string
	MiscWorkingDays string
	// ReferenceYear places a year-less period header; 0 takes it from the current date.
	ReferenceYear int
}

// ReconcileRequest carries every loaded input of a run. A nil Directory falls back to
// the service's configured source.
type ReconcileRequest struct {
	Cohorts    []CohortInput
	Ledger     sheet.Table
	Exemptions sheet.Workbook
	Directory  directory.Source
	Params     Params
}

// Failure is a cohort that could not be processed.
type Failure struct {
	Cohort string `json:"cohort"`
	Error  string `json:"error"`
}

type Result struct {
	RunID    uuid.UUID             `json:"run_id"`
	Cohorts  []report.CohortReport `json:"cohorts"`
	Failures []Failure             `json:"failures,omitempty"`
	Warnings []model.Warning       `json:"warnings,omitempty"`
}

func NewService(c *attendance.Classifier, holidayThreshold float64, dir directory.Source, m Mailer) *Service {
	if holidayThreshold <= 0 {
		holidayThreshold = holiday.DefaultAbsentThreshold
	}
	return &Service{
		classifier:       c,
		holidayThreshold: holidayThreshold,
		directory:        dir,
		mailer:           m,
	}
}

// Reconcile runs the whole pipeline. Inputs shared by every cohort (directory, leave
// ledger, exemptions) abort the run when they are malformed; a cohort whose biometric
// export is malformed is reported in Result.Failures and the others carry on.
func (service Service) Reconcile(ctx context.Context, req ReconcileRequest) (*Result, error) {
	runID := uuid.New()
	ctxLogger := log.WithContext(ctx).WithField("run_id", runID.String())
	ctxLogger.Infof("Executing Reconcile service for %d cohorts", len(req.Cohorts))

	p := req.Params
	if p.WorkingDays != 0 && (p.WorkingDays < 1 || p.WorkingDays > 31) {
		return nil, ErrInvalidWorkingDays
	}

	dir, err := service.loadDirectory(ctx, req.Directory)
	if err != nil {
		ctxLogger.WithError(err).Error("Failed to load employee directory")
		return nil, fmt.Errorf("load employee directory: %w", err)
	}
	ctxLogger.Infof("Employee directory has %d entries", dir.Len())

	requests, warnings, err := leave.ParseLedger(req.Ledger)
	if err != nil {
		ctxLogger.WithError(err).Error("Failed to parse leave ledger")
		return nil, fmt.Errorf("parse leave ledger: %w", err)
	}

	exemptions, err := exemption.ParseWorkbook(req.Exemptions)
	if err != nil {
		ctxLogger.WithError(err).Error("Failed to parse exempted leaves")
		return nil, fmt.Errorf("parse exempted leaves: %w", err)
	}

	manualHolidays, w := parseOverrides(p.MiscHolidays, "misc holidays")
	warnings = append(warnings, w...)
	manualWorkingDays, w := parseOverrides(p.MiscWorkingDays, "misc working days")
	warnings = append(warnings, w...)

	exemptionsByID := exemption.ByEmployee(exemptions)
	result := &Result{RunID: runID}
	for _, in := range req.Cohorts {
		cohortLogger := ctxLogger.WithField("cohort", in.Name)
		cr, cohortWarnings, err := service.reconcileCohort(in, cohortInputs{
			params:            p,
			directory:         dir,
			requests:          requests,
			exemptions:        exemptionsByID,
			manualHolidays:    manualHolidays,
			manualWorkingDays: manualWorkingDays,
		})
		if err != nil {
			cohortLogger.WithError(err).Error("Failed to reconcile cohort")
			result.Failures = append(result.Failures, Failure{Cohort: in.Name, Error: err.Error()})
			continue
		}
		cohortLogger.Infof("Reconciled %d employees, %d holidays", len(cr.Rows), cr.Holidays.Len())
		result.Cohorts = append(result.Cohorts, *cr)
		warnings = append(warnings, cohortWarnings...)
	}
	result.Warnings = warnings

	if len(result.Warnings) > 0 {
		ctxLogger.Infof("There were %v warnings during reconciliation", len(result.Warnings))
	}
	if service.mailer != nil && len(result.Cohorts) > 0 {
		go service.sendReport(appcontext.Detach(ctx), result)
	}
	return result, nil
}

type cohortInputs struct {
	params            Params
	directory         *directory.Directory
	requests          []leave.Request
	exemptions        map[string]exemption.Record
	manualHolidays    []time.Time
	manualWorkingDays []time.Time
}

func (service Service) reconcileCohort(in CohortInput, ci cohortInputs) (*report.CohortReport, []model.Warning, error) {
	cohort, err := biometric.Split(in.Table, in.Layout, ci.params.ReferenceYear)
	if err != nil {
		return nil, nil, err
	}
	cohort.Name = in.Name

	holidays := holiday.Build(holiday.Input{
		Period:            cohort.Period,
		Dates:             cohort.Dates,
		Statistical:       holiday.Statistical(cohort.Records(), service.holidayThreshold),
		ManualHolidays:    ci.manualHolidays,
		ManualWorkingDays: ci.manualWorkingDays,
	})

	workingDays := float64(ci.params.WorkingDays)
	if workingDays == 0 {
		workingDays = float64(attendance.WorkingDays(cohort.Dates, holidays))
	}

	members := make(map[string]struct{}, len(cohort.Employees))
	summaries := make([]attendance.Summary, 0, len(cohort.Employees))
	for _, e := range cohort.Employees {
		emp := attendance.Employee{ID: e.ID, Name: e.Name}
		if d, ok := ci.directory.Lookup(e.ID); ok {
			emp.Designation = d.Designation
		}
		members[e.ID] = struct{}{}
		summaries = append(summaries, service.classifier.Aggregate(emp, e.Records, holidays, workingDays))
	}

	var cohortRequests []leave.Request
	for _, r := range ci.requests {
		if _, ok := members[r.EmployeeID]; ok {
			cohortRequests = append(cohortRequests, r)
		}
	}
	leaves := leave.NewReconciler(holidays).Reconcile(cohortRequests)

	composeInput := report.Input{
		Cohort:     in.Name,
		Summaries:  summaries,
		Exemptions: ci.exemptions,
		Leaves:     leave.ByEmployee(leaves),
		Directory:  ci.directory,
	}
	rows, warnings := report.Compose(composeInput)

	punches, _, _ := cohort.Tables()
	return &report.CohortReport{
		Cohort:    in.Name,
		Punches:   punches,
		Period:    cohort.Period,
		Holidays:  holidays,
		Summaries: summaries,
		Leaves:    leaves,
		Rows:      rows,
		Exempted:  report.ExemptedRows(composeInput),
	}, warnings, nil
}

func (service Service) loadDirectory(ctx context.Context, src directory.Source) (*directory.Directory, error) {
	if src == nil {
		src = service.directory
	}
	if src == nil {
		return directory.New(nil), nil
	}
	return directory.Load(ctx, src)
}

func parseOverrides(raw string, field string) ([]time.Time, []model.Warning) {
	days, errs := calendar.ParseDayList(raw)
	var warnings []model.Warning
	for _, err := range errs {
		warnings = append(warnings, model.Warning{
			Kind:    model.WarnInvalidOverride,
			Message: fmt.Sprintf("%s: %v", field, err),
		})
	}
	return days, warnings
}

func (service Service) sendReport(ctx context.Context, result *Result) {
	ctxLogger := log.WithContext(ctx).WithField("run_id", result.RunID.String())

	buf, err := report.WriteWorkbook(result.Cohorts)
	if err != nil {
		ctxLogger.WithError(err).Error("Unable to build report workbook")
		return
	}

	err = service.mailer.Send(ctx, notify.Message{
		Subject:     "Report: Attendance Reconciliation " + periodSubject(result.Cohorts),
		Body:        statusBody(result),
		Attachments: []notify.Attachment{{Filename: reportFilename, Data: buf.Bytes()}},
	})
	if err != nil {
		ctxLogger.WithError(err).Error("Failed to email attendance report")
	}
}

func periodSubject(cohorts []report.CohortReport) string {
	if len(cohorts) == 0 {
		return ""
	}
	return cohorts[0].Period.String()
}

func statusBody(result *Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s\n", result.RunID)
	for _, c := range result.Cohorts {
		fmt.Fprintf(&b, "%s: %d employees, period %s\n", c.Cohort, len(c.Rows), c.Period)
	}
	for _, f := range result.Failures {
		fmt.Fprintf(&b, "Failed %s: %s\n", f.Cohort, f.Error)
	}
	if len(result.Warnings) == 0 {
		b.WriteString("No warnings found during reconciliation. Please check attached report.\n")
		return b.String()
	}
	b.WriteString("\nWarnings:\n")
	for _, w := range result.Warnings {
		b.WriteString(w.String())
		b.WriteString("\n")
	}
	return b.String()
}
