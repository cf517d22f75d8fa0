package internal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tealeg/xlsx"

	"github.com/gcu-hr/attendance-reconciler/internal/biometric"
	"github.com/gcu-hr/attendance-reconciler/internal/calendar"
	"github.com/gcu-hr/attendance-reconciler/internal/directory"
	"github.com/gcu-hr/attendance-reconciler/internal/exemption"
	"github.com/gcu-hr/attendance-reconciler/internal/report"
	"github.com/gcu-hr/attendance-reconciler/internal/sheet"
	"github.com/gcu-hr/attendance-reconciler/internal/util"
)

const (
	maxUploadMemory = 32 << 20

	fieldLeave     = "leave"
	fieldExempted  = "exempted"
	fieldDirectory = "directory"

	formatJSON = "json"
	formatXLSX = "xlsx"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// statusError carries the HTTP status an upload problem maps to.
type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string { return e.err.Error() }

func (e *statusError) Unwrap() error { return e.err }

func badRequest(format string, args ...interface{}) error {
	return &statusError{status: http.StatusBadRequest, err: fmt.Errorf(format, args...)}
}

func unprocessable(err error) error {
	return &statusError{status: http.StatusUnprocessableEntity, err: err}
}

//Handler func
func Handler(attendanceHandler AttendanceHandler, opts UploadOptions) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		contextLogger := log.WithContext(ctx)

		if err := req.ParseMultipartForm(maxUploadMemory); err != nil {
			contextLogger.WithError(err).Error("Failed to parse request body")
			util.WithError(err, http.StatusBadRequest, res)
			return
		}

		format, err := parseFormat(req)
		if err != nil {
			util.WithError(err, http.StatusBadRequest, res)
			return
		}

		reconcileReq, err := parseReconcileRequest(req, opts)
		if err != nil {
			contextLogger.WithError(err).Error("Invalid reconcile request")
			util.WithError(err, statusOf(err), res)
			return
		}

		result, err := attendanceHandler.Reconcile(ctx, *reconcileReq)
		if err != nil {
			contextLogger.WithError(err).Error("There were some errors during reconciliation")
			util.WithError(err, statusOf(err), res)
			return
		}

		if len(result.Cohorts) == 0 && len(result.Failures) > 0 {
			util.WithBodyAndStatus(result, http.StatusUnprocessableEntity, res)
			return
		}

		if format == formatXLSX {
			writeWorkbook(res, result)
			return
		}
		util.WithBodyAndStatus(result, http.StatusOK, res)
	}
}

func writeWorkbook(res http.ResponseWriter, result *Result) {
	buf, err := report.WriteWorkbook(result.Cohorts)
	if err != nil {
		log.WithError(err).Error("Unable to build report workbook")
		util.WithError(err, http.StatusInternalServerError, res)
		return
	}
	res.Header().Set("Content-Type", xlsxContentType)
	res.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reportFilename))
	res.Header().Set("X-Run-Id", result.RunID.String())
	res.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(res); err != nil {
		log.WithError(err).Error("Failed to write report workbook")
	}
}

func statusOf(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.status
	}
	if errors.Is(err, ErrInvalidWorkingDays) {
		return http.StatusBadRequest
	}
	var missingColumn *sheet.MissingColumnError
	var missingSheet *exemption.MissingSheetError
	var layout *biometric.LayoutMismatchError
	var dateRange *calendar.DateRangeParseError
	switch {
	case errors.As(err, &missingColumn),
		errors.As(err, &missingSheet),
		errors.As(err, &layout),
		errors.As(err, &dateRange),
		errors.Is(err, sheet.ErrUnsupportedFormat):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func parseFormat(req *http.Request) (string, error) {
	format := strings.ToLower(strings.TrimSpace(req.FormValue("format")))
	switch format {
	case "", formatJSON:
		return formatJSON, nil
	case formatXLSX:
		return formatXLSX, nil
	}
	return "", badRequest("unsupported format %q, expected json or xlsx", format)
}

func parseParams(req *http.Request) (Params, error) {
	p := Params{
		MiscHolidays:    req.FormValue("misc_holidays"),
		MiscWorkingDays: req.FormValue("misc_working_days"),
	}
	if raw := strings.TrimSpace(req.FormValue("working_days")); raw != "" {
		wd, err := strconv.Atoi(raw)
		if err != nil {
			return p, badRequest("invalid working_days %q", raw)
		}
		if wd != 0 && (wd < 1 || wd > 31) {
			return p, badRequest("%v: got %v", ErrInvalidWorkingDays, wd)
		}
		p.WorkingDays = wd
	}
	if raw := strings.TrimSpace(req.FormValue("reference_year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 1900 {
			return p, badRequest("invalid reference_year %q", raw)
		}
		p.ReferenceYear = year
	}
	return p, nil
}

func parseReconcileRequest(req *http.Request, opts UploadOptions) (*ReconcileRequest, error) {
	params, err := parseParams(req)
	if err != nil {
		return nil, err
	}
	u := uploader{req: req, archiveDir: opts.ArchiveDir, stamp: time.Now().Format("20060102T150405")}

	out := &ReconcileRequest{Params: params}
	for _, cohort := range opts.Cohorts {
		field := strings.ToLower(cohort)
		wb, filename, err := u.read(field, true)
		if err != nil {
			return nil, err
		}
		layout := biometric.DefaultLayout
		if strings.EqualFold(filepath.Ext(filename), ".csv") {
			layout = biometric.CSVLayout
		}
		out.Cohorts = append(out.Cohorts, CohortInput{Name: cohort, Table: firstSheet(wb), Layout: layout})
	}

	ledger, _, err := u.read(fieldLeave, true)
	if err != nil {
		return nil, err
	}
	out.Ledger = firstSheet(ledger)

	exempted, _, err := u.read(fieldExempted, true)
	if err != nil {
		return nil, err
	}
	out.Exemptions = exempted

	dir, filename, err := u.read(fieldDirectory, false)
	if err != nil {
		return nil, err
	}
	if filename != "" {
		out.Directory = directory.TableSource{Table: firstSheet(dir)}
	}
	return out, nil
}

type uploader struct {
	req        *http.Request
	archiveDir string
	stamp      string
}

// read loads one uploaded form file. A missing optional file yields an empty filename.
func (u uploader) read(field string, required bool) (sheet.Workbook, string, error) {
	contextLogger := log.WithContext(u.req.Context()).WithField("field", field)

	file, fileHeader, err := u.req.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) && !required {
		return sheet.Workbook{}, "", nil
	}
	if err != nil {
		contextLogger.WithError(err).Error("Failed to get the file from request")
		return sheet.Workbook{}, "", badRequest("missing upload %q", field)
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xlsx" && ext != ".csv" {
		return sheet.Workbook{}, "", badRequest("upload %q must be .xlsx or .csv, got %q", field, fileHeader.Filename)
	}

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, file); err != nil {
		contextLogger.WithError(err).Error("Failed to copy file contents to buffer")
		return sheet.Workbook{}, "", err
	}

	if err := u.archive(field, ext, buf.Bytes()); err != nil {
		return sheet.Workbook{}, "", err
	}

	wb, err := sheet.Read(fileHeader.Filename, bytes.NewReader(buf.Bytes()))
	if err != nil {
		contextLogger.WithError(err).Error("Unable to read the uploaded file")
		return sheet.Workbook{}, "", unprocessable(fmt.Errorf("upload %q: %w", field, err))
	}
	if _, ok := wb.First(); !ok {
		return sheet.Workbook{}, "", unprocessable(fmt.Errorf("upload %q has no sheets", field))
	}
	return wb, fileHeader.Filename, nil
}

func firstSheet(wb sheet.Workbook) sheet.Table {
	t, _ := wb.First()
	return t
}

// archive validates xlsx uploads and, when an archive directory is configured, keeps a
// copy of every upload.
func (u uploader) archive(field, ext string, data []byte) error {
	contextLogger := log.WithContext(u.req.Context()).WithField("field", field)
	target := filepath.Join(u.archiveDir, fmt.Sprintf("%s_%s%s", u.stamp, field, ext))

	if ext == ".csv" {
		if u.archiveDir == "" {
			return nil
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			contextLogger.WithError(err).Error("Failed to save upload to disk")
			return err
		}
		return nil
	}

	excelFile, err := xlsx.OpenBinary(data)
	if err != nil {
		contextLogger.WithError(err).Error("Failed to convert bytes to excel file")
		return unprocessable(fmt.Errorf("upload %q is not a valid xlsx workbook: %w", field, err))
	}
	if u.archiveDir == "" {
		return nil
	}
	if err := excelFile.Save(target); err != nil {
		contextLogger.WithError(err).Error("Failed to save excel file to disk")
		return err
	}
	return nil
}
