package internal

import (
	"context"
	"net/http"

	"github.com/gcu-hr/attendance-reconciler/internal/config"
)

type AttendanceHandler interface {
	Reconcile(ctx context.Context, req ReconcileRequest) (*Result, error)
}

// UploadOptions configures which form files the reconcile route expects.
type UploadOptions struct {
	Cohorts    []string
	ArchiveDir string
}

func Route(attendanceHandler AttendanceHandler, opts UploadOptions) (route config.Route) {
	route = config.Route{
		Path:    "/attendance/reconcile",
		Method:  http.MethodPost,
		Handler: Handler(attendanceHandler, opts),
	}

	return route
}
