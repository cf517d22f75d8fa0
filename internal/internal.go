package internal

import (
	"fmt"
	"net/http"

	"github.com/gcu-hr/attendance-reconciler/internal/attendance"
	"github.com/gcu-hr/attendance-reconciler/internal/config"
	"github.com/gcu-hr/attendance-reconciler/internal/directory"
	"github.com/gcu-hr/attendance-reconciler/internal/middlewares"
	"github.com/gcu-hr/attendance-reconciler/internal/notify"
)

//StatusRoute health check route
func StatusRoute(version string) (route config.Route) {
	route = config.Route{
		Path:    "/health",
		Method:  http.MethodGet,
		Handler: middlewares.RuntimeHealthCheck(version),
	}
	return route
}

type ServerConfig interface {
	Version() string
	Cohorts() []string
	Classifier() *attendance.Classifier
	HolidayAbsentThreshold() float64
	DirectorySource() directory.Source
	UploadArchiveDir() string
	Mailer() *notify.SESMailer
}

func SetupServer(cfg ServerConfig) *config.Server {
	basePath := fmt.Sprintf("/%v", cfg.Version())
	var mailer Mailer
	if m := cfg.Mailer(); m != nil {
		mailer = m
	}
	service := NewService(cfg.Classifier(), cfg.HolidayAbsentThreshold(), cfg.DirectorySource(), mailer)
	server := config.NewServer().
		WithRoutes(
			"", StatusRoute(cfg.Version()),
		).
		WithRoutes(
			basePath,
			Route(service, UploadOptions{Cohorts: cfg.Cohorts(), ArchiveDir: cfg.UploadArchiveDir()}),
		)
	return server
}
