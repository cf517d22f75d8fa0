package config

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	log "github.com/sirupsen/logrus"

	"github.com/gcu-hr/attendance-reconciler/internal/attendance"
	"github.com/gcu-hr/attendance-reconciler/internal/customhttp"
	"github.com/gcu-hr/attendance-reconciler/internal/directory"
	"github.com/gcu-hr/attendance-reconciler/internal/notify"
)

const userAgent = "attendance-reconciler"

type ApplicationConfig struct {
	envValues       *envConfig
	classifier      *attendance.Classifier
	directorySource directory.Source
	mailer          *notify.SESMailer
}

//Version returns application version
func (cfg *ApplicationConfig) Version() string {
	return cfg.envValues.Version
}

//ServerPort returns the port no to listen for requests
func (cfg *ApplicationConfig) ServerPort() int {
	return cfg.envValues.ServerPort
}

//LogLevel returns the configured logrus level name
func (cfg *ApplicationConfig) LogLevel() string {
	return cfg.envValues.LogLevel
}

//Cohorts returns the cohort names, each expected as an upload field
func (cfg *ApplicationConfig) Cohorts() []string {
	return cfg.envValues.Cohorts
}

//Classifier returns the day classifier with the late allowlist applied
func (cfg *ApplicationConfig) Classifier() *attendance.Classifier {
	return cfg.classifier
}

//HolidayAbsentThreshold returns the missing clock-in ratio that marks a statistical holiday
func (cfg *ApplicationConfig) HolidayAbsentThreshold() float64 {
	return cfg.envValues.HolidayAbsentThreshold
}

//DirectorySource returns the HR directory client, nil when no endpoint is configured
func (cfg *ApplicationConfig) DirectorySource() directory.Source {
	return cfg.directorySource
}

//UploadArchiveDir returns the directory uploads are archived to
func (cfg *ApplicationConfig) UploadArchiveDir() string {
	return cfg.envValues.UploadArchiveDir
}

//Mailer returns the report mailer, nil when no recipients are configured
func (cfg *ApplicationConfig) Mailer() *notify.SESMailer {
	return cfg.mailer
}

//NewApplicationConfig loads config values from environment and initialises config
func NewApplicationConfig() (*ApplicationConfig, error) {
	envValues := NewEnvironmentConfig()
	if len(envValues.Cohorts) == 0 {
		return nil, fmt.Errorf("COHORTS must name at least one cohort")
	}
	if envValues.HolidayAbsentThreshold <= 0 || envValues.HolidayAbsentThreshold > 1 {
		return nil, fmt.Errorf("HOLIDAY_ABSENT_THRESHOLD must be in (0, 1], got %v", envValues.HolidayAbsentThreshold)
	}

	cfg := &ApplicationConfig{
		envValues:  envValues,
		classifier: attendance.NewClassifier(attendance.DefaultThresholds(), envValues.LateAllowedIDs),
	}

	if envValues.DirectoryEndpoint != "" {
		cfg.directorySource = directory.NewClient(envValues.DirectoryEndpoint, NewHTTPCommand())
	}

	if envValues.EmailTo != "" {
		sess, err := session.NewSession(aws.NewConfig().WithRegion(envValues.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("unable to create aws session: %w", err)
		}
		cfg.mailer = notify.NewSESMailer(ses.New(sess), envValues.EmailTo, envValues.EmailFrom)
	} else {
		log.Info("EMAIL_TO not set, report emails disabled")
	}
	return cfg, nil
}

// NewHTTPCommand returns the HTTP client
func NewHTTPCommand() customhttp.HTTPCommand {
	httpCommand := customhttp.New(
		customhttp.WithHTTPClient(&http.Client{Timeout: 5 * time.Second}),
		customhttp.WithUserAgent(userAgent),
		customhttp.WithRequestLogging(),
	).Build()

	return httpCommand
}
