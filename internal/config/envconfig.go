package config

import (
	"os"
	"strconv"
	"strings"
)

type envConfig struct {
	LogLevel               string
	ServerPort             int
	Version                string
	Cohorts                []string
	LateAllowedIDs         []string
	HolidayAbsentThreshold float64
	DirectoryEndpoint      string
	UploadArchiveDir       string
	EmailTo                string
	EmailFrom              string
	AWSRegion              string
}

var defaultLateAllowedIDs = []string{"GCU010013", "GCU010017", "GCU010025", "GCU030010", "GCU010005", "GCU020004"}

func NewEnvironmentConfig() *envConfig {
	return &envConfig{
		LogLevel:               getEnvString("LOG_LEVEL", "INFO"),
		ServerPort:             getEnvInt("SERVER_PORT", 0),
		Version:                getEnvString("VERSION", ""),
		Cohorts:                getEnvList("COHORTS", []string{"Faculty", "Admin"}),
		LateAllowedIDs:         getEnvList("LATE_ALLOWED_IDS", defaultLateAllowedIDs),
		HolidayAbsentThreshold: getEnvFloat("HOLIDAY_ABSENT_THRESHOLD", 0.9),
		DirectoryEndpoint:      getEnvString("DIRECTORY_ENDPOINT", ""),
		UploadArchiveDir:       getEnvString("UPLOAD_ARCHIVE_DIR", ""),
		EmailTo:                getEnvString("EMAIL_TO", ""),
		EmailFrom:              getEnvString("EMAIL_FROM", ""),
		AWSRegion:              getEnvString("AWS_REGION", "ap-south-1"),
	}
}

// helper function to read an environment or return a default value
func getEnvString(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

// helper function to read an environment or return a default value
func getEnvInt(key string, defaultVal int) int {
	val, err := strconv.Atoi(getEnvString(key, strconv.Itoa(defaultVal)))
	if err == nil {
		return val
	}

	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	val, err := strconv.ParseFloat(getEnvString(key, ""), 64)
	if err == nil {
		return val
	}

	return defaultVal
}

// getEnvList splits a comma separated value, dropping blanks
func getEnvList(key string, defaultVal []string) []string {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
