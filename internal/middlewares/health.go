package middlewares

import (
	"net/http"

	"github.com/gcu-hr/attendance-reconciler/internal/util"
)

// HealthStatus is the body of the health check.
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

//RuntimeHealthCheck reports the service as up together with the deployed version
func RuntimeHealthCheck(version string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		util.WithBodyAndStatus(HealthStatus{Status: "All OK", Version: version}, http.StatusOK, w)
	}
}
