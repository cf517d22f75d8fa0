package util

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// WithBodyAndStatus writes body as JSON with the given status.
func WithBodyAndStatus(body interface{}, status int, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("Failed to write response body")
	}
}

// ErrorBody is the JSON shape of a failed request.
type ErrorBody struct {
	Error string `json:"error"`
}

// WithError writes err as an ErrorBody.
func WithError(err error, status int, w http.ResponseWriter) {
	WithBodyAndStatus(ErrorBody{Error: err.Error()}, status, w)
}
