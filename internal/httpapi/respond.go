package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/redbuilds/storefront/internal/validate"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// respondFieldErrors reports every failed field at once so the client can
// flag them all in a single pass.
func respondFieldErrors(w http.ResponseWriter, errs validate.FieldErrors) {
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		if _, ok := fields[fe.Field]; !ok {
			fields[fe.Field] = fe.Err.Error()
		}
	}
	respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Error:  "validation failed",
		Code:   "validation_failed",
		Fields: fields,
	})
}
