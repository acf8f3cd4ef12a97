package handler

import (
	"encoding/json"
	"net/http"

	"rsvp-relay/pkg/errors"
	"rsvp-relay/pkg/logger"
)

// respondJSON writes an uncacheable JSON body
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes the public part of appErr and logs the rest
func respondError(w http.ResponseWriter, appErr *errors.AppError, log *logger.Logger) {
	entry := log.WithFields(map[string]interface{}{
		"error_type": appErr.Type,
		"status":     appErr.StatusCode,
	})
	for key, value := range appErr.Details {
		entry = entry.WithField(key, value)
	}
	if appErr.Internal != nil {
		entry = entry.WithError(appErr.Internal)
	}

	switch {
	case appErr.StatusCode >= http.StatusInternalServerError:
		entry.Error(appErr.Message)
	case appErr.Type == errors.ErrorTypeRateLimit:
		entry.Info(appErr.Message)
	default:
		entry.Debug(appErr.Message)
	}

	respondJSON(w, appErr.StatusCode, appErr.Response())
}
