package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"rsvp-relay/pkg/errors"
	"rsvp-relay/pkg/logger"
)

// MsgUnexpectedError is the public message of every unhandled failure
const MsgUnexpectedError = "Unexpected server error"

// Recoverer turns a panicking handler into a JSON 500
func Recoverer(logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				appErr := errors.NewInternalError(MsgUnexpectedError, fmt.Errorf("panic: %v", rec))
				logger.WithRequestID(GetRequestID(r.Context())).
					WithError(appErr).
					WithField("stack", string(debug.Stack())).
					Error("Recovered from panic")

				writeErrorResponse(w, appErr)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// writeErrorResponse writes an error response to the client
func writeErrorResponse(w http.ResponseWriter, appErr *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(appErr.StatusCode)
	_ = json.NewEncoder(w).Encode(appErr.Response())
}
