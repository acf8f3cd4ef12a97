package handler

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"rsvp-relay/internal/config"
	"rsvp-relay/internal/container"
	"rsvp-relay/internal/domain"
	"rsvp-relay/internal/middleware"
	"rsvp-relay/internal/service"
	"rsvp-relay/pkg/errors"
	"rsvp-relay/pkg/logger"
)

const (
	maxRequestBodyBytes = 16 << 10
	maxClientIDLength   = 120
	unknownClientID     = "unknown"

	// Covers both relay attempts and the backoff in between
	relayDeadline = 25 * time.Second
)

// Public failure messages of POST /api/response
const (
	MsgBodyNotObject    = "Request body must be a JSON object"
	MsgTooManyRequests  = "Too many requests. Try again shortly."
	MsgNotConfigured    = "Server not configured for mail forwarding"
	MsgForwardingFailed = "Mail forwarding failed"
)

// ResponseHandler accepts RSVP submissions and forwards them by mail
type ResponseHandler struct {
	config  *config.Config
	limiter service.RateLimiter
	relay   service.MailRelay
	logger  *logger.Logger
}

// NewResponseHandler creates a new response handler
func NewResponseHandler(container *container.Container) *ResponseHandler {
	return &ResponseHandler{
		config:  container.GetConfig(),
		limiter: container.RateLimiter,
		relay:   container.MailRelay,
		logger:  container.GetLogger(),
	}
}

// Submit handles POST /api/response
func (h *ResponseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	log := h.logger.WithRequestID(requestID)

	raw, ok := decodeObject(w, r)
	if !ok {
		respondError(w, errors.NewBadRequestError(MsgBodyNotObject), log)
		return
	}

	clientID := clientIdentifier(r)
	rejected, err := h.limiter.CheckAndRecord(r.Context(), clientID)
	if err != nil {
		log.WithError(err).Warn("Rate limiter unavailable, admitting request")
	} else if rejected {
		respondError(w, errors.NewRateLimitError(MsgTooManyRequests), log)
		return
	}

	submission, err := service.Validate(raw)
	if err != nil {
		var appErr *errors.AppError
		if !stderrors.As(err, &appErr) {
			appErr = errors.NewInternalError(middleware.MsgUnexpectedError, err)
		}
		respondError(w, appErr, log)
		return
	}

	if missing := h.config.MissingMailSettings(); len(missing) > 0 {
		respondError(w, errors.NewConfigurationError(MsgNotConfigured,
			fmt.Errorf("missing settings: %s", strings.Join(missing, ", "))), log)
		return
	}

	notification, err := service.BuildNotification(submission, h.config.TargetEmail)
	if err != nil {
		respondError(w, errors.NewInternalError(middleware.MsgUnexpectedError, err), log)
		return
	}

	// A client that hangs up must not abort a delivery already under way
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), relayDeadline)
	defer cancel()

	outcome, err := h.relay.Relay(ctx, notification, requestID)
	if err != nil {
		respondError(w, errors.NewInternalError(middleware.MsgUnexpectedError, err), log)
		return
	}

	if !outcome.Accepted() {
		respondError(w, errors.NewRelayError(MsgForwardingFailed,
			fmt.Errorf("webhook answered %d", outcome.HTTPStatus),
			map[string]interface{}{
				"upstream_status": outcome.HTTPStatus,
				"upstream_body":   truncate(outcome.Body, 400),
				"attempts":        outcome.Attempts,
			}), log)
		return
	}

	log.WithFields(map[string]interface{}{
		"choice_type": submission.ChoiceType,
		"relay":       outcome.Status.String(),
		"attempts":    outcome.Attempts,
	}).Info("Response forwarded")

	respondJSON(w, http.StatusOK, domain.SubmitResponse{
		OK:        true,
		Message:   domain.MessageSavedAndNotified,
		RequestID: requestID,
	})
}

// decodeObject reads a bounded body that must hold exactly one JSON object
func decodeObject(w http.ResponseWriter, r *http.Request) (map[string]interface{}, bool) {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))

	var body interface{}
	if err := decoder.Decode(&body); err != nil {
		return nil, false
	}
	if err := decoder.Decode(new(interface{})); err != io.EOF {
		return nil, false
	}
	raw, ok := body.(map[string]interface{})
	return raw, ok
}

// clientIdentifier prefers the first proxy hop over the socket address
func clientIdentifier(r *http.Request) string {
	candidate := ""
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		candidate = strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if candidate == "" {
		candidate = r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			candidate = host
		}
	}

	if id := service.NormalizeText(candidate, maxClientIDLength); id != "" {
		return id
	}
	return unknownClientID
}

func truncate(s string, n int) string {
	if runes := []rune(s); len(runes) > n {
		return string(runes[:n])
	}
	return s
}
