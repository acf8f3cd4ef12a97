package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rsvp-relay/internal/domain"
	"rsvp-relay/pkg/logger"
)

const (
	headerSharedSecret = "x-shared-secret"
	headerRequestID    = "x-request-id"

	maxRelayBodyBytes = 64 << 10
	maxLoggedBodyLen  = 400
	relayTimeout      = 10 * time.Second
)

// RetryPolicy decides which webhook failures are retried and how long to
// wait before the next attempt.
type RetryPolicy struct {
	MaxAttempts int
	Retryable   func(status int) bool
	Backoff     func(attempt int) time.Duration
}

// DefaultRetryPolicy allows two attempts with a 400ms linear backoff on
// throttling and gateway errors.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 2,
		Retryable: func(status int) bool {
			switch status {
			case http.StatusTooManyRequests,
				http.StatusInternalServerError,
				http.StatusBadGateway,
				http.StatusServiceUnavailable,
				http.StatusGatewayTimeout:
				return true
			}
			return false
		},
		Backoff: func(attempt int) time.Duration {
			return 400 * time.Millisecond * time.Duration(attempt)
		},
	}
}

// ShouldRetry reports whether a failed attempt (1-based) gets another try
func (p RetryPolicy) ShouldRetry(status, attempt int) bool {
	return attempt < p.MaxAttempts && p.Retryable != nil && p.Retryable(status)
}

// Sleeper waits for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WebhookRelay posts notifications to the mail relay webhook
type WebhookRelay struct {
	webhookURL   string
	sharedSecret string
	httpClient   *http.Client
	policy       RetryPolicy
	sleep        Sleeper
	logger       *logger.Logger
}

// WebhookRelayOption customizes a WebhookRelay
type WebhookRelayOption func(*WebhookRelay)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(client *http.Client) WebhookRelayOption {
	return func(r *WebhookRelay) {
		r.httpClient = client
	}
}

// WithRetryPolicy replaces the default retry policy
func WithRetryPolicy(policy RetryPolicy) WebhookRelayOption {
	return func(r *WebhookRelay) {
		r.policy = policy
	}
}

// WithSleeper replaces the backoff wait, mainly for tests
func WithSleeper(sleep Sleeper) WebhookRelayOption {
	return func(r *WebhookRelay) {
		r.sleep = sleep
	}
}

// NewWebhookRelay creates a relay client for the given webhook
func NewWebhookRelay(webhookURL, sharedSecret string, logger *logger.Logger, opts ...WebhookRelayOption) *WebhookRelay {
	r := &WebhookRelay{
		webhookURL:   webhookURL,
		sharedSecret: sharedSecret,
		httpClient: &http.Client{
			Timeout: relayTimeout,
		},
		policy: DefaultRetryPolicy(),
		sleep:  sleepContext,
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Relay delivers the notification. A returned error means no HTTP response
// was obtained; every answered attempt ends in an outcome instead.
func (r *WebhookRelay) Relay(ctx context.Context, notification *domain.Notification, requestID string) (domain.RelayOutcome, error) {
	payload, err := json.Marshal(notification)
	if err != nil {
		return domain.RelayOutcome{Status: domain.RelayFailed}, fmt.Errorf("failed to marshal notification: %w", err)
	}

	log := r.logger.WithRequestID(requestID)

	for attempt := 1; ; attempt++ {
		status, body, err := r.post(ctx, payload, requestID)
		if err != nil {
			return domain.RelayOutcome{Status: domain.RelayFailed, Attempts: attempt}, err
		}

		if status >= 200 && status < 300 {
			log.WithFields(map[string]interface{}{
				"status":   status,
				"attempts": attempt,
			}).Debug("Notification delivered")
			return domain.RelayOutcome{Status: domain.RelayDelivered, HTTPStatus: status, Attempts: attempt}, nil
		}

		// The relay's upstream timed out after accepting the message
		if status == http.StatusBadGateway && strings.Contains(strings.ToLower(body), "noresponse") {
			log.WithFields(map[string]interface{}{
				"status":   status,
				"attempts": attempt,
			}).Warn("Webhook upstream did not respond, assuming delivery")
			return domain.RelayOutcome{Status: domain.RelayAssumedDelivered, HTTPStatus: status, Attempts: attempt}, nil
		}

		if !r.policy.ShouldRetry(status, attempt) {
			return domain.RelayOutcome{
				Status:     domain.RelayFailed,
				HTTPStatus: status,
				Body:       body,
				Attempts:   attempt,
			}, nil
		}

		wait := r.policy.Backoff(attempt)
		log.WithFields(map[string]interface{}{
			"status":  status,
			"attempt": attempt,
			"backoff": wait.String(),
			"body":    truncate(body, maxLoggedBodyLen),
		}).Warn("Webhook call failed, retrying")

		if err := r.sleep(ctx, wait); err != nil {
			return domain.RelayOutcome{Status: domain.RelayFailed, HTTPStatus: status, Body: body, Attempts: attempt}, err
		}
	}
}

// post performs a single attempt and returns the status and (bounded) body
func (r *WebhookRelay) post(ctx context.Context, payload []byte, requestID string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return 0, "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerSharedSecret, r.sharedSecret)
	req.Header.Set(headerRequestID, requestID)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("failed to call mail webhook: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRelayBodyBytes))
	if err != nil {
		return 0, "", fmt.Errorf("failed to read webhook response: %w", err)
	}

	return resp.StatusCode, string(body), nil
}

// truncate shortens s to at most n characters
func truncate(s string, n int) string {
	if runes := []rune(s); len(runes) > n {
		return string(runes[:n])
	}
	return s
}
