package service

import (
	"context"

	"rsvp-relay/internal/domain"
)

// MailRelay forwards notifications to the mail webhook
type MailRelay interface {
	// Relay delivers notification. The error is non-nil only when no HTTP
	// response could be obtained.
	Relay(ctx context.Context, notification *domain.Notification, requestID string) (domain.RelayOutcome, error)
}
