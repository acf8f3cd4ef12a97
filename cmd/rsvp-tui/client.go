package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"rsvp-relay/internal/domain"
)

const fallbackSubmitError = "Antwort konnte nicht uebermittelt werden."

// submitClient posts answers to the relay server
type submitClient struct {
	baseURL    string
	httpClient *http.Client
}

func newSubmitClient(baseURL string) *submitClient {
	return &submitClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Two relay attempts plus backoff fit comfortably
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Submit sends req and returns the server's correlation id. Errors carry the
// server's message when it sent one.
func (c *submitClient) Submit(ctx context.Context, req domain.SubmitRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/response", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%s (%w)", fallbackSubmitError, err)
	}
	defer resp.Body.Close()

	var body domain.SubmitResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || decodeErr != nil || !body.OK {
		if decodeErr == nil && body.Message != "" {
			return "", errors.New(body.Message)
		}
		return "", errors.New(fallbackSubmitError)
	}

	return body.RequestID, nil
}
