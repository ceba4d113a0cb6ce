package worker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Status classifies the result of one delivery attempt.
type Status int

const (
	// StatusDelivered means the endpoint accepted the event (200 or 202).
	StatusDelivered Status = iota
	// StatusRejected means the endpoint responded with any other status.
	StatusRejected
	// StatusTransportError means the request never got a response:
	// connection refused, DNS failure, timeout, protocol error.
	StatusTransportError
)

func (s Status) String() string {
	switch s {
	case StatusDelivered:
		return "delivered"
	case StatusRejected:
		return "rejected"
	case StatusTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Outcome is the explicit result of a delivery attempt. Transport faults are
// carried here as a value, never raised to the caller.
type Outcome struct {
	Status Status
	Reason string
}

func (o Outcome) Delivered() bool {
	return o.Status == StatusDelivered
}

// Deliverer performs single synchronous HTTP deliveries of serialized events
// to one configured endpoint. It has no store access; callers decide what to
// do with the Outcome.
type Deliverer struct {
	httpClient *http.Client
	endpoint   string
	logger     *slog.Logger
}

// NewDeliverer creates a deliverer with a configured HTTP client.
func NewDeliverer(endpoint string, timeout time.Duration, logger *slog.Logger) *Deliverer {
	return &Deliverer{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		endpoint: endpoint,
		logger:   logger,
	}
}

// Deliver POSTs the payload to the endpoint and classifies the result.
func (d *Deliverer) Deliver(ctx context.Context, payload []byte) Outcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Outcome{Status: StatusTransportError, Reason: fmt.Sprintf("building request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return Outcome{Status: StatusTransportError, Reason: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	// Read response body (limit to 1KB to prevent memory issues)
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted:
		d.logger.Debug("delivery accepted", "status_code", resp.StatusCode)
		return Outcome{Status: StatusDelivered}
	default:
		d.logger.Debug("delivery rejected", "status_code", resp.StatusCode)
		return Outcome{
			Status: StatusRejected,
			Reason: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}
}
