package notification

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/halmarket/backend/internal/domain/notification"
	"go.uber.org/zap"
)

// HTTPTransport delivers notification payloads by POSTing them to the
// regulatory endpoint. Any non-2xx response counts as a failed attempt.
type HTTPTransport struct {
	client   *http.Client
	endpoint string
	logger   *zap.Logger
}

// NewHTTPTransport creates a new HTTPTransport
func NewHTTPTransport(endpoint string, timeout time.Duration, logger *zap.Logger) *HTTPTransport {
	return &HTTPTransport{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
		logger:   logger,
	}
}

var _ Transport = (*HTTPTransport)(nil)

// Deliver posts one notification payload to the endpoint
func (t *HTTPTransport) Deliver(ctx context.Context, n *notification.Notification) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(n.Payload))
	if err != nil {
		return fmt.Errorf("building notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Document-Number", n.DocumentNumber)
	req.Header.Set("X-Idempotency-Key", n.DocumentID.String())

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("delivering notification: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification endpoint returned %d", resp.StatusCode)
	}

	t.logger.Debug("notification posted",
		zap.String("document_number", n.DocumentNumber),
		zap.Int("status", resp.StatusCode),
	)
	return nil
}
