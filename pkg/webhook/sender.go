package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// maxDrainBytes caps how much of a response body is read before reuse of the
// underlying connection is given up on.
const maxDrainBytes = 64 << 10

// Sender delivers JSON payloads to remote endpoints via HTTP POST.
// It is stateless and safe for concurrent use.
type Sender struct {
	client *http.Client
	logger *slog.Logger
}

// SenderOption configures a Sender.
type SenderOption func(*Sender)

// WithHTTPClient sets the HTTP client used for deliveries. Use this to
// configure timeouts, proxies, or transport-level settings.
func WithHTTPClient(client *http.Client) SenderOption {
	return func(s *Sender) {
		if client != nil {
			s.client = client
		}
	}
}

// WithLogger configures structured logging for the sender.
// Use slog.New(slog.NewTextHandler(io.Discard, nil)) to disable logging.
func WithLogger(logger *slog.Logger) SenderOption {
	return func(s *Sender) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSender creates a webhook sender with the given options.
func NewSender(opts ...SenderOption) *Sender {
	s := &Sender{
		client: http.DefaultClient,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Send posts body to url with Content-Type: application/json merged under
// the supplied headers (caller headers win, including the content type).
// A 2xx response is success; any other outcome is returned as an error
// wrapping ErrPermanentFailure or ErrTemporaryFailure.
func (s *Sender) Send(ctx context.Context, url string, body []byte, headers map[string]string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: building request: %w", ErrPermanentFailure, err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.DebugContext(ctx, "webhook transport failure",
			slog.String("url", url),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", ErrTemporaryFailure, err)
	}
	defer resp.Body.Close()

	// Drain so the transport can reuse the connection.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		s.logger.DebugContext(ctx, "webhook delivered",
			slog.String("url", url),
			slog.Int("status_code", resp.StatusCode))
		return nil
	}

	statusErr := &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	s.logger.DebugContext(ctx, "webhook rejected",
		slog.String("url", url),
		slog.Int("status_code", resp.StatusCode))

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: %w", ErrTemporaryFailure, statusErr)
	}
	return fmt.Errorf("%w: %w", ErrPermanentFailure, statusErr)
}
