// Package webhook provides best-effort HTTP webhook delivery.
//
// The package posts pre-marshaled JSON payloads to remote endpoints and
// classifies failures so callers can distinguish endpoint bugs from
// transient conditions. Delivery is at-most-once: there are no retries, no
// backoff, and no durable queue. The dispatcher layered on top aggregates
// outcomes instead.
//
// # Basic Usage
//
//	sender := webhook.NewSender()
//
//	payload, _ := json.Marshal(map[string]any{"eventName": "user.created", "data": user})
//
//	err := sender.Send(ctx, "https://api.example.com/hooks", payload, map[string]string{
//	    "Authorization": "Bearer " + token,
//	})
//
// Every request carries Content-Type: application/json unless the caller's
// headers override it.
//
// # Error Types
//
//   - ErrPermanentFailure: 4xx HTTP status or a request that cannot be built
//   - ErrTemporaryFailure: network error or 5xx HTTP status
//
// HTTP failures additionally wrap a *StatusError exposing the status code
// and status text:
//
//	var se *webhook.StatusError
//	if errors.As(err, &se) {
//	    log.Printf("endpoint answered %d", se.StatusCode)
//	}
//
// # Timeouts
//
// The default client has no timeout: a hanging endpoint hangs its own
// delivery. Callers needing bounded deliveries pass a configured client:
//
//	sender := webhook.NewSender(webhook.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}))
package webhook
