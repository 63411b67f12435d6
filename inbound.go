package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HandleIncomingEvent decodes an externally supplied event envelope and
// schedules its redelivery to local handlers. The body may be raw JSON text
// (string, []byte, or json.RawMessage), an Envelope, or a generic
// map[string]any in the envelope shape.
//
// A decode failure is routed to the error handler under EventDecodeError
// and returned to the caller. On success the call returns immediately;
// local handlers run after it returns, and any handler error is reported to
// the error handler only, since no caller is left to receive it.
//
// Inbound events are delivered to local handlers exclusively. They never
// consult the target registry and never re-fan-out to remote targets.
func (d *Dispatcher) HandleIncomingEvent(body any) error {
	env, err := decodeEnvelope(body)
	if err != nil {
		d.reportError(err, EventDecodeError, body)
		return err
	}

	go d.redeliver(env)
	return nil
}

func (d *Dispatcher) redeliver(env Envelope) {
	for _, err := range d.notifier.Publish(context.Background(), env.EventName, env.Data) {
		d.reportError(err, env.EventName, env.Data)
	}
}

func decodeEnvelope(body any) (Envelope, error) {
	switch b := body.(type) {
	case Envelope:
		return b, nil
	case *Envelope:
		if b == nil {
			return Envelope{}, fmt.Errorf("%w: nil envelope", ErrInvalidEnvelope)
		}
		return *b, nil
	case string:
		return unmarshalEnvelope([]byte(b))
	case []byte:
		return unmarshalEnvelope(b)
	case json.RawMessage:
		return unmarshalEnvelope(b)
	case map[string]any:
		name, _ := b["eventName"].(string)
		if name == "" {
			return Envelope{}, fmt.Errorf("%w: missing eventName", ErrInvalidEnvelope)
		}
		return Envelope{EventName: name, Data: b["data"]}, nil
	default:
		return Envelope{}, fmt.Errorf("%w: unsupported body type %T", ErrInvalidEnvelope, body)
	}
}

func unmarshalEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %w", ErrInvalidEnvelope, err)
	}
	return env, nil
}

// invalidFormatBody is the fixed 400 response body for malformed inbound
// payloads.
const invalidFormatBody = `{"error": "Invalid event format"}`

// Middleware returns a net/http middleware that intercepts POST requests
// and feeds their bodies through HandleIncomingEvent. Non-POST requests
// pass through to the next handler unchanged. A decoded envelope is
// answered with 202 and an empty body; a malformed one with 400 and a JSON
// error body.
func (d *Dispatcher) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			d.serveIncoming(w, r)
		})
	}
}

// HandlerFunc returns a terminal handler for mounting the inbound path on
// an exact route. Unlike Middleware it has no next handler, so non-POST
// requests are answered with 405.
func (d *Dispatcher) HandlerFunc() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		d.serveIncoming(w, r)
	}
}

func (d *Dispatcher) serveIncoming(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		d.reportError(err, EventDecodeError, nil)
	} else {
		err = d.HandleIncomingEvent(body)
	}

	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(invalidFormatBody))
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading request body: %w", ErrInvalidEnvelope, err)
	}
	return body, nil
}
