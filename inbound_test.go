package relay_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/relay"
)

// awaitTrue polls until the condition holds or the deadline passes. Inbound
// redelivery is scheduled after HandleIncomingEvent returns, so tests must
// wait for it.
func awaitTrue(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, time.Second, 5*time.Millisecond)
}

func TestDispatcher_HandleIncomingEvent(t *testing.T) {
	t.Parallel()

	t.Run("json text is decoded and redelivered to local handlers", func(t *testing.T) {
		t.Parallel()

		d := quietDispatcher()

		var got atomic.Value
		d.On("e", func(ctx context.Context, data any) error {
			got.Store(data)
			return nil
		})

		require.NoError(t, d.HandleIncomingEvent(`{"eventName":"e","data":{"k":1}}`))

		awaitTrue(t, func() bool { return got.Load() != nil })
		assert.Equal(t, map[string]any{"k": float64(1)}, got.Load())
	})

	t.Run("redelivery happens after the call returns", func(t *testing.T) {
		t.Parallel()

		d := quietDispatcher()

		var delivered atomic.Bool
		d.On("e", func(ctx context.Context, data any) error {
			delivered.Store(true)
			return nil
		})

		require.NoError(t, d.HandleIncomingEvent(relay.Envelope{EventName: "e"}))
		awaitTrue(t, delivered.Load)
	})

	t.Run("accepts structured envelopes and maps", func(t *testing.T) {
		t.Parallel()

		d := quietDispatcher()

		var count atomic.Int64
		d.On("e", func(ctx context.Context, data any) error {
			count.Add(1)
			return nil
		})

		require.NoError(t, d.HandleIncomingEvent(relay.Envelope{EventName: "e", Data: 1}))
		require.NoError(t, d.HandleIncomingEvent(&relay.Envelope{EventName: "e", Data: 2}))
		require.NoError(t, d.HandleIncomingEvent(map[string]any{"eventName": "e", "data": 3}))
		require.NoError(t, d.HandleIncomingEvent([]byte(`{"eventName":"e","data":4}`)))

		awaitTrue(t, func() bool { return count.Load() == 4 })
	})

	t.Run("malformed json is returned to the caller and reported under the marker event", func(t *testing.T) {
		t.Parallel()

		var markerEvent atomic.Value
		d := quietDispatcher(relay.WithErrorHandler(func(err error, eventName string, data any) {
			markerEvent.Store(eventName)
		}))

		err := d.HandleIncomingEvent("not json")
		require.Error(t, err)
		assert.ErrorIs(t, err, relay.ErrInvalidEnvelope)
		assert.Equal(t, relay.EventDecodeError, markerEvent.Load())
	})

	t.Run("handler error during redelivery is reported, not propagated", func(t *testing.T) {
		t.Parallel()

		var reported atomic.Int64
		d := quietDispatcher(relay.WithErrorHandler(func(err error, eventName string, data any) {
			reported.Add(1)
		}))

		d.On("e", func(ctx context.Context, data any) error { return assert.AnError })

		require.NoError(t, d.HandleIncomingEvent(`{"eventName":"e","data":null}`))
		awaitTrue(t, func() bool { return reported.Load() == 1 })
	})

	t.Run("inbound events never re-fan-out to remote targets", func(t *testing.T) {
		t.Parallel()

		srv, hits := countingServer(t, http.StatusOK)

		d := quietDispatcher()
		require.True(t, d.AddTarget(relay.Target{Name: "remote", URL: srv.URL, Events: []string{"e"}}))

		var delivered atomic.Bool
		d.On("e", func(ctx context.Context, data any) error {
			delivered.Store(true)
			return nil
		})

		require.NoError(t, d.HandleIncomingEvent(`{"eventName":"e","data":null}`))
		awaitTrue(t, delivered.Load)
		assert.Zero(t, hits.Load(), "inbound path must not consult the target registry")
	})

	t.Run("unsupported body type fails", func(t *testing.T) {
		t.Parallel()

		d := quietDispatcher()
		err := d.HandleIncomingEvent(42)
		assert.ErrorIs(t, err, relay.ErrInvalidEnvelope)
	})
}

func TestDispatcher_Middleware(t *testing.T) {
	t.Parallel()

	nextCalled := func() (http.Handler, *atomic.Bool) {
		var called atomic.Bool
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called.Store(true)
			w.WriteHeader(http.StatusTeapot)
		}), &called
	}

	t.Run("non-POST passes through unchanged", func(t *testing.T) {
		t.Parallel()

		d := quietDispatcher()
		next, called := nextCalled()
		h := d.Middleware()(next)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))

		assert.True(t, called.Load())
		assert.Equal(t, http.StatusTeapot, rec.Code)
	})

	t.Run("valid POST is accepted with 202 and empty body", func(t *testing.T) {
		t.Parallel()

		d := quietDispatcher()

		var delivered atomic.Bool
		d.On("e", func(ctx context.Context, data any) error {
			delivered.Store(true)
			return nil
		})

		next, called := nextCalled()
		h := d.Middleware()(next)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{"eventName":"e","data":{"k":1}}`))
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.False(t, called.Load(), "POST requests are terminal")
		awaitTrue(t, delivered.Load)
	})

	t.Run("malformed POST body yields 400 with fixed error body", func(t *testing.T) {
		t.Parallel()

		d := quietDispatcher()
		next, _ := nextCalled()
		h := d.Middleware()(next)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`not json`))
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error": "Invalid event format"}`, rec.Body.String())
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	})
}

func TestDispatcher_HandlerFunc(t *testing.T) {
	t.Parallel()

	t.Run("answers 405 for non-POST", func(t *testing.T) {
		t.Parallel()

		d := quietDispatcher()
		rec := httptest.NewRecorder()
		d.HandlerFunc().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
	})

	t.Run("accepts a valid envelope", func(t *testing.T) {
		t.Parallel()

		d := quietDispatcher()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{"eventName":"e","data":null}`))
		d.HandlerFunc().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusAccepted, rec.Code)
	})
}
