package relay

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/dmitrymomot/relay/core/notifier"
	"github.com/dmitrymomot/relay/pkg/webhook"
)

// Wildcard is the subscription entry that matches every event name.
const Wildcard = "*"

// EventDecodeError is the marker event name passed to the error handler
// when an inbound payload cannot be decoded.
const EventDecodeError = "relay.decode_error"

// Envelope is the wire format for events crossing process boundaries, in
// both directions.
type Envelope struct {
	EventName string `json:"eventName"`
	Data      any    `json:"data"`
}

// ErrorHandler observes every delivery and decode failure. It receives the
// error, the event name it occurred for (EventDecodeError for inbound parse
// failures), and the event payload when one is available.
type ErrorHandler func(err error, eventName string, data any)

// Dispatcher owns a target registry, a local notifier, and a webhook sender.
// Each Dispatcher is fully independent: registries are never shared between
// instances, and there is no package-level singleton.
//
// Registry mutation concurrent with an in-flight Emit is allowed but not
// isolated: the emit operates on the snapshot it resolved, which may be
// stale by the time deliveries complete.
type Dispatcher struct {
	mu      sync.RWMutex
	targets map[string]*Target
	order   []string

	notifier     *notifier.Notifier
	sender       *webhook.Sender
	errorHandler ErrorHandler
	logger       *slog.Logger
}

type config struct {
	maxListeners int
	errorHandler ErrorHandler
	logger       *slog.Logger
	httpClient   *http.Client
	sender       *webhook.Sender
}

// Option configures a Dispatcher.
type Option func(*config)

// WithMaxListeners sets the local notifier's per-event listener limit.
// Zero means unlimited; the default is notifier.DefaultMaxListeners.
func WithMaxListeners(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.maxListeners = n
		}
	}
}

// WithErrorHandler sets the function invoked for every delivery and decode
// failure. The default logs through the dispatcher's logger. The handler is
// invoked defensively: a panicking handler is recovered and logged rather
// than allowed to abort a dispatch.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *config) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithLogger configures structured logging. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient sets the HTTP client used for remote deliveries.
// Ignored when WithSender is also supplied.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithSender replaces the webhook sender used for remote deliveries.
func WithSender(sender *webhook.Sender) Option {
	return func(c *config) {
		if sender != nil {
			c.sender = sender
		}
	}
}

// New creates a Dispatcher with an empty registry.
func New(opts ...Option) *Dispatcher {
	cfg := config{
		maxListeners: notifier.DefaultMaxListeners,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	d := &Dispatcher{
		targets: make(map[string]*Target),
		logger:  cfg.logger,
	}

	d.notifier = notifier.New(
		notifier.WithMaxListeners(cfg.maxListeners),
		notifier.WithLogger(cfg.logger),
	)

	if cfg.sender != nil {
		d.sender = cfg.sender
	} else {
		senderOpts := []webhook.SenderOption{webhook.WithLogger(cfg.logger)}
		if cfg.httpClient != nil {
			senderOpts = append(senderOpts, webhook.WithHTTPClient(cfg.httpClient))
		}
		d.sender = webhook.NewSender(senderOpts...)
	}

	if cfg.errorHandler != nil {
		d.errorHandler = cfg.errorHandler
	} else {
		d.errorHandler = func(err error, eventName string, data any) {
			d.logger.Error("event delivery error",
				slog.String("event", eventName),
				slog.String("error", err.Error()))
		}
	}

	return d
}

// On registers a local handler for the given event name.
func (d *Dispatcher) On(event string, h notifier.Handler) *notifier.Subscription {
	return d.notifier.On(event, h)
}

// Once registers a local handler that fires on the first matching emit only.
func (d *Dispatcher) Once(event string, h notifier.Handler) *notifier.Subscription {
	return d.notifier.Once(event, h)
}

// Off removes a previously registered local handler.
func (d *Dispatcher) Off(sub *notifier.Subscription) bool {
	return d.notifier.Off(sub)
}

// reportError routes an error to the configured error handler. The handler
// is the single seam for cross-cutting error observation; it must never be
// able to throw back into the dispatch loop, so panics are swallowed here.
func (d *Dispatcher) reportError(err error, eventName string, data any) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("error handler panicked",
				slog.String("event", eventName),
				slog.Any("panic", r))
		}
	}()
	d.errorHandler(err, eventName, data)
}
