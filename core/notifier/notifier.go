package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
)

const (
	// DefaultMaxListeners is the per-event listener limit applied when no
	// explicit limit is configured. Zero means unlimited.
	DefaultMaxListeners = 10
)

// Handler processes a published event payload.
type Handler func(ctx context.Context, data any) error

// Subscription identifies a single handler registration. It is returned by
// On and Once and consumed by Off.
type Subscription struct {
	id      string
	event   string
	handler Handler
	once    bool

	mu      sync.Mutex
	removed bool
}

// ID returns the unique identifier of the subscription, useful for logging.
func (s *Subscription) ID() string { return s.id }

// Event returns the event name the subscription listens for.
func (s *Subscription) Event() string { return s.event }

func (s *Subscription) isRemoved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removed
}

// claim marks a once-subscription as consumed. Returns false if it was
// already consumed or removed, so reentrant publishes cannot double-fire.
func (s *Subscription) claim() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removed {
		return false
	}
	s.removed = true
	return true
}

// Notifier is a synchronous in-process pub/sub hub keyed by event name.
// It is safe for concurrent use.
type Notifier struct {
	mu           sync.RWMutex
	subs         map[string][]*Subscription
	maxListeners int
	logger       *slog.Logger
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithMaxListeners sets the per-event listener limit. Zero means unlimited.
// Negative values are ignored.
func WithMaxListeners(n int) Option {
	return func(nf *Notifier) {
		if n >= 0 {
			nf.maxListeners = n
		}
	}
}

// WithLogger configures structured logging for the notifier.
func WithLogger(logger *slog.Logger) Option {
	return func(nf *Notifier) {
		if logger != nil {
			nf.logger = logger
		}
	}
}

// New creates a Notifier with the given options.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		subs:         make(map[string][]*Subscription),
		maxListeners: DefaultMaxListeners,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// On registers a handler for the given event name. The handler runs on every
// matching Publish until removed with Off.
func (n *Notifier) On(event string, h Handler) *Subscription {
	return n.subscribe(event, h, false)
}

// Once registers a handler that fires on the first matching Publish only.
// The subscription removes itself before the handler is invoked.
func (n *Notifier) Once(event string, h Handler) *Subscription {
	return n.subscribe(event, h, true)
}

func (n *Notifier) subscribe(event string, h Handler, once bool) *Subscription {
	if h == nil {
		n.logger.Warn("ignored nil handler registration", slog.String("event", event))
		return nil
	}

	sub := &Subscription{
		id:      uuid.New().String(),
		event:   event,
		handler: h,
		once:    once,
	}

	n.mu.Lock()
	n.subs[event] = append(n.subs[event], sub)
	count := len(n.subs[event])
	n.mu.Unlock()

	if n.maxListeners > 0 && count > n.maxListeners {
		n.logger.Warn("possible listener leak detected",
			slog.String("event", event),
			slog.Int("listeners", count),
			slog.Int("max_listeners", n.maxListeners))
	}

	return sub
}

// Off removes a subscription. Returns false if the subscription is nil or
// was already removed.
func (n *Notifier) Off(sub *Subscription) bool {
	if sub == nil {
		return false
	}

	sub.mu.Lock()
	if sub.removed {
		sub.mu.Unlock()
		return false
	}
	sub.removed = true
	sub.mu.Unlock()

	n.remove(sub)
	return true
}

func (n *Notifier) remove(sub *Subscription) {
	n.mu.Lock()
	defer n.mu.Unlock()

	list := n.subs[sub.event]
	for i, s := range list {
		if s == sub {
			n.subs[sub.event] = slices.Delete(list, i, i+1)
			break
		}
	}
	if len(n.subs[sub.event]) == 0 {
		delete(n.subs, sub.event)
	}
}

// Publish invokes every handler registered for the event name, in
// registration order, in the caller's goroutine. Each handler error or panic
// is captured as an entry in the returned slice; a failing handler never
// prevents the remaining handlers from running. Returns nil when all
// handlers succeed or none are registered.
func (n *Notifier) Publish(ctx context.Context, event string, data any) []error {
	n.mu.RLock()
	snapshot := slices.Clone(n.subs[event])
	n.mu.RUnlock()

	var errs []error
	for _, sub := range snapshot {
		if sub.once {
			if !sub.claim() {
				continue
			}
			n.remove(sub)
		} else if sub.isRemoved() {
			continue
		}

		if err := safeInvoke(ctx, sub.handler, data); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

// ListenerCount returns the number of handlers currently registered for the
// event name.
func (n *Notifier) ListenerCount(event string) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs[event])
}

// safeInvoke runs a handler and converts panics to errors so one misbehaving
// handler cannot tear down the publishing caller.
func safeInvoke(ctx context.Context, h Handler, data any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h(ctx, data)
}
