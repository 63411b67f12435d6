// Package notifier provides a synchronous in-process publish/subscribe
// primitive keyed by event name. It is the local delivery half of the relay
// dispatcher: handlers registered with On or Once are invoked in registration
// order every time a matching event name is published.
//
// # Basic Usage
//
//	n := notifier.New(notifier.WithMaxListeners(20))
//
//	sub := n.On("user.created", func(ctx context.Context, data any) error {
//	    return sendWelcomeEmail(ctx, data)
//	})
//
//	errs := n.Publish(ctx, "user.created", payload)
//	n.Off(sub)
//
// Publish is fault isolating: an error (or panic) in one handler is captured
// and returned, and the remaining handlers still run.
//
// # Listener Limits
//
// New notifiers allow up to DefaultMaxListeners handlers per event name.
// Exceeding the limit logs a warning but still registers the handler, so a
// noisy integration degrades observably instead of silently dropping
// subscriptions. WithMaxListeners(0) disables the limit.
package notifier
