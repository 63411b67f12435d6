// Package relay is a minimal event dispatcher that unifies in-process
// notification and HTTP webhook callbacks under one API. Events are
// identified by name; a registry of named targets declares which event names
// route to which destination. Emitting an event fans it out to every
// matching destination and aggregates the outcome of each delivery attempt,
// partial failures included, into a single result.
//
// # Targets
//
// A target without a URL is local: it is delivered through the in-process
// notifier. A target with a URL is remote: it is delivered as an HTTP POST.
// A target subscribed to "*" matches every event name.
//
//	d := relay.New()
//
//	d.AddTarget(
//	    relay.Target{Name: "audit", Events: []string{"*"}},
//	    relay.Target{Name: "billing", URL: "https://billing.internal/hooks", Events: []string{"invoice.paid"}},
//	)
//
//	d.On("invoice.paid", func(ctx context.Context, data any) error {
//	    return recordAuditEntry(ctx, data)
//	})
//
//	result := d.Emit(ctx, "invoice.paid", invoice)
//	if !result.Success {
//	    for _, derr := range result.Errors {
//	        log.Printf("delivery to %s failed: %v", derr.Target, derr.Err)
//	    }
//	}
//
// Local deliveries run synchronously before any remote request is issued.
// Remote deliveries run concurrently and are all awaited before Emit
// returns; error order reflects completion order. Delivery is best-effort
// and at-most-once: one target's failure never blocks or rolls back the
// others, and Emit never returns an error of its own.
//
// # Inbound Events
//
// The mirror path accepts an externally produced envelope and re-delivers
// it to local handlers. The wire format in both directions is a JSON object
// with exactly two fields:
//
//	{"eventName": "invoice.paid", "data": {...}}
//
// HandleIncomingEvent decodes the envelope and schedules local redelivery
// after the call returns; Middleware and HandlerFunc adapt that path to
// net/http, answering 202 on success and 400 with a JSON error body on a
// malformed envelope. Inbound events never re-fan-out to targets.
package relay
