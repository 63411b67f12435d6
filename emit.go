package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Emit fans the event out to every matching target and blocks until all
// delivery attempts settle. Local targets are delivered first,
// synchronously and in registry order; remote targets are then posted to
// concurrently, and every request is awaited to completion before Emit
// returns. Emit never fails as a call: all delivery errors are aggregated
// into the result and individually routed to the error handler.
//
// Each matched local target triggers one full notifier publish, so two
// local targets subscribed to the same event name run the local handlers
// twice. This mirrors the registry semantics deliberately; see the package
// tests for the named scenario.
func (d *Dispatcher) Emit(ctx context.Context, eventName string, data any) EmitResult {
	emitID := uuid.New().String()

	matches := d.resolveTargets(eventName)

	var locals, remotes []Target
	for _, t := range matches {
		if t.URL == "" {
			locals = append(locals, t)
		} else {
			remotes = append(remotes, t)
		}
	}

	d.logger.Debug("emitting event",
		slog.String("emit_id", emitID),
		slog.String("event", eventName),
		slog.Int("local_targets", len(locals)),
		slog.Int("remote_targets", len(remotes)))

	result := EmitResult{Success: true}

	for _, t := range locals {
		for _, err := range d.notifier.Publish(ctx, eventName, data) {
			result.record(DeliveryError{Target: t.Name, Event: eventName, Err: err})
			d.reportError(err, eventName, data)
		}
	}

	if len(remotes) > 0 {
		d.emitRemote(ctx, emitID, eventName, data, remotes, &result)
	}

	return result
}

// emitRemote issues every remote delivery before awaiting any of them, so
// network latency never serializes across independent destinations.
// Failures arrive on the channel in completion order.
func (d *Dispatcher) emitRemote(ctx context.Context, emitID, eventName string, data any, remotes []Target, result *EmitResult) {
	payload, err := json.Marshal(Envelope{EventName: eventName, Data: data})
	if err != nil {
		// An unencodable payload fails every remote target identically.
		err = fmt.Errorf("encoding event envelope: %w", err)
		for _, t := range remotes {
			result.record(DeliveryError{Target: t.Name, Event: eventName, Err: err})
			d.reportError(err, eventName, data)
		}
		return
	}

	failures := make(chan DeliveryError, len(remotes))
	var wg sync.WaitGroup

	for _, t := range remotes {
		wg.Add(1)
		go func(t Target) {
			defer wg.Done()
			if err := d.sender.Send(ctx, t.URL, payload, t.Headers); err != nil {
				failures <- DeliveryError{Target: t.Name, Event: eventName, Err: err}
			}
		}(t)
	}

	wg.Wait()
	close(failures)

	for de := range failures {
		result.record(de)
		d.reportError(de.Err, eventName, data)
	}

	d.logger.Debug("remote fan-out settled",
		slog.String("emit_id", emitID),
		slog.String("event", eventName),
		slog.Int("failed", len(result.Errors)))
}
