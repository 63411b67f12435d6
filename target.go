package relay

import (
	"log/slog"
	"maps"
	"slices"
)

// Target is a named destination subscribed to one or more event names.
// An empty URL makes the target local-only: it is delivered through the
// in-process notifier and never over HTTP. A non-empty URL makes it
// remote-only. A target is never both.
type Target struct {
	Name    string
	URL     string
	Headers map[string]string
	Events  []string
}

// clone returns a deep copy so registry snapshots are isolated from
// subsequent mutation.
func (t Target) clone() Target {
	t.Headers = maps.Clone(t.Headers)
	t.Events = slices.Clone(t.Events)
	return t
}

func (t Target) subscribedTo(event string) bool {
	return slices.Contains(t.Events, event) || slices.Contains(t.Events, Wildcard)
}

// TargetUpdate carries a partial update for UpdateTarget. Only the fields
// present are applied:
//
//   - URL: nil leaves the URL unchanged; non-nil replaces it wholesale,
//     including clearing via a pointer to an empty string.
//   - Headers: shallow-merged into the existing headers; new keys override,
//     keys absent from the update survive.
//   - Events: nil leaves the subscription list unchanged; non-nil replaces
//     it wholesale.
type TargetUpdate struct {
	URL     *string
	Headers map[string]string
	Events  []string
}

// AddTarget registers one or more targets. A target whose name is already
// taken fails without mutating the existing entry; the rest of the batch is
// still processed (registration is not atomic). Missing Headers and Events
// default to empty. Returns true only when every target in the batch was
// registered.
func (d *Dispatcher) AddTarget(targets ...Target) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	ok := true
	for _, t := range targets {
		if _, exists := d.targets[t.Name]; exists {
			d.logger.Warn("target registration rejected",
				slog.String("target", t.Name),
				slog.String("error", ErrTargetExists.Error()))
			ok = false
			continue
		}

		stored := t.clone()
		if stored.Headers == nil {
			stored.Headers = make(map[string]string)
		}
		if stored.Events == nil {
			stored.Events = []string{}
		}

		d.targets[stored.Name] = &stored
		d.order = append(d.order, stored.Name)
	}

	return ok
}

// UpdateTarget applies a partial update to a registered target. Returns
// false without mutating anything when the name is unknown.
func (d *Dispatcher) UpdateTarget(name string, upd TargetUpdate) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	t, exists := d.targets[name]
	if !exists {
		d.logger.Warn("target update rejected",
			slog.String("target", name),
			slog.String("error", ErrTargetNotFound.Error()))
		return false
	}

	if upd.URL != nil {
		t.URL = *upd.URL
	}
	for k, v := range upd.Headers {
		t.Headers[k] = v
	}
	if upd.Events != nil {
		t.Events = slices.Clone(upd.Events)
	}

	return true
}

// RemoveTarget deletes a target by name. Returns false when the name is
// unknown.
func (d *Dispatcher) RemoveTarget(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.targets[name]; !exists {
		d.logger.Warn("target removal rejected",
			slog.String("target", name),
			slog.String("error", ErrTargetNotFound.Error()))
		return false
	}

	delete(d.targets, name)
	d.order = slices.DeleteFunc(d.order, func(n string) bool { return n == name })
	return true
}

// AddEventToTarget appends event names to a target's subscription list.
// Appending is idempotent: names already present are skipped, never
// duplicated. Returns false when the target is unknown.
func (d *Dispatcher) AddEventToTarget(name string, events ...string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	t, exists := d.targets[name]
	if !exists {
		d.logger.Warn("event subscription rejected",
			slog.String("target", name),
			slog.String("error", ErrTargetNotFound.Error()))
		return false
	}

	for _, e := range events {
		if !slices.Contains(t.Events, e) {
			t.Events = append(t.Events, e)
		}
	}

	return true
}

// Target returns a copy of the named target and whether it exists.
func (d *Dispatcher) Target(name string) (Target, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	t, exists := d.targets[name]
	if !exists {
		return Target{}, false
	}
	return t.clone(), true
}

// resolveTargets returns deep copies of every target subscribed to the
// event name (directly or via the wildcard), in registration order.
func (d *Dispatcher) resolveTargets(event string) []Target {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var matches []Target
	for _, name := range d.order {
		if t := d.targets[name]; t.subscribedTo(event) {
			matches = append(matches, t.clone())
		}
	}
	return matches
}
