package relay

import "fmt"

// DeliveryError records one failed delivery attempt within an emit.
type DeliveryError struct {
	Target string
	Event  string
	Err    error
}

// Error implements the error interface.
func (e DeliveryError) Error() string {
	return fmt.Sprintf("delivery to target %q for event %q failed: %v", e.Target, e.Event, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As.
func (e DeliveryError) Unwrap() error { return e.Err }

// EmitResult aggregates the outcome of one Emit call across all matched
// targets. Success is true iff no delivery attempt failed. Errors lists
// local failures first (in registry order), then remote failures in
// completion order; callers must not assume a fixed relative order among
// remote entries.
type EmitResult struct {
	Success bool
	Errors  []DeliveryError
}

func (r *EmitResult) record(e DeliveryError) {
	r.Success = false
	r.Errors = append(r.Errors, e)
}
