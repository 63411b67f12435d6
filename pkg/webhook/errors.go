package webhook

import (
	"errors"
	"fmt"
)

var (
	// ErrPermanentFailure indicates a delivery that will not succeed on a
	// retry with the same input: a 4xx response or an unbuildable request.
	ErrPermanentFailure = errors.New("webhook delivery permanently failed")

	// ErrTemporaryFailure indicates a transient condition: a network error
	// or a 5xx response.
	ErrTemporaryFailure = errors.New("webhook delivery temporarily failed")
)

// StatusError reports a non-2xx HTTP response from the endpoint.
type StatusError struct {
	StatusCode int
	Status     string // e.g. "500 Internal Server Error"
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response status: %s", e.Status)
}
