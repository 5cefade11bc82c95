package ebay

import (
	"errors"
	"fmt"
)

// ErrUnavailable is returned when the Finding API cannot be reached or
// answers with a non-success HTTP status.
var ErrUnavailable = errors.New("upstream unavailable")

// RejectedError is returned when the Finding API answered but its envelope
// acknowledgement reports failure. The upstream's own message is preserved
// as diagnostic context.
type RejectedError struct {
	Ack     string
	Message string
}

// Error implements the error interface.
func (e *RejectedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream rejected request (ack %q): %s", e.Ack, e.Message)
	}
	return fmt.Sprintf("upstream rejected request (ack %q)", e.Ack)
}
