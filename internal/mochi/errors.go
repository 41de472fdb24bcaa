package mochi

import "fmt"

// NotFoundError is returned when the Mochi API reports that a deck or note
// does not exist (HTTP 404).
type NotFoundError struct {
	Kind string // "deck" or "note"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// UpstreamError is returned when the Mochi API responds with a non-2xx status
// other than 404. Message carries the service-provided error text when the
// body contains one.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("mochi API error %d", e.StatusCode)
	}
	return fmt.Sprintf("mochi API error %d: %s", e.StatusCode, e.Message)
}

// TransportError is returned when a request fails before an HTTP response is
// received: timeout, refused connection, DNS failure.
type TransportError struct {
	Op  string // e.g. "GET /decks"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
