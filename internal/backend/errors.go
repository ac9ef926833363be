package backend

import (
	"fmt"
	"net/http"
)

// TransportError reports a turn that could not complete: the backend was
// unreachable, answered with a non-2xx status, or sent an undecodable body.
// It is distinct from a backend reply that rejects the input.
type TransportError struct {
	Op         string
	RequestID  string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("%s: backend returned status %d: %s", e.Op, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: backend returned status %d", e.Op, e.StatusCode)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Temporary reports whether retrying the same turn later may succeed.
func (e *TransportError) Temporary() bool {
	switch e.StatusCode {
	case 0:
		return e.Err != nil
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
