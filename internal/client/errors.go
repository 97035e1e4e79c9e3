package client

import (
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
)

// The backend's failures fall into four kinds: a human-readable message
// (server-supplied detail or locally constructed), a transport failure, a
// bad HTTP status, and an undecodable response body.

// MessageError carries a human-readable error message, typically the
// "detail" field of a 4xx response body.
type MessageError struct {
	Msg string
}

func (e *MessageError) Error() string { return e.Msg }

// TransportError wraps a network-level failure (unreachable host, timeout,
// dropped connection).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx response that carried no parseable detail.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("HTTP %d", e.Code)
}

// DecodeError reports a malformed response body on a success status.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "decoding response: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// isTransient reports whether a network error is a timeout or lost
// connection, the only faults the login retry covers.
func isTransient(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	return false
}

// retryableLogin is the retry predicate for login: only transport-level
// transient faults qualify. Bad credentials and other HTTP errors never
// retry.
func retryableLogin(err error) bool {
	var terr *TransportError
	if !errors.As(err, &terr) {
		return false
	}
	return isTransient(terr.Err)
}
