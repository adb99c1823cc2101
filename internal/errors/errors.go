package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for different failure categories
var (
	// ErrConfiguration - a required credential is absent after exhausting all sources; raised at construction
	ErrConfiguration = errors.New("configuration error")

	// ErrAuthentication - the platform rejected the bearer token (HTTP 401)
	ErrAuthentication = errors.New("authentication failed")

	// ErrAuthorization - access denied for the resolved project (HTTP 403)
	ErrAuthorization = errors.New("access forbidden")

	// ErrNotFound - the project was not found on the platform (HTTP 404)
	ErrNotFound = errors.New("not found")

	// ErrUpstream - the platform returned a server error (HTTP 5xx); never retried here
	ErrUpstream = errors.New("upstream server error")

	// ErrHTTP - any other non-2xx response
	ErrHTTP = errors.New("http error")

	// ErrChannel - the real-time connection reported a transport error; fatal, not retried
	ErrChannel = errors.New("channel error")

	// ErrTimeout - no matching reply arrived before the deadline; distinct from ErrChannel
	// so callers can tell a slow agent from an unreachable one
	ErrTimeout = errors.New("response timeout")
)

// Wrap wraps an error with context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Configuration wraps a message as a construction-time configuration error.
func Configuration(message string) error {
	return fmt.Errorf("%s: %w", message, ErrConfiguration)
}

// Authentication wraps a message as an authentication failure.
func Authentication(message string) error {
	return fmt.Errorf("%s: %w", message, ErrAuthentication)
}

// Authorization wraps a message as an access-forbidden failure.
func Authorization(message string) error {
	return fmt.Errorf("%s: %w", message, ErrAuthorization)
}

// NotFound wraps a message as a not-found failure.
func NotFound(message string) error {
	return fmt.Errorf("%s: %w", message, ErrNotFound)
}

// Upstream wraps a message as an upstream server failure.
func Upstream(message string) error {
	return fmt.Errorf("%s: %w", message, ErrUpstream)
}

// HTTP wraps a message as a generic HTTP failure.
func HTTP(message string) error {
	return fmt.Errorf("%s: %w", message, ErrHTTP)
}

// Channel wraps a message as a real-time channel failure.
func Channel(message string) error {
	return fmt.Errorf("%s: %w", message, ErrChannel)
}

// Timeout wraps a message as a deadline failure.
func Timeout(message string) error {
	return fmt.Errorf("%s: %w", message, ErrTimeout)
}

// IsCategory checks if error belongs to a specific category.
func IsCategory(err error, category error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, category)
}

// Category returns the taxonomy name for an error, for log fields.
func Category(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "ErrConfiguration"
	case errors.Is(err, ErrAuthentication):
		return "ErrAuthentication"
	case errors.Is(err, ErrAuthorization):
		return "ErrAuthorization"
	case errors.Is(err, ErrNotFound):
		return "ErrNotFound"
	case errors.Is(err, ErrUpstream):
		return "ErrUpstream"
	case errors.Is(err, ErrHTTP):
		return "ErrHTTP"
	case errors.Is(err, ErrChannel):
		return "ErrChannel"
	case errors.Is(err, ErrTimeout):
		return "ErrTimeout"
	default:
		return "Unknown"
	}
}
