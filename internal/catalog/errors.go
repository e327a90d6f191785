package catalog

import (
	"errors"
	"fmt"
)

// TransportError reports a catalog that was unreachable or answered with a
// non-success status.
type TransportError struct {
	Catalog Kind
	URL     string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s catalog unreachable at %s: %v", e.Catalog, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedPayloadError reports a response body that could not be parsed into
// the expected shape.
type MalformedPayloadError struct {
	Catalog Kind
	URL     string
	Err     error
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("%s catalog returned a malformed payload from %s: %v", e.Catalog, e.URL, e.Err)
}

func (e *MalformedPayloadError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is, or wraps, a *TransportError.
func IsTransport(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

// IsMalformed reports whether err is, or wraps, a *MalformedPayloadError.
func IsMalformed(err error) bool {
	var target *MalformedPayloadError
	return errors.As(err, &target)
}
