package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent error conditions in the logship domain.
// These errors can be checked with errors.Is.
var (
	// ErrMalformedEvent is returned when a candidate line is not valid JSON.
	ErrMalformedEvent = errors.New("logship: malformed event")

	// ErrDeliveryFailed is returned when a batch could not be posted.
	ErrDeliveryFailed = errors.New("logship: delivery failed")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("logship: invalid configuration")

	// ErrUnsupportedSource is returned for inputs no reader can handle.
	ErrUnsupportedSource = errors.New("logship: unsupported source")
)

// MalformedEventError describes a candidate line that failed to parse.
type MalformedEventError struct {
	Line []byte
	Err  error
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("malformed event: %v", e.Err)
}

// Unwrap exposes both the sentinel and the parser error.
func (e *MalformedEventError) Unwrap() []error {
	return []error{ErrMalformedEvent, e.Err}
}

// DeliveryError carries a batch that could not be delivered.
// The events in Batch are lost unless the caller resends Batch.Body.
type DeliveryError struct {
	Batch Batch
	Err   error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver batch of %d events (%d bytes): %v", e.Batch.Events, e.Batch.Size(), e.Err)
}

// Unwrap exposes both the sentinel and the transport error.
func (e *DeliveryError) Unwrap() []error {
	return []error{ErrDeliveryFailed, e.Err}
}

// LostEvents returns the number of events in the undelivered batch.
func (e *DeliveryError) LostEvents() int {
	return e.Batch.Events
}
