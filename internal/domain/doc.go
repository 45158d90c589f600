// Package domain contains the core entities and value objects for logship.
//
// This package has no dependencies on infrastructure concerns (HTTP, file
// system, logging) and contains only the rules that govern how log events are
// batched and accounted for.
//
// # Entities
//
//   - [Batch]: newline-delimited CLEF events waiting to be posted together
//   - [SessionStats]: counters kept by a batching session
//   - [Report]: the outcome of forwarding one or more sources
//
// # Errors
//
// [ErrMalformedEvent] and [ErrDeliveryFailed] classify the two failure modes of
// a session. The typed forms [MalformedEventError] and [DeliveryError] carry
// the offending line or the undelivered batch.
package domain
