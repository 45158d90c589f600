package ports

import "context"

// EventSender posts newline-delimited CLEF events to the ingestion endpoint.
type EventSender interface {
	// Send posts body as a single request.
	// Returns nil on success. Implementations must not retry; the caller
	// accounts for the events of a failed body as lost.
	Send(ctx context.Context, body []byte) error
}
