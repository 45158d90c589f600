package app

import (
	json "github.com/goccy/go-json"

	"github.com/aneoconsulting/logship/internal/domain"
)

// TimestampKey is the CLEF field that marks a JSON object as a log event.
const TimestampKey = "@t"

// ValidateEvent parses a candidate line as a JSON object.
//
// It returns a *domain.MalformedEventError when the line is not valid JSON,
// false when the object has no timestamp (an envelope or other non-event
// object), and true when the line is a CLEF event.
func ValidateEvent(line []byte) (bool, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(line, &fields); err != nil {
		return false, &domain.MalformedEventError{Line: line, Err: err}
	}
	_, ok := fields[TimestampKey]
	return ok, nil
}
