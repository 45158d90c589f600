package domain

// SessionStats holds the counters of a single batching session.
type SessionStats struct {
	// Accepted counts every submitted event, delivered or not.
	Accepted int `json:"accepted"`

	// Delivered counts events in batches the endpoint acknowledged.
	Delivered int `json:"delivered"`

	// Lost counts events in batches that failed to post.
	Lost int `json:"lost"`

	// Batches counts successful posts.
	Batches int `json:"batches"`

	// FailedBatches counts posts that returned an error.
	FailedBatches int `json:"failed_batches"`

	// BytesSent is the total body size of successful posts.
	BytesSent int `json:"bytes_sent"`
}

// Report is the outcome of forwarding one or more sources.
type Report struct {
	SessionStats

	// Sources lists the names of the forwarded inputs in processing order.
	Sources []string `json:"sources"`

	// Lines counts every line read.
	Lines int `json:"lines"`

	// Skipped counts lines that do not start with '{'.
	Skipped int `json:"skipped"`

	// Candidates counts lines starting with '{'.
	Candidates int `json:"candidates"`

	// Malformed counts candidates that failed to parse.
	Malformed int `json:"malformed"`

	// NonEvents counts parsed objects without a timestamp.
	NonEvents int `json:"non_events"`
}

// Merge adds the counters of other to r.
func (r *Report) Merge(other Report) {
	r.Sources = append(r.Sources, other.Sources...)
	r.Lines += other.Lines
	r.Skipped += other.Skipped
	r.Candidates += other.Candidates
	r.Malformed += other.Malformed
	r.NonEvents += other.NonEvents
	r.Accepted += other.Accepted
	r.Delivered += other.Delivered
	r.Lost += other.Lost
	r.Batches += other.Batches
	r.FailedBatches += other.FailedBatches
	r.BytesSent += other.BytesSent
}

// Complete reports whether every accepted event was delivered.
func (r Report) Complete() bool {
	return r.Lost == 0 && r.Delivered == r.Accepted
}
