package domain

// Batch is a contiguous run of CLEF events serialized as newline-terminated
// JSON lines. Body always holds whole events; an event is never split.
type Batch struct {
	// Body is the raw request payload.
	Body []byte

	// Events is the number of events in Body.
	Events int
}

// NewBatch creates a new empty batch with the given capacity hint.
func NewBatch(capacity int) *Batch {
	if capacity < 0 {
		capacity = 0
	}
	return &Batch{Body: make([]byte, 0, capacity)}
}

// Add appends one serialized event to the batch.
func (b *Batch) Add(event []byte) {
	b.Body = append(b.Body, event...)
	b.Events++
}

// Fits reports whether an event of n bytes can be appended without the batch
// exceeding max bytes. An empty batch accepts any event.
func (b *Batch) Fits(n, max int) bool {
	if b.Empty() || max <= 0 {
		return true
	}
	return len(b.Body)+n <= max
}

// Size returns the number of bytes in the batch.
func (b *Batch) Size() int {
	return len(b.Body)
}

// Empty returns true if the batch has no events.
func (b *Batch) Empty() bool {
	return b.Events == 0
}

// Take returns a copy of the batch contents and resets the batch for reuse.
func (b *Batch) Take() Batch {
	out := Batch{
		Body:   append([]byte(nil), b.Body...),
		Events: b.Events,
	}
	b.Reset()
	return out
}

// Reset clears the batch for reuse.
func (b *Batch) Reset() {
	b.Body = b.Body[:0]
	b.Events = 0
}
