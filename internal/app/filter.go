package app

// IsCandidate reports whether line may hold a CLEF event.
// Only lines whose first byte opens a JSON object are parsed.
func IsCandidate(line []byte) bool {
	return len(line) > 0 && line[0] == '{'
}
