package app

import (
	"errors"
	"testing"

	"github.com/aneoconsulting/logship/internal/domain"
)

func TestIsCandidate(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{`{"@t":"2024-01-01T00:00:00Z"}`, true},
		{`{bad`, true},
		{``, false},
		{` {"@t":"1"}`, false},
		{`plain text`, false},
		{`[1,2]`, false},
	}

	for _, tt := range tests {
		if got := IsCandidate([]byte(tt.line)); got != tt.want {
			t.Errorf("IsCandidate(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestValidateEvent(t *testing.T) {
	tests := []struct {
		name          string
		line          string
		want          bool
		wantMalformed bool
	}{
		{name: "clef event", line: `{"@t":"2024-01-01T00:00:00Z","@mt":"hello"}`, want: true},
		{name: "timestamp with null value", line: `{"@t":null}`, want: true},
		{name: "object without timestamp", line: `{"x":1}`, want: false},
		{name: "empty object", line: `{}`, want: false},
		{name: "nested timestamp only", line: `{"log":{"@t":"1"}}`, want: false},
		{name: "truncated", line: `{bad json`, wantMalformed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateEvent([]byte(tt.line))
			if tt.wantMalformed {
				if !errors.Is(err, domain.ErrMalformedEvent) {
					t.Fatalf("ValidateEvent() error = %v, want ErrMalformedEvent", err)
				}
				var me *domain.MalformedEventError
				if !errors.As(err, &me) || string(me.Line) != tt.line {
					t.Fatalf("MalformedEventError line = %v, want %q", me, tt.line)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateEvent() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ValidateEvent() = %v, want %v", got, tt.want)
			}
		})
	}
}
