package app

import (
	"context"
	"errors"
	"time"

	"github.com/aneoconsulting/logship/internal/ports"
)

// mockLogger implements ports.Logger and remembers warnings.
type mockLogger struct {
	warnings []string
}

func (*mockLogger) Debug(msg string, fields ...ports.Field) {}
func (*mockLogger) Info(msg string, fields ...ports.Field)  {}
func (m *mockLogger) Warn(msg string, fields ...ports.Field) {
	m.warnings = append(m.warnings, msg)
}
func (*mockLogger) Error(msg string, fields ...ports.Field) {}

// mockSender records every body it receives.
// Calls listed in failOn (1-based) return an error.
type mockSender struct {
	bodies [][]byte
	calls  int
	failOn map[int]bool

	// ctxErrs holds ctx.Err() as seen by each call.
	ctxErrs []error
}

func (m *mockSender) Send(ctx context.Context, body []byte) error {
	m.calls++
	m.ctxErrs = append(m.ctxErrs, ctx.Err())
	if m.failOn[m.calls] {
		return errors.New("connection refused")
	}
	m.bodies = append(m.bodies, append([]byte(nil), body...))
	return nil
}

func (m *mockSender) joined() string {
	var s string
	for _, b := range m.bodies {
		s += string(b)
	}
	return s
}

// mockEmitter counts send events.
type mockEmitter struct {
	successes int
	failures  int
	events    int
}

func (m *mockEmitter) OnSendSuccess(events, bytesSent int, duration time.Duration) {
	m.successes++
	m.events += events
}

func (m *mockEmitter) OnSendError(err error, events int) {
	m.failures++
}
