package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/aneoconsulting/logship/internal/domain"
)

func event(ts string, padding int) []byte {
	return []byte(fmt.Sprintf(`{"@t":"%s","p":"%s"}`+"\n", ts, strings.Repeat("x", padding)))
}

func TestBatcher_PreservesOrderAndBound(t *testing.T) {
	const max = 200
	sender := &mockSender{}
	b := NewBatcher(sender, max, &mockLogger{}, nil)
	ctx := context.Background()

	var want strings.Builder
	for i := 0; i < 50; i++ {
		ev := event(fmt.Sprint(i), i%40)
		want.Write(ev)
		if err := b.Submit(ctx, ev); err != nil {
			t.Fatalf("Submit(%d) error: %v", i, err)
		}
	}
	if err := b.Close(ctx); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	if got := sender.joined(); got != want.String() {
		t.Fatalf("concatenated batches differ from submitted events")
	}
	for i, body := range sender.bodies {
		if len(body) > max {
			t.Errorf("batch %d is %d bytes, limit %d", i, len(body), max)
		}
		if len(body) == 0 {
			t.Errorf("batch %d is empty", i)
		}
	}

	st := b.Stats()
	if st.Accepted != 50 || st.Delivered != 50 || st.Lost != 0 {
		t.Errorf("stats = %+v", st)
	}
	if st.Batches != len(sender.bodies) {
		t.Errorf("Batches = %d, want %d", st.Batches, len(sender.bodies))
	}
}

func TestBatcher_SplitsWhenCombinedSizeExceedsLimit(t *testing.T) {
	first := event("1", 30)
	second := event("2", 30)
	max := len(first) + len(second) - 1

	sender := &mockSender{}
	b := NewBatcher(sender, max, &mockLogger{}, nil)
	ctx := context.Background()

	if err := b.Submit(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := b.Submit(ctx, second); err != nil {
		t.Fatal(err)
	}
	if len(sender.bodies) != 1 {
		t.Fatalf("flushes before close = %d, want 1", len(sender.bodies))
	}
	if err := b.Close(ctx); err != nil {
		t.Fatal(err)
	}

	if len(sender.bodies) != 2 {
		t.Fatalf("flushes = %d, want 2", len(sender.bodies))
	}
	if string(sender.bodies[0]) != string(first) || string(sender.bodies[1]) != string(second) {
		t.Errorf("bodies = %q", sender.bodies)
	}
}

func TestBatcher_ExactFitStaysInOneBatch(t *testing.T) {
	first := event("1", 10)
	second := event("2", 10)

	sender := &mockSender{}
	b := NewBatcher(sender, len(first)+len(second), &mockLogger{}, nil)
	ctx := context.Background()

	_ = b.Submit(ctx, first)
	_ = b.Submit(ctx, second)
	_ = b.Close(ctx)

	if len(sender.bodies) != 1 {
		t.Fatalf("flushes = %d, want 1", len(sender.bodies))
	}
}

func TestBatcher_OversizedEventIsSentWhole(t *testing.T) {
	small := event("1", 0)
	big := event("2", 500)

	sender := &mockSender{}
	b := NewBatcher(sender, 100, &mockLogger{}, nil)
	ctx := context.Background()

	for _, ev := range [][]byte{big, small, big} {
		if err := b.Submit(ctx, ev); err != nil {
			t.Fatal(err)
		}
	}
	if err := b.Close(ctx); err != nil {
		t.Fatal(err)
	}

	want := []string{string(big), string(small), string(big)}
	if len(sender.bodies) != len(want) {
		t.Fatalf("flushes = %d, want %d", len(sender.bodies), len(want))
	}
	for i := range want {
		if string(sender.bodies[i]) != want[i] {
			t.Errorf("body %d = %q, want %q", i, sender.bodies[i], want[i])
		}
	}
}

func TestBatcher_CloseFlushesOnce(t *testing.T) {
	tests := []struct {
		name        string
		events      int
		wantFlushes int
	}{
		{name: "non-empty buffer", events: 3, wantFlushes: 1},
		{name: "empty buffer", events: 0, wantFlushes: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &mockSender{}
			b := NewBatcher(sender, 0, &mockLogger{}, nil)
			ctx := context.Background()

			for i := 0; i < tt.events; i++ {
				_ = b.Submit(ctx, event(fmt.Sprint(i), 0))
			}
			if err := b.Close(ctx); err != nil {
				t.Fatal(err)
			}
			if err := b.Close(ctx); err != nil {
				t.Fatal(err)
			}

			if sender.calls != tt.wantFlushes {
				t.Errorf("flushes = %d, want %d", sender.calls, tt.wantFlushes)
			}
			if err := b.Submit(ctx, event("late", 0)); !errors.Is(err, ErrBatcherClosed) {
				t.Errorf("Submit after Close error = %v, want ErrBatcherClosed", err)
			}
		})
	}
}

func TestBatcher_DeliveryFailure(t *testing.T) {
	first := event("1", 20)
	second := event("2", 20)

	sender := &mockSender{failOn: map[int]bool{1: true}}
	emitter := &mockEmitter{}
	b := NewBatcher(sender, len(first), &mockLogger{}, emitter)
	ctx := context.Background()

	if err := b.Submit(ctx, first); err != nil {
		t.Fatal(err)
	}
	err := b.Submit(ctx, second)

	var de *domain.DeliveryError
	if !errors.As(err, &de) {
		t.Fatalf("Submit error = %v, want *domain.DeliveryError", err)
	}
	if string(de.Batch.Body) != string(first) || de.LostEvents() != 1 {
		t.Errorf("DeliveryError batch = %q (%d events)", de.Batch.Body, de.LostEvents())
	}
	if b.Pending() != 1 {
		t.Errorf("Pending = %d, want 1 (the event after the failed flush)", b.Pending())
	}

	if err := b.Close(ctx); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	st := b.Stats()
	if st.Accepted != 2 || st.Delivered != 1 || st.Lost != 1 || st.FailedBatches != 1 || st.Batches != 1 {
		t.Errorf("stats = %+v", st)
	}
	if emitter.successes != 1 || emitter.failures != 1 {
		t.Errorf("emitter successes=%d failures=%d, want 1/1", emitter.successes, emitter.failures)
	}
}

func TestBatcher_FlushIgnoresCancellation(t *testing.T) {
	first := event("1", 30)
	second := event("2", 30)
	sender := &mockSender{}
	b := NewBatcher(sender, len(first), &mockLogger{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	if err := b.Submit(ctx, first); err != nil {
		t.Fatalf("Submit(first) error: %v", err)
	}
	cancel()

	if err := b.Submit(ctx, second); err != nil {
		t.Fatalf("Submit(second) error: %v", err)
	}
	if err := b.Close(ctx); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	if len(sender.bodies) != 2 {
		t.Fatalf("flushes = %d, want 2", len(sender.bodies))
	}
	for i, err := range sender.ctxErrs {
		if err != nil {
			t.Errorf("flush %d saw ctx error %v", i, err)
		}
	}
	if st := b.Stats(); st.Delivered != 2 || st.Lost != 0 {
		t.Errorf("stats = %+v", st)
	}
}
