package app

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aneoconsulting/logship/internal/domain"
	"github.com/aneoconsulting/logship/internal/ports"
)

const readBufferSize = 64 << 10

// ForwarderConfig contains configuration for a forwarding session.
type ForwarderConfig struct {
	// MaxBatchBytes bounds the body of every post, except for a single
	// event that is larger on its own.
	MaxBatchBytes int
}

// Forwarder reads text sources line by line and ships the CLEF events they
// contain. Each call to Forward is an independent session.
type Forwarder struct {
	config  ForwarderConfig
	sender  ports.EventSender
	logger  ports.Logger
	emitter SendEventEmitter
}

// NewForwarder creates a new forwarder with the given dependencies.
// emitter may be nil.
func NewForwarder(config ForwarderConfig, sender ports.EventSender, logger ports.Logger, emitter SendEventEmitter) *Forwarder {
	return &Forwarder{
		config:  config,
		sender:  sender,
		logger:  logger,
		emitter: emitter,
	}
}

// Forward ships the events read from r, in order.
//
// Malformed lines are logged and skipped. A delivery failure stops reading.
// Whatever the exit path, the events still buffered are posted once before
// Forward returns, and the report accounts for every accepted event.
func (f *Forwarder) Forward(ctx context.Context, name string, r io.Reader) (report domain.Report, err error) {
	batcher := NewBatcher(f.sender, f.config.MaxBatchBytes, f.logger, f.emitter)
	report.Sources = []string{name}

	defer func() {
		closeErr := batcher.Close(ctx)
		report.SessionStats = batcher.Stats()
		err = errors.Join(err, closeErr)

		f.logger.Info("sent",
			ports.String("source", name),
			ports.Int("events", report.Accepted),
			ports.Int("delivered", report.Delivered),
			ports.Int("lost", report.Lost),
			ports.Int("batches", report.Batches),
		)
	}()

	err = f.scan(ctx, name, r, batcher, &report)
	return report, err
}

func (f *Forwarder) scan(ctx context.Context, name string, r io.Reader, batcher *Batcher, report *domain.Report) error {
	br := bufio.NewReaderSize(r, readBufferSize)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, readErr := br.ReadBytes('\n')
		if len(line) > 0 {
			report.Lines++
			if err := f.handleLine(ctx, name, report.Lines, trimEOL(line), batcher, report); err != nil {
				return err
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return fmt.Errorf("read %s: %w", name, readErr)
		}
	}
}

func (f *Forwarder) handleLine(ctx context.Context, name string, lineNo int, line []byte, batcher *Batcher, report *domain.Report) error {
	if !IsCandidate(line) {
		report.Skipped++
		return nil
	}
	report.Candidates++

	ok, err := ValidateEvent(line)
	if err != nil {
		report.Malformed++
		f.logger.Warn("malformed event",
			ports.String("source", name),
			ports.Int("line", lineNo),
			ports.Err(err),
		)
		return nil
	}
	if !ok {
		report.NonEvents++
		return nil
	}

	return batcher.Submit(ctx, append(line, '\n'))
}

// trimEOL strips the line terminator, accepting CRLF endings.
func trimEOL(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte{'\n'})
	return bytes.TrimSuffix(line, []byte{'\r'})
}
