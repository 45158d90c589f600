package ports

import (
	"context"

	"github.com/aneoconsulting/logship/internal/domain"
)

// ReportWriter persists the outcome of a run.
type ReportWriter interface {
	// Write stores the report atomically, replacing any previous one.
	Write(ctx context.Context, report domain.Report) error
}
