package logging

import (
	"context"
	"log/slog"

	"corpusprep/internal/jobs"
)

// WithContext returns logger with the job recorded in ctx attached. The run
// id is left to the run handler.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if ctx == nil {
		return logger
	}
	if job, ok := jobs.JobFromContext(ctx); ok {
		return logger.With(String(FieldJob, job))
	}
	return logger
}
