package jobs

import (
	"fmt"
	"log/slog"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/pkg/metrics"
)

// Schedules are the cron expressions, with seconds, of the jobs.
type Schedules struct {
	OutboxDispatch   string
	IdempotencyPurge string
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	outboxDispatchJob   *OutboxDispatchJob
	idempotencyPurgeJob *IdempotencyPurgeJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	dispatchHandler commands.DispatchOutboxCommandHandler,
	purgeHandler commands.PurgeIdempotencyRecordsCommandHandler,
	outboxBatchSize int,
	schedules Schedules,
	m *metrics.Metrics,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		outboxDispatchJob:   NewOutboxDispatchJob(dispatchHandler, outboxBatchSize, schedules.OutboxDispatch, m, logger),
		idempotencyPurgeJob: NewIdempotencyPurgeJob(purgeHandler, schedules.IdempotencyPurge, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.outboxDispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start outbox dispatch job: %w", err)
	}

	if err := jm.idempotencyPurgeJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.outboxDispatchJob.Stop()
		return fmt.Errorf("failed to start idempotency purge job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.idempotencyPurgeJob.Stop()
	jm.outboxDispatchJob.Stop()
}
