package jobs

import (
	"context"
	"log/slog"

	"marketplace/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultIdempotencyPurgeSchedule runs the purge every ten minutes.
const DefaultIdempotencyPurgeSchedule = "0 */10 * * * *"

// IdempotencyPurgeJob deletes expired idempotency records on a schedule.
type IdempotencyPurgeJob struct {
	handler  commands.PurgeIdempotencyRecordsCommandHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewIdempotencyPurgeJob(
	handler commands.PurgeIdempotencyRecordsCommandHandler, schedule string, logger *slog.Logger,
) *IdempotencyPurgeJob {
	if schedule == "" {
		schedule = DefaultIdempotencyPurgeSchedule
	}
	return &IdempotencyPurgeJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "idempotency_purge_job"),
	}
}

// Run performs one purge and returns the number of deleted records.
func (j *IdempotencyPurgeJob) Run(ctx context.Context) (int64, error) {
	purged, err := j.handler.Handle(ctx, commands.NewPurgeIdempotencyRecordsCommand())
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		j.logger.InfoContext(ctx, "Purged expired idempotency records", "count", purged)
	}
	return purged, nil
}

// Start schedules the job.
func (j *IdempotencyPurgeJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if _, err := j.Run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Idempotency purge job failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Idempotency purge job started", "schedule", j.schedule)
	return nil
}

// Stop stops the job.
func (j *IdempotencyPurgeJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Idempotency purge job stopped")
}
