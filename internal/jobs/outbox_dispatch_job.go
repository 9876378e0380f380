package jobs

import (
	"context"
	"log/slog"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// DefaultOutboxDispatchSchedule runs the dispatch every two seconds.
const DefaultOutboxDispatchSchedule = "*/2 * * * * *"

// OutboxDispatchJob hands pending notifications to the sink on a schedule.
type OutboxDispatchJob struct {
	handler   commands.DispatchOutboxCommandHandler
	batchSize int
	schedule  string
	metrics   *metrics.Metrics
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewOutboxDispatchJob creates the job. An empty schedule falls back to
// DefaultOutboxDispatchSchedule; m may be nil.
func NewOutboxDispatchJob(
	handler commands.DispatchOutboxCommandHandler, batchSize int, schedule string, m *metrics.Metrics, logger *slog.Logger,
) *OutboxDispatchJob {
	if schedule == "" {
		schedule = DefaultOutboxDispatchSchedule
	}
	return &OutboxDispatchJob{
		handler:   handler,
		batchSize: batchSize,
		schedule:  schedule,
		metrics:   m,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "outbox_dispatch_job"),
	}
}

// Run performs one dispatch pass.
func (j *OutboxDispatchJob) Run(ctx context.Context) (commands.DispatchResult, error) {
	cmd, err := commands.NewDispatchOutboxCommand(j.batchSize)
	if err != nil {
		return commands.DispatchResult{}, err
	}

	result, err := j.handler.Handle(ctx, cmd)
	if j.metrics != nil {
		j.metrics.ObserveOutbox(result.Delivered, result.Failed)
	}
	if err != nil {
		return result, err
	}
	if result.Failed > 0 {
		j.logger.WarnContext(ctx, "Some notifications were not delivered", "delivered", result.Delivered, "failed", result.Failed)
	}
	return result, nil
}

// Start schedules the job.
func (j *OutboxDispatchJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if _, err := j.Run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Outbox dispatch job failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox dispatch job started", "schedule", j.schedule)
	return nil
}

// Stop stops scheduling and waits for a running pass to finish.
func (j *OutboxDispatchJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox dispatch job stopped")
}
