// Package jobs provides scheduled background tasks for the marketplace.
//
// Jobs run on github.com/robfig/cron/v3 with second-resolution expressions.
//
// # Available Jobs
//
// 1. OutboxDispatchJob - hands pending order notifications to the configured sink
// 2. IdempotencyPurgeJob - deletes idempotency records past their TTL so keys can be reused
//
// # Usage
//
//	jobManager := jobs.NewJobManager(dispatchHandler, purgeHandler, 100, jobs.Schedules{}, m, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// Empty schedules fall back to DefaultOutboxDispatchSchedule and DefaultIdempotencyPurgeSchedule.
// A failed job start stops the jobs already running.
package jobs
