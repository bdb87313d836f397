package jobs

import (
	"context"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/quizforge/trivia-api/db"
	"github.com/quizforge/trivia-api/utils"
)

const (
	TypeIntegritySweep = "maintenance:integrity_sweep"

	// Nightly, off-peak. The sweep is a safety net behind the in-code
	// referential checks, so frequency matters little.
	sweepSchedule = "0 3 * * *"
)

// JobManager runs background maintenance over Redis. The API itself never
// depends on it; it enforces, out of band, the referential invariants that
// the write paths already check inline.
type JobManager struct {
	client    *asynq.Client
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
}

func NewJobManager(redisURL string, database *db.DB) *JobManager {
	addr := strings.TrimPrefix(redisURL, "redis://")
	redisOpt := asynq.RedisClientOpt{
		Addr: addr,
	}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 1,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			utils.LogError("Job failed: type=%s error=%v", task.Type(), err)
		}),
		Logger: &AsynqLogger{},
	})

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Logger: &AsynqLogger{},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeIntegritySweep, handleIntegritySweep(database))

	return &JobManager{
		client:    client,
		server:    server,
		scheduler: scheduler,
		mux:       mux,
	}
}

func (jm *JobManager) Start() error {
	utils.LogStartup("Starting job queue worker...")

	if _, err := jm.scheduler.Register(sweepSchedule, asynq.NewTask(TypeIntegritySweep, nil)); err != nil {
		return fmt.Errorf("failed to register integrity sweep schedule: %w", err)
	}
	if err := jm.scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	if err := jm.server.Start(jm.mux); err != nil {
		return fmt.Errorf("failed to start job server: %w", err)
	}
	return nil
}

func (jm *JobManager) Stop() {
	utils.LogShutdown("Stopping job queue...")
	jm.scheduler.Shutdown()
	jm.server.Stop()
	jm.server.Shutdown()
	jm.client.Close()
}

// EnqueueIntegritySweep queues an immediate sweep, outside the nightly
// schedule.
func (jm *JobManager) EnqueueIntegritySweep() error {
	task := asynq.NewTask(TypeIntegritySweep, nil)

	info, err := jm.client.Enqueue(task, asynq.MaxRetry(3))
	if err != nil {
		return fmt.Errorf("failed to enqueue integrity sweep: %w", err)
	}

	utils.LogJobs("Queued integrity sweep job: ID=%s", info.ID)
	return nil
}

func handleIntegritySweep(database *db.DB) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		utils.LogJobs("Running integrity sweep")

		orphans, err := database.SweepOrphanQuestions()
		if err != nil {
			return fmt.Errorf("orphan question sweep failed: %w", err)
		}

		dangling, err := database.CountDanglingResults()
		if err != nil {
			return fmt.Errorf("dangling result count failed: %w", err)
		}

		if orphans > 0 {
			utils.LogJobs("Integrity sweep removed %d orphaned questions", orphans)
		}
		if dangling > 0 {
			// Results are append-only history, so these stay put.
			utils.LogJobs("Integrity sweep found %d results referencing deleted quizzes", dangling)
		}
		if orphans == 0 && dangling == 0 {
			utils.LogJobs("Integrity sweep clean")
		}

		return nil
	}
}

// AsynqLogger adapts asynq's logger interface to the tagged log helpers.
type AsynqLogger struct{}

func (l *AsynqLogger) Debug(args ...interface{}) {
	utils.LogJobs(fmt.Sprint(args...))
}

func (l *AsynqLogger) Info(args ...interface{}) {
	utils.LogInfo(fmt.Sprint(args...))
}

func (l *AsynqLogger) Warn(args ...interface{}) {
	utils.LogError(fmt.Sprint(args...))
}

func (l *AsynqLogger) Error(args ...interface{}) {
	utils.LogError(fmt.Sprint(args...))
}

func (l *AsynqLogger) Fatal(args ...interface{}) {
	utils.LogError(fmt.Sprint(args...))
}
