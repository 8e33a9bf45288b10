package scheduler

import (
	"context"
	"fmt"

	"leaddesk_backend/internal/leads/followup"
	"leaddesk_backend/platform/config"
	"leaddesk_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker consumes scheduled tasks and runs the follow-up scanner.
type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	scanner *followup.Scanner
	log     *logger.Logger
}

// NewWorker builds the asynq server and registers task handlers.
func NewWorker(cfg config.SchedulerConfig, scanner *followup.Scanner, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		scanner: scanner,
		log:     log,
	}

	mux.HandleFunc(TaskFollowUpScan, w.handleFollowUpScan)

	return w, nil
}

func (w *Worker) handleFollowUpScan(ctx context.Context, _ *asynq.Task) error {
	created, err := w.scanner.Scan(ctx)
	if err != nil {
		return err
	}

	w.log.Info("follow-up scan completed", "reminders_created", created)
	return nil
}

// Run blocks until ctx is canceled, then shuts the server down.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
