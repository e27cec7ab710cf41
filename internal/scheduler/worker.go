package scheduler

import (
	"context"
	"fmt"

	"leadscore_backend/internal/scoring/service"
	"leadscore_backend/platform/config"
	"leadscore_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker consumes background jobs and periodically enqueues the benchmark
// recompute on the configured interval.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	svc       *service.Service
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, svc *service.Service, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL())
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

	sched := asynq.NewScheduler(opt, nil)
	if _, err := sched.Register(cfg.GetBenchmarkInterval(), NewBenchmarkRecomputeTask(), asynq.Queue(queue)); err != nil {
		return nil, fmt.Errorf("register benchmark schedule: %w", err)
	}

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		scheduler: sched,
		mux:       mux,
		svc:       svc,
		log:       log,
	}

	mux.HandleFunc(TaskBenchmarkRecompute, w.handleBenchmarkRecompute)
	mux.HandleFunc(TaskRescoreAll, w.handleRescoreAll)

	return w, nil
}

func (w *Worker) handleBenchmarkRecompute(ctx context.Context, _ *asynq.Task) error {
	b, err := w.svc.RecomputeBenchmark(ctx)
	if err != nil {
		return err
	}
	w.log.Info("benchmark recomputed", "sampleSize", b.SampleSize, "average", b.Average)
	return nil
}

func (w *Worker) handleRescoreAll(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseRescoreAllPayload(task)
	if err != nil {
		return err
	}
	w.log.Info("rescore run starting", "requestedAt", payload.RequestedAt)

	report, err := w.svc.RescoreAll(ctx)
	if err != nil {
		return err
	}
	if report.Cancelled {
		w.log.Warn("rescore run cancelled", "processed", report.Processed, "failed", report.Failed)
	}
	return nil
}

// Run serves jobs until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.scheduler.Shutdown()
		w.server.Shutdown()
	}()

	if err := w.scheduler.Start(); err != nil {
		w.log.Error("scheduler start failed", "error", err)
		return
	}

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
