package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/Nitinadonis1/Weather---app/internal/weather"
	"github.com/Nitinadonis1/Weather---app/pkg/logger"
)

var (
	ErrWorkersStarted  = errors.New("workers already started")
	ErrWorkersStopped  = errors.New("workers stopped")
	ErrWorkersNotReady = errors.New("workers not started")
)

// Task refreshes the cached payloads of one query.
type Task struct {
	ID        string
	Query     Query
	Context   context.Context
	CreatedAt time.Time

	// ResultCh receives the outcome once; it is buffered so workers never block.
	ResultCh chan TaskResult
}

type TaskResult struct {
	Current  *weather.CurrentWeather
	Forecast *weather.ForecastSet
	Error    error
}

func newTask(ctx context.Context, q Query) *Task {
	return &Task{
		ID:        uuid.New().String(),
		Query:     q.withDefaults(),
		Context:   ctx,
		CreatedAt: time.Now(),
		ResultCh:  make(chan TaskResult, 1),
	}
}

type DashboardWorker struct {
	dashboard *Dashboard
	workerID  int
	logger    *zap.Logger
}

func NewDashboardWorker(dashboard *Dashboard, workerID int) *DashboardWorker {
	return &DashboardWorker{
		dashboard: dashboard,
		workerID:  workerID,
		logger:    dashboard.logger.With(zap.Int("worker_id", workerID)),
	}
}

func (w *DashboardWorker) Start(ctx context.Context) {
	defer w.dashboard.workerWg.Done()

	w.logger.Info("Worker started")

	for {
		select {
		case task := <-w.dashboard.taskQueue:
			w.logger.Debug("Processing task", zap.String("task_id", task.ID))
			w.processTask(task)

		case <-w.dashboard.shutdownCh:
			w.logger.Info("Shutdown signal received, draining queue")
			w.drain()
			return
		case <-ctx.Done():
			w.logger.Info("Context cancelled, worker stopping")
			return
		}
	}
}

// drain processes whatever is still queued, then returns.
func (w *DashboardWorker) drain() {
	for {
		select {
		case task := <-w.dashboard.taskQueue:
			w.processTask(task)
		default:
			return
		}
	}
}

func (w *DashboardWorker) processTask(task *Task) {
	tracer := w.dashboard.tele.GetTracer()
	ctx, span := tracer.Start(task.Context, "dashboard.processTask")
	defer span.End()

	span.SetAttributes(
		attribute.String("task_id", task.ID),
		attribute.String("location", task.Query.location()),
		attribute.Int("worker_id", w.workerID),
	)

	taskLogger := logger.ForContext(ctx, w.logger).With(zap.String("task_id", task.ID))

	result, err := w.dashboard.refresh(ctx, task.Query)
	result.Error = err
	if err != nil {
		w.dashboard.tele.RecordError(ctx, err)
		taskLogger.Error("Task failed", zap.String("location", task.Query.location()), zap.Error(err))
	} else {
		taskLogger.Debug("Task completed",
			zap.String("location", task.Query.location()),
			zap.Duration("elapsed", time.Since(task.CreatedAt)))
	}

	select {
	case task.ResultCh <- result:
	default:
	}
}

// Start launches the configured number of workers. It is a no-op when the
// dashboard has no workers configured.
func (d *Dashboard) Start(ctx context.Context) error {
	d.stateMu.Lock()
	defer d.stateMu.Unlock()

	switch {
	case d.stopped:
		return ErrWorkersStopped
	case d.started:
		return ErrWorkersStarted
	}
	if d.workers <= 0 {
		d.logger.Info("No dashboard workers configured")
		return nil
	}

	d.started = true
	for i := 1; i <= d.workers; i++ {
		d.workerWg.Add(1)
		go NewDashboardWorker(d, i).Start(ctx)
	}

	d.logger.Info("Dashboard workers started", zap.Int("workers", d.workers))
	return nil
}

// Submit queues a refresh of q. It blocks while the queue is full until ctx
// is done or the workers stop.
func (d *Dashboard) Submit(ctx context.Context, q Query) (*Task, error) {
	if err := q.withDefaults().Validate(); err != nil {
		return nil, err
	}

	d.stateMu.Lock()
	started, stopped := d.started, d.stopped
	d.stateMu.Unlock()

	if stopped {
		return nil, ErrWorkersStopped
	}
	if !started {
		return nil, ErrWorkersNotReady
	}

	task := newTask(ctx, q)
	select {
	case <-d.shutdownCh:
		return nil, ErrWorkersStopped
	default:
	}

	select {
	case d.taskQueue <- task:
		return task, nil
	case <-d.shutdownCh:
		return nil, ErrWorkersStopped
	case <-ctx.Done():
		return nil, fmt.Errorf("submit %s: %w", q.location(), ctx.Err())
	}
}

// Prefetch queues a refresh for every query and returns the queued tasks.
// Queries that cannot be queued are logged and skipped.
func (d *Dashboard) Prefetch(ctx context.Context, queries ...Query) []*Task {
	tasks := make([]*Task, 0, len(queries))
	for _, q := range queries {
		task, err := d.Submit(ctx, q)
		if err != nil {
			d.logger.Warn("Prefetch skipped",
				zap.String("location", q.location()),
				zap.Error(err))
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks
}

// RunRefreshLoop prefetches queries immediately and then on every tick of
// interval, purging expired cache entries each round. It returns when ctx is
// done or the workers stop.
func (d *Dashboard) RunRefreshLoop(ctx context.Context, interval time.Duration, queries []Query) {
	if interval <= 0 || len(queries) == 0 {
		return
	}

	d.logger.Info("Refresh loop started",
		zap.Duration("interval", interval),
		zap.Int("queries", len(queries)))

	d.Prefetch(ctx, queries...)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if purged := d.PurgeExpired(); purged > 0 {
				d.logger.Debug("Purged expired cache entries", zap.Int("count", purged))
			}
			d.Prefetch(ctx, queries...)
		case <-d.shutdownCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop rejects new tasks, lets workers finish the queued ones and waits for
// them until ctx is done. Tasks still queued once the workers have exited
// report ErrWorkersStopped.
func (d *Dashboard) Stop(ctx context.Context) error {
	d.stateMu.Lock()
	if d.stopped {
		d.stateMu.Unlock()
		return nil
	}
	d.stopped = true
	close(d.shutdownCh)
	d.stateMu.Unlock()

	done := make(chan struct{})
	go func() {
		d.workerWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if dropped := d.failPending(); dropped > 0 {
			d.logger.Warn("Dropped queued tasks", zap.Int("count", dropped))
		}
		d.logger.Info("Dashboard workers stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for dashboard workers: %w", ctx.Err())
	}
}

func (d *Dashboard) failPending() int {
	dropped := 0
	for {
		select {
		case task := <-d.taskQueue:
			task.ResultCh <- TaskResult{Error: ErrWorkersStopped}
			dropped++
		default:
			return dropped
		}
	}
}
