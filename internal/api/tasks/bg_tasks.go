package tasks

import (
	"context"
	"log/slog"
	"sync"
)

type Task = func()

// BackgroundTasks is a bounded worker pool for fire-and-forget work
// (verification emails) that should not block request handling.
type BackgroundTasks struct {
	log        *slog.Logger
	tasks      chan Task
	maxWorkers int
	wg         *sync.WaitGroup
}

func New(log *slog.Logger, maxWorkers int, maxTasksQueueSize int) *BackgroundTasks {
	wg := &sync.WaitGroup{}
	wg.Add(maxWorkers)
	return &BackgroundTasks{
		log:        log,
		maxWorkers: maxWorkers,
		wg:         wg,
		tasks:      make(chan Task, maxTasksQueueSize),
	}
}

func (t *BackgroundTasks) Run() {
	for i := 0; i < t.maxWorkers; i++ {
		i := i
		go func() {
			log := t.log.With("worker", i)
			defer func() {
				if err := recover(); err != nil {
					log.Error("panic in background task", "err", err)
				}
				t.wg.Done()
			}()
			for task := range t.tasks {
				task()
			}
		}()
	}
}

func (t *BackgroundTasks) Add(task Task) {
	t.tasks <- task
}

// Shutdown closes the queue and waits for in-flight tasks to drain, up to
// the context deadline.
func (t *BackgroundTasks) Shutdown(ctx context.Context) error {
	const op = "tasks.BackgroundTasks.Shutdown"
	log := t.log.With("op", op)
	log.Info("shutting down background tasks")
	close(t.tasks)
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		log.Warn("graceful shutdown timed out.. forcing exit", "timeout", ctx.Err())
		return ctx.Err()
	case <-done:
		log.Info("background tasks successfully stopped")
		return nil
	}
}

func (t *BackgroundTasks) IsEmpty() bool {
	return len(t.tasks) == 0
}
