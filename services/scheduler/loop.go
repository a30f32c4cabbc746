package scheduler

import (
	"context"
	"sync"
	"time"

	jobRepo "evently/database/repository/job"

	"go.uber.org/zap"
)

// Loop polls the job store on a fixed interval and executes due jobs
// sequentially. One slow callback delays the rest of the batch, which is the
// intended trade-off: the external system never receives parallel bursts.
// Designed for a single scheduler process; there is no cross-instance
// claiming around FindDue.
type Loop struct {
	Jobs     JobStore
	Executor JobExecutor

	Interval   time.Duration
	BatchLimit int64
	Logger     *zap.Logger
	Now        func() time.Time

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool
}

func NewLoop(jobs JobStore, executor JobExecutor, interval time.Duration, batchLimit int64, logger *zap.Logger) *Loop {
	return &Loop{
		Jobs:       jobs,
		Executor:   executor,
		Interval:   interval,
		BatchLimit: batchLimit,
		Logger:     logger,
		Now:        time.Now,
	}
}

// Start launches the ticking goroutine. Calling Start on a running loop is a no-op.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return
	}
	l.running = true
	l.stop = make(chan struct{})
	l.done = make(chan struct{})

	go l.run(l.stop, l.done)
	l.Logger.Info("event job scheduler started",
		zap.Duration("interval", l.Interval),
		zap.Int64("batchLimit", l.BatchLimit))
}

// Stop clears the timer and waits for any in-flight tick to finish; jobs
// already mid-execution are allowed to complete.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	close(l.stop)
	done := l.done
	l.mu.Unlock()

	<-done
	l.Logger.Info("event job scheduler stopped")
}

func (l *Loop) run(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			l.tick()
		}
	}
}

// tick runs one poll-and-execute pass. Panics and errors are contained here;
// nothing a tick does may terminate the loop.
func (l *Loop) tick() {
	defer func() {
		if r := recover(); r != nil {
			l.Logger.Error("scheduler tick panicked", zap.Any("panic", r))
		}
	}()

	ctx := context.Background()
	jobs, err := l.Jobs.FindDue(ctx, l.Now(), l.BatchLimit)
	if err != nil {
		if jobRepo.IsNotProvisioned(err) {
			// Fresh deployment before the collection exists; expected, skip.
			l.Logger.Warn("skip processing event jobs: store not provisioned yet")
			return
		}
		l.Logger.Error("failed to poll due event jobs", zap.Error(err))
		return
	}
	if len(jobs) == 0 {
		return
	}

	l.Logger.Info("found due event jobs", zap.Int("count", len(jobs)))
	for _, job := range jobs {
		l.Executor.Execute(ctx, job)
	}
}
