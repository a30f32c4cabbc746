package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"evently/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// recordingExecutor counts executions and can panic on demand.
type recordingExecutor struct {
	mu       sync.Mutex
	executed []string
	panicOn  string
}

func (r *recordingExecutor) Execute(_ context.Context, job models.EventJob) {
	r.mu.Lock()
	shouldPanic := r.panicOn != "" && job.ID == r.panicOn
	if !shouldPanic {
		r.executed = append(r.executed, job.ID)
	}
	r.mu.Unlock()
	if shouldPanic {
		panic("executor blew up")
	}
}

func (r *recordingExecutor) ids() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.executed...)
}

func newTestLoop(store *fakeJobStore, exec JobExecutor) *Loop {
	return NewLoop(store, exec, 10*time.Millisecond, 50, zap.NewNop())
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestLoopExecutesDueJobsInRunAtOrder(t *testing.T) {
	store := newFakeJobStore()
	past := time.Now().Add(-time.Hour)
	_, err := store.Upsert(context.Background(), "e1", models.JobTypeRemindBefore1Hour, past.Add(time.Minute), nil)
	require.NoError(t, err)
	_, err = store.Upsert(context.Background(), "e2", models.JobTypeRemindBefore1Hour, past, nil)
	require.NoError(t, err)

	exec := &recordingExecutor{}
	loop := newTestLoop(store, exec)
	loop.Start()
	defer loop.Stop()

	waitFor(t, func() bool { return len(exec.ids()) >= 2 })

	ids := exec.ids()[:2]
	assert.Equal(t, store.get("e2", models.JobTypeRemindBefore1Hour).ID, ids[0], "earlier runAt goes first")
	assert.Equal(t, store.get("e1", models.JobTypeRemindBefore1Hour).ID, ids[1])
}

func TestLoopSurvivesExecutorPanic(t *testing.T) {
	store := newFakeJobStore()
	bad, err := store.Upsert(context.Background(), "e1", models.JobTypeRemindBefore1Hour, time.Now().Add(-time.Hour), nil)
	require.NoError(t, err)

	exec := &recordingExecutor{panicOn: bad.ID}
	loop := newTestLoop(store, exec)
	loop.Start()
	defer loop.Stop()

	// Let the panicking tick happen, then prove later ticks still run by
	// adding a second job and watching it execute.
	time.Sleep(30 * time.Millisecond)
	exec.mu.Lock()
	exec.panicOn = ""
	exec.mu.Unlock()

	_, err = store.Upsert(context.Background(), "e2", models.JobTypeRemindBefore1Hour, time.Now().Add(-time.Minute), nil)
	require.NoError(t, err)

	waitFor(t, func() bool {
		for _, id := range exec.ids() {
			if id != bad.ID {
				return true
			}
		}
		return false
	})
}

func TestLoopSkipsTickWhenStoreNotProvisioned(t *testing.T) {
	store := newFakeJobStore()
	store.findDueErr = mongo.CommandError{Code: 26, Message: "ns not found"}
	_, err := store.Upsert(context.Background(), "e1", models.JobTypeRemindBefore1Hour, time.Now().Add(-time.Hour), nil)
	require.NoError(t, err)

	exec := &recordingExecutor{}
	loop := newTestLoop(store, exec)
	loop.Start()

	time.Sleep(50 * time.Millisecond)
	loop.Stop()

	assert.Empty(t, exec.ids(), "nothing executes while the store is unprovisioned")
}

func TestLoopStartIsIdempotentAndStopWaits(t *testing.T) {
	store := newFakeJobStore()
	exec := &recordingExecutor{}
	loop := newTestLoop(store, exec)

	loop.Start()
	loop.Start() // second call must not spawn a second goroutine
	loop.Stop()
	loop.Stop() // stopping twice is safe too
}
