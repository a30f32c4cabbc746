package scheduler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"evently/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// callbackRecorder captures the JSON bodies POSTed to the callback endpoint.
type callbackRecorder struct {
	mu     sync.Mutex
	bodies []map[string]any
	status int
}

func (r *callbackRecorder) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(req.Body).Decode(&body)
		r.mu.Lock()
		r.bodies = append(r.bodies, body)
		r.mu.Unlock()
		w.WriteHeader(r.status)
	}
}

func (r *callbackRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bodies)
}

func (r *callbackRecorder) last() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.bodies) == 0 {
		return nil
	}
	return r.bodies[len(r.bodies)-1]
}

func newTestExecutor(store *fakeJobStore, events *fakeEventSource, fanout *fakeFanout, callbackURL string) *Executor {
	return NewExecutor(store, events, fanout, callbackURL, 2*time.Second, zap.NewNop())
}

func seedDueJob(t *testing.T, store *fakeJobStore, eventID string, jobType models.EventJobType) models.EventJob {
	t.Helper()
	job, err := store.Upsert(context.Background(), eventID, jobType,
		time.Now().Add(-time.Minute),
		map[string]any{"eventId": eventID, "eventCode": "EV-" + eventID, "type": string(jobType)})
	require.NoError(t, err)
	return *job
}

func TestExecuteCompletesJobAndPostsCallback(t *testing.T) {
	recorder := &callbackRecorder{status: http.StatusOK}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	store := newFakeJobStore()
	events := newFakeEventSource(*publishedEvent("e1", time.Now().Add(time.Hour)))
	fanout := &fakeFanout{}
	exec := newTestExecutor(store, events, fanout, server.URL)

	job := seedDueJob(t, store, "e1", models.JobTypeRemindBefore1Hour)
	exec.Execute(context.Background(), job)

	got := store.byID(job.ID)
	assert.Equal(t, models.JobStatusCompleted, got.Status)
	assert.NotNil(t, got.ExecutedAt)
	assert.Empty(t, got.LastError)

	require.Equal(t, 1, fanout.callCount())
	assert.Equal(t, models.NotificationTypeReminder, fanout.calls[0].ntype)

	require.Equal(t, 1, recorder.count())
	body := recorder.last()
	assert.Equal(t, "e1", body["eventId"])
	assert.Equal(t, job.ID, body["jobId"])
	assert.Equal(t, string(models.JobTypeRemindBefore1Hour), body["type"])
	assert.Equal(t, "notif-1", body["notificationId"])
	assert.NotEmpty(t, body["message"])
	assert.Equal(t, "EV-e1", body["eventCode"], "stored payload fields carry through")
}

func TestExecuteFailsJobOnNon2xxCallback(t *testing.T) {
	recorder := &callbackRecorder{status: http.StatusBadGateway}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	store := newFakeJobStore()
	events := newFakeEventSource(*publishedEvent("e1", time.Now().Add(time.Hour)))
	fanout := &fakeFanout{}
	exec := newTestExecutor(store, events, fanout, server.URL)

	job := seedDueJob(t, store, "e1", models.JobTypeRemindBefore1Day)
	exec.Execute(context.Background(), job)

	got := store.byID(job.ID)
	assert.Equal(t, models.JobStatusFailed, got.Status)
	assert.Contains(t, got.LastError, "HTTP 502")
	assert.Nil(t, got.ExecutedAt)

	// The notification was already created; only the callback step failed.
	assert.Equal(t, 1, fanout.callCount())
}

func TestExecuteFailsJobOnTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // connection refused from here on

	store := newFakeJobStore()
	events := newFakeEventSource(*publishedEvent("e1", time.Now().Add(time.Hour)))
	exec := newTestExecutor(store, events, &fakeFanout{}, server.URL)

	job := seedDueJob(t, store, "e1", models.JobTypeEventStarted)
	exec.Execute(context.Background(), job)

	got := store.byID(job.ID)
	assert.Equal(t, models.JobStatusFailed, got.Status)
	assert.NotEmpty(t, got.LastError)
}

func TestExecuteFailsJobWhenEventMissing(t *testing.T) {
	store := newFakeJobStore()
	fanout := &fakeFanout{}
	exec := newTestExecutor(store, newFakeEventSource(), fanout, "http://callback.invalid")

	job := seedDueJob(t, store, "gone", models.JobTypeRemindBefore1Hour)
	exec.Execute(context.Background(), job)

	got := store.byID(job.ID)
	assert.Equal(t, models.JobStatusFailed, got.Status)
	assert.Equal(t, "event not found", got.LastError)
	assert.Equal(t, 0, fanout.callCount())
}

func TestExecuteCompletesMootJobWithoutSideEffects(t *testing.T) {
	recorder := &callbackRecorder{status: http.StatusOK}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	ev := publishedEvent("e1", time.Now().Add(time.Hour))
	ev.Status = models.EventStatusCancelled

	store := newFakeJobStore()
	fanout := &fakeFanout{}
	exec := newTestExecutor(store, newFakeEventSource(*ev), fanout, server.URL)

	job := seedDueJob(t, store, "e1", models.JobTypeRemindBefore1Hour)
	exec.Execute(context.Background(), job)

	got := store.byID(job.ID)
	assert.Equal(t, models.JobStatusCompleted, got.Status)
	assert.NotNil(t, got.ExecutedAt)
	assert.Equal(t, 0, fanout.callCount(), "moot jobs send nothing")
	assert.Equal(t, 0, recorder.count(), "moot jobs never hit the callback")
}

func TestExecuteFailsJobWithoutAnyCallbackURL(t *testing.T) {
	store := newFakeJobStore()
	events := newFakeEventSource(*publishedEvent("e1", time.Now().Add(time.Hour)))
	fanout := &fakeFanout{}
	exec := newTestExecutor(store, events, fanout, "")

	job := seedDueJob(t, store, "e1", models.JobTypeRemindBefore4Hours)
	exec.Execute(context.Background(), job)

	got := store.byID(job.ID)
	assert.Equal(t, models.JobStatusFailed, got.Status)
	assert.Equal(t, "no callback URL configured", got.LastError)
	assert.Equal(t, 0, fanout.callCount())
}

func TestExecutePrefersJobCallbackURLOverDefault(t *testing.T) {
	recorder := &callbackRecorder{status: http.StatusOK}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	store := newFakeJobStore()
	events := newFakeEventSource(*publishedEvent("e1", time.Now().Add(time.Hour)))
	exec := newTestExecutor(store, events, &fakeFanout{}, "http://default.invalid")

	job := seedDueJob(t, store, "e1", models.JobTypeRemindBefore1Hour)
	job.CallbackURL = server.URL
	exec.Execute(context.Background(), job)

	assert.Equal(t, models.JobStatusCompleted, store.byID(job.ID).Status)
	assert.Equal(t, 1, recorder.count())
}

func TestExecuteCompletesEvenWhenFanoutFails(t *testing.T) {
	recorder := &callbackRecorder{status: http.StatusOK}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	store := newFakeJobStore()
	events := newFakeEventSource(*publishedEvent("e1", time.Now().Add(time.Hour)))
	fanout := &fakeFanout{err: assert.AnError}
	exec := newTestExecutor(store, events, fanout, server.URL)

	job := seedDueJob(t, store, "e1", models.JobTypeRemindBefore1Hour)
	exec.Execute(context.Background(), job)

	got := store.byID(job.ID)
	assert.Equal(t, models.JobStatusCompleted, got.Status)

	// Without a notification the callback body omits the optional fields.
	body := recorder.last()
	require.NotNil(t, body)
	assert.NotContains(t, body, "notificationId")
}
