package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	eventRepo "evently/database/repository/event"
	"evently/models"
)

// fakeJobStore is an in-memory JobStore with the same (eventId, type) upsert
// semantics as the Mongo repository.
type fakeJobStore struct {
	mu            sync.Mutex
	seq           int
	jobs          map[string]*models.EventJob // keyed by eventID|type
	findDueErr    error
	transitionErr error
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: make(map[string]*models.EventJob)}
}

func jobKey(eventID string, jobType models.EventJobType) string {
	return eventID + "|" + string(jobType)
}

func (f *fakeJobStore) Upsert(_ context.Context, eventID string, jobType models.EventJobType, runAt time.Time, payload map[string]any) (*models.EventJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := jobKey(eventID, jobType)
	if job, ok := f.jobs[key]; ok {
		job.RunAt = runAt
		job.Status = models.JobStatusPending
		job.ExecutedAt = nil
		job.LastError = ""
		copied := *job
		return &copied, nil
	}

	f.seq++
	job := &models.EventJob{
		ID:      fmt.Sprintf("job-%d", f.seq),
		EventID: eventID,
		Type:    jobType,
		RunAt:   runAt,
		Payload: payload,
		Status:  models.JobStatusPending,
	}
	f.jobs[key] = job
	copied := *job
	return &copied, nil
}

func (f *fakeJobStore) FindDue(_ context.Context, now time.Time, limit int64) ([]models.EventJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findDueErr != nil {
		return nil, f.findDueErr
	}

	var due []models.EventJob
	for _, job := range f.jobs {
		if job.Status == models.JobStatusPending && !job.RunAt.After(now) {
			due = append(due, *job)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].RunAt.Before(due[j].RunAt) })
	if int64(len(due)) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (f *fakeJobStore) Transition(_ context.Context, id string, status models.EventJobStatus, executedAt *time.Time, lastError string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.transitionErr != nil {
		return f.transitionErr
	}
	for _, job := range f.jobs {
		if job.ID == id {
			job.Status = status
			job.ExecutedAt = executedAt
			job.LastError = lastError
			return nil
		}
	}
	return fmt.Errorf("job %s not found", id)
}

func (f *fakeJobStore) get(eventID string, jobType models.EventJobType) *models.EventJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[jobKey(eventID, jobType)]
	if !ok {
		return nil
	}
	copied := *job
	return &copied
}

func (f *fakeJobStore) byID(id string) *models.EventJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, job := range f.jobs {
		if job.ID == id {
			copied := *job
			return &copied
		}
	}
	return nil
}

func (f *fakeJobStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.jobs)
}

// fakeEventSource serves events from a map; missing IDs yield the
// repository's not-found sentinel.
type fakeEventSource struct {
	mu     sync.Mutex
	events map[string]models.Event
	err    error
}

func newFakeEventSource(events ...models.Event) *fakeEventSource {
	src := &fakeEventSource{events: make(map[string]models.Event)}
	for _, ev := range events {
		src.events[ev.ID] = ev
	}
	return src
}

func (f *fakeEventSource) GetByID(_ context.Context, id string) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	ev, ok := f.events[id]
	if !ok {
		return nil, eventRepo.ErrNotFound
	}
	copied := ev
	return &copied, nil
}

// fanoutCall records one NotifyEventParticipants invocation.
type fanoutCall struct {
	eventID string
	title   string
	message string
	ntype   models.NotificationType
}

type fakeFanout struct {
	mu    sync.Mutex
	calls []fanoutCall
	err   error
}

func (f *fakeFanout) NotifyEventParticipants(_ context.Context, event *models.Event, title, message string, ntype models.NotificationType, _ *time.Time) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, fanoutCall{eventID: event.ID, title: title, message: message, ntype: ntype})
	if f.err != nil {
		return nil, f.err
	}
	return &models.Notification{
		ID:      fmt.Sprintf("notif-%d", len(f.calls)),
		EventID: event.ID,
		Title:   title,
		Message: message,
		Type:    ntype,
	}, nil
}

func (f *fakeFanout) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
