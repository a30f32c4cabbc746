package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	eventRepo "evently/database/repository/event"
	"evently/models"

	"go.uber.org/zap"
)

// Executor carries one due job through its business logic: re-validate the
// event, fan out the in-app notification, call the external endpoint, and
// record the terminal status. There is no automatic retry; a failed job stays
// failed until a future event update re-plans it.
type Executor struct {
	Jobs   JobStore
	Events EventSource
	Fanout Fanout

	// DefaultCallbackURL is the process-wide fallback when a job has no
	// callback_url of its own.
	DefaultCallbackURL string
	// Client performs the outbound callback; its timeout bounds how long one
	// slow endpoint can stall the sequential batch.
	Client *http.Client

	Logger *zap.Logger
	Now    func() time.Time
}

func NewExecutor(jobs JobStore, events EventSource, fanout Fanout, defaultCallbackURL string, timeout time.Duration, logger *zap.Logger) *Executor {
	return &Executor{
		Jobs:               jobs,
		Events:             events,
		Fanout:             fanout,
		DefaultCallbackURL: defaultCallbackURL,
		Client:             &http.Client{Timeout: timeout},
		Logger:             logger,
		Now:                time.Now,
	}
}

// Execute processes a single due job. All outcomes are persisted as status
// transitions; Execute itself never returns an error to the loop.
func (e *Executor) Execute(ctx context.Context, job models.EventJob) {
	e.Logger.Debug("processing event job",
		zap.String("jobId", job.ID),
		zap.String("eventId", job.EventID),
		zap.String("type", string(job.Type)))

	// Mark processing first so a crash mid-execution leaves visible evidence
	// instead of silently re-queuing. Re-polling skips PROCESSING jobs.
	if err := e.Jobs.Transition(ctx, job.ID, models.JobStatusProcessing, nil, ""); err != nil {
		e.Logger.Error("failed to mark job processing",
			zap.String("jobId", job.ID), zap.Error(err))
		return
	}

	event, err := e.Events.GetByID(ctx, job.EventID)
	if err != nil {
		if errors.Is(err, eventRepo.ErrNotFound) {
			e.Logger.Warn("skip job because event no longer exists",
				zap.String("jobId", job.ID), zap.String("eventId", job.EventID))
			e.fail(ctx, job, "event not found")
			return
		}
		// Storage trouble: leave the job PROCESSING so the stall is visible;
		// recovery is manual, matching the crash-mid-execution policy.
		e.Logger.Error("failed to load event for job",
			zap.String("jobId", job.ID), zap.Error(err))
		return
	}

	if !event.IsPublished() {
		// The reminder is moot; completing it prevents resending for
		// cancelled or closed events.
		e.Logger.Debug("completing job for event no longer published",
			zap.String("jobId", job.ID),
			zap.String("status", string(event.Status)))
		e.complete(ctx, job)
		return
	}

	url := job.CallbackURL
	if url == "" {
		url = e.DefaultCallbackURL
	}
	if url == "" {
		e.Logger.Error("no callback URL configured for job",
			zap.String("jobId", job.ID))
		e.fail(ctx, job, "no callback URL configured")
		return
	}

	title, message := reminderContent(job.Type, event)

	// In-app delivery is best effort; the authoritative action is the callback.
	var notif *models.Notification
	if e.Fanout != nil {
		n, err := e.Fanout.NotifyEventParticipants(ctx, event, title, message, models.NotificationTypeReminder, &job.RunAt)
		if err != nil {
			e.Logger.Error("failed to create notification for job",
				zap.String("jobId", job.ID), zap.Error(err))
		} else {
			notif = n
		}
	}

	body := e.callbackBody(job, notif, message)
	if err := e.postCallback(ctx, url, body); err != nil {
		e.Logger.Error("event job callback failed",
			zap.String("jobId", job.ID),
			zap.String("url", url),
			zap.Error(err))
		e.fail(ctx, job, err.Error())
		return
	}

	e.complete(ctx, job)
	e.Logger.Info("event job completed",
		zap.String("jobId", job.ID),
		zap.String("eventId", job.EventID),
		zap.String("type", string(job.Type)))
}

// callbackBody builds the JSON payload for the external endpoint, layering
// the canonical fields over whatever the job's stored payload carries.
func (e *Executor) callbackBody(job models.EventJob, notif *models.Notification, message string) map[string]any {
	body := make(map[string]any, len(job.Payload)+6)
	for k, v := range job.Payload {
		body[k] = v
	}
	body["eventId"] = job.EventID
	body["jobId"] = job.ID
	body["type"] = string(job.Type)
	body["runAt"] = job.RunAt.Format(time.RFC3339)
	if notif != nil {
		body["notificationId"] = notif.ID
		body["message"] = message
	}
	return body
}

// postCallback POSTs the payload; any non-2xx response is an error.
func (e *Executor) postCallback(ctx context.Context, url string, body map[string]any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal callback body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.Client.Do(req)
	if err != nil {
		return fmt.Errorf("callback request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("callback returned HTTP %d: %s", resp.StatusCode, string(text))
	}
	return nil
}

func (e *Executor) fail(ctx context.Context, job models.EventJob, reason string) {
	if err := e.Jobs.Transition(ctx, job.ID, models.JobStatusFailed, nil, reason); err != nil {
		e.Logger.Error("failed to mark job failed",
			zap.String("jobId", job.ID), zap.Error(err))
	}
}

func (e *Executor) complete(ctx context.Context, job models.EventJob) {
	executedAt := e.Now()
	if err := e.Jobs.Transition(ctx, job.ID, models.JobStatusCompleted, &executedAt, ""); err != nil {
		e.Logger.Error("failed to mark job completed",
			zap.String("jobId", job.ID), zap.Error(err))
	}
}

// reminderContent builds the human-readable title and message for a job.
func reminderContent(jobType models.EventJobType, event *models.Event) (string, string) {
	start := event.StartTime
	switch jobType {
	case models.JobTypeRemindBefore1Day:
		return fmt.Sprintf("Reminder: %s", event.Name),
			fmt.Sprintf("Event %s takes place on %s at %s, please be ready",
				event.Name, start.Format("02/01/2006"), start.Format("15:04"))
	case models.JobTypeRemindBefore4Hours:
		return fmt.Sprintf("Reminder: %s", event.Name),
			fmt.Sprintf("Event %s starts in 4 hours, please be ready", event.Name)
	case models.JobTypeRemindBefore1Hour:
		return fmt.Sprintf("Reminder: %s", event.Name),
			fmt.Sprintf("Event %s starts in 1 hour, please be ready", event.Name)
	case models.JobTypeEventStarted:
		return fmt.Sprintf("Event %s has started", event.Name),
			fmt.Sprintf("Event %s has started", event.Name)
	default:
		return event.Name, fmt.Sprintf("Update for event %s", event.Name)
	}
}
