package handlers

import (
	"errors"
	"net/http"

	eventRepo "evently/database/repository/event"
	jobRepo "evently/database/repository/job"
	participantRepo "evently/database/repository/participant"
	"evently/services/event"
	"evently/utils"

	"github.com/gin-gonic/gin"
)

// EventHandler exposes the event write surface that feeds the reminder
// planner, plus the scheduled-job listing for operators.
type EventHandler struct {
	Service event.EventService
	Jobs    jobRepo.EventJobRepository
}

func NewEventHandler(service event.EventService, jobs jobRepo.EventJobRepository) *EventHandler {
	return &EventHandler{Service: service, Jobs: jobs}
}

// CreateEventHandler handles POST /api/events.
func (h *EventHandler) CreateEventHandler(c *gin.Context) {
	var input event.CreateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	created, err := h.Service.Create(c.Request.Context(), input)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create event", err.Error())
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateEventHandler handles PUT /api/events/:id.
func (h *EventHandler) UpdateEventHandler(c *gin.Context) {
	var input event.UpdateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	updated, err := h.Service.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		if errors.Is(err, eventRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "event not found", c.Param("id"))
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to update event", err.Error())
		return
	}
	c.JSON(http.StatusOK, updated)
}

// GetEventHandler handles GET /api/events/:id.
func (h *EventHandler) GetEventHandler(c *gin.Context) {
	ev, err := h.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, eventRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "event not found", c.Param("id"))
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to load event", err.Error())
		return
	}
	c.JSON(http.StatusOK, ev)
}

// ListEventJobsHandler handles GET /api/events/:id/jobs.
func (h *EventHandler) ListEventJobsHandler(c *gin.Context) {
	jobs, err := h.Jobs.ListByEventID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list event jobs", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": jobs})
}

// CheckinHandler handles POST /api/events/:id/checkin. The authenticated
// participant checks themselves in.
func (h *EventHandler) CheckinHandler(c *gin.Context) {
	participantID := c.GetString("participantID")
	if participantID == "" {
		utils.JSONError(c, http.StatusUnauthorized, "missing participant identity", "")
		return
	}

	relation, err := h.Service.CheckIn(c.Request.Context(), c.Param("id"), participantID)
	if err != nil {
		if errors.Is(err, participantRepo.ErrNotFound) || errors.Is(err, eventRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "event participation not found", c.Param("id"))
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to check in", err.Error())
		return
	}
	c.JSON(http.StatusOK, relation)
}
