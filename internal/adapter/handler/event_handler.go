package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/srgjo27/event_ticket/internal/core/domain"
	"github.com/srgjo27/event_ticket/internal/core/services"
)

type EventHandler struct {
	svc *services.EventService
}

func NewEventHandler(svc *services.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req services.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.NewValidationError("body", "invalid json body", err))
		return
	}

	event, err := h.svc.CreateEvent(c.Request.Context(), callerFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newEventResponse(event))
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	var req services.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.NewValidationError("body", "invalid json body", err))
		return
	}

	event, err := h.svc.UpdateEvent(c.Request.Context(), callerFrom(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newEventResponse(event))
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.svc.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newEventResponse(event))
}

func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.svc.ListEvents(c.Request.Context(), c.Query("organizer_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]eventResponse, 0, len(events))
	for i := range events {
		resp = append(resp, newEventResponse(&events[i]))
	}

	c.JSON(http.StatusOK, resp)
}
