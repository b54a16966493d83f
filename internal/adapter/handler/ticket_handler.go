package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/srgjo27/event_ticket/internal/core/domain"
	"github.com/srgjo27/event_ticket/internal/core/services"
)

type TicketHandler struct {
	issuance   *services.IssuanceService
	validation *services.ValidationService
	reports    *services.ReportService
}

func NewTicketHandler(issuance *services.IssuanceService, validation *services.ValidationService, reports *services.ReportService) *TicketHandler {
	return &TicketHandler{issuance: issuance, validation: validation, reports: reports}
}

func (h *TicketHandler) IssueTickets(c *gin.Context) {
	var req services.IssueTicketsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.NewValidationError("body", "invalid json body", err))
		return
	}
	req.Caller = callerFrom(c)

	resp, err := h.issuance.IssueTickets(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *TicketHandler) LookupTicket(c *gin.Context) {
	view, err := h.validation.LookupTicket(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTicketViewResponse(view))
}

func (h *TicketHandler) ScanTicket(c *gin.Context) {
	var body scanRequest
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
			writeError(c, domain.NewValidationError("body", "invalid json body", err))
			return
		}
	}

	resp, err := h.validation.ScanTicket(c.Request.Context(), services.ScanTicketRequest{
		Code:    c.Param("code"),
		Scanner: callerFrom(c),
		Context: domain.ScanContext{Location: body.Location, Meta: body.Meta},
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *TicketHandler) GetEventReport(c *gin.Context) {
	report, err := h.reports.GetEventReport(c.Request.Context(), callerFrom(c), c.Param("eventId"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
