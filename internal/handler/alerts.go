package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nakelabs/kasa-alert-connect/internal/domain"
	"github.com/nakelabs/kasa-alert-connect/internal/dto"
	"github.com/nakelabs/kasa-alert-connect/internal/service"
)

const idempotencyKeyHeader = "Idempotency-Key"

// sendAlert handles POST /alerts
// @Summary Send an alert
// @Description Fan an alert out to the agency's matching recipients and queue it for SMS delivery
// @Tags alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param alert body dto.SendAlertRequest true "Alert to send"
// @Param Idempotency-Key header string false "Retries with the same key are rejected as duplicates"
// @Success 201 {object} dto.SuccessResponse{data=dto.AlertResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /alerts [post]
func (h *Handler) sendAlert(c *gin.Context) {
	var req dto.SendAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	alert, err := h.services.Dispatcher.Send(c.Request.Context(), agencyID(c), service.SendRequest{
		Message:        req.Message,
		Selector:       domain.Selector(req.Recipients),
		Location:       req.Location,
		Priority:       domain.Priority(req.Priority),
		IdempotencyKey: c.GetHeader(idempotencyKeyHeader),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Success: true,
		Data:    dto.NewAlertResponse(alert),
		Message: fmt.Sprintf("alert queued for %d recipients", alert.TotalRecipients),
	})
}

// listAlerts handles GET /alerts
// @Summary List alerts
// @Description List the agency's alerts, newest first, with delivery counts
// @Tags alerts
// @Produce json
// @Security BearerAuth
// @Param priority query string false "Priority filter" Enums(low, normal, high, critical)
// @Param from query string false "Lower bound on send time (RFC 3339 or YYYY-MM-DD)"
// @Param to query string false "Upper bound on send time (RFC 3339 or YYYY-MM-DD)"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(50)
// @Success 200 {object} dto.SuccessResponse{data=[]dto.AlertResponse,pagination=dto.Pagination}
// @Failure 400 {object} dto.ErrorResponse
// @Router /alerts [get]
func (h *Handler) listAlerts(c *gin.Context) {
	var req dto.ListAlertsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.bindError(c, err)
		return
	}

	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		h.respondError(c, err)
		return
	}

	filter := domain.AlertFilter{
		Priority: domain.Priority(req.Priority),
		From:     from,
		To:       to,
		Page:     domain.Page{Number: req.Page, Limit: req.Limit},
	}
	alerts, total, err := h.services.Dispatcher.List(c.Request.Context(), agencyID(c), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	data := make([]dto.AlertResponse, len(alerts))
	for i := range alerts {
		data[i] = dto.NewAlertResponse(&alerts[i])
	}
	okPage(c, data, dto.NewPagination(filter.Page, total))
}

// recipientCount handles GET /alerts/recipient-count
// @Summary Preview recipient count
// @Description Count the active recipients a selector would resolve to right now
// @Tags alerts
// @Produce json
// @Security BearerAuth
// @Param recipients query string true "Selector" Enums(all, location, priority)
// @Param location query string false "Location tag"
// @Success 200 {object} dto.SuccessResponse{data=dto.CountResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /alerts/recipient-count [get]
func (h *Handler) recipientCount(c *gin.Context) {
	var req dto.RecipientCountRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.bindError(c, err)
		return
	}

	count, err := h.services.Dispatcher.RecipientCount(c.Request.Context(), agencyID(c), domain.RecipientSelection{
		Selector: domain.Selector(req.Recipients),
		Location: req.Location,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	ok(c, http.StatusOK, dto.CountResponse{Count: count})
}

// listLogs handles GET /alerts/logs
// @Summary Query the delivery ledger
// @Description List per-recipient delivery rows, newest first
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter" Enums(all, pending, delivered, failed)
// @Param alertId query string false "Restrict to one alert"
// @Param from query string false "Lower bound on send time (RFC 3339 or YYYY-MM-DD)"
// @Param to query string false "Upper bound on send time (RFC 3339 or YYYY-MM-DD)"
// @Param range query string false "Shorthand lower bound, ignored when from is set" Enums(all, today, week, month)
// @Param search query string false "Substring of message, recipient or reply"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(50)
// @Success 200 {object} dto.SuccessResponse{data=[]dto.AlertLogResponse,pagination=dto.Pagination}
// @Failure 400 {object} dto.ErrorResponse
// @Router /alerts/logs [get]
func (h *Handler) listLogs(c *gin.Context) {
	var req dto.ListLogsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.bindError(c, err)
		return
	}

	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if from.IsZero() && req.Range != "" {
		period, err := domain.ParsePeriod(req.Range)
		if err != nil {
			h.respondError(c, err)
			return
		}
		from = period.Since(time.Now())
	}

	status := domain.LogStatus(req.Status)
	if status == domain.LogStatusAll {
		status = ""
	}

	filter := domain.LogFilter{
		Status:  status,
		AlertID: req.AlertID,
		From:    from,
		To:      to,
		Search:  req.Search,
		Page:    domain.Page{Number: req.Page, Limit: req.Limit},
	}
	logs, total, err := h.services.Ledger.Query(c.Request.Context(), agencyID(c), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	data := make([]dto.AlertLogResponse, len(logs))
	for i := range logs {
		data[i] = dto.NewAlertLogResponse(&logs[i])
	}
	okPage(c, data, dto.NewPagination(filter.Page, total))
}

// logHistory handles GET /alerts/logs/{id}/events
// @Summary Delivery event history
// @Description List every receipt and reply recorded for one ledger row, oldest first
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Param id path string true "Alert log ID"
// @Success 200 {object} dto.SuccessResponse{data=[]dto.DeliveryEventResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /alerts/logs/{id}/events [get]
func (h *Handler) logHistory(c *gin.Context) {
	events, err := h.services.Ledger.History(c.Request.Context(), agencyID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	data := make([]dto.DeliveryEventResponse, len(events))
	for i := range events {
		data[i] = dto.NewDeliveryEventResponse(&events[i])
	}

	h.log.Debug("Delivery history retrieved",
		zap.String("alert_log_id", c.Param("id")),
		zap.Int("events", len(events)))

	ok(c, http.StatusOK, data)
}
