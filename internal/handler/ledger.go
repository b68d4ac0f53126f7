package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nakelabs/kasa-alert-connect/internal/domain"
	"github.com/nakelabs/kasa-alert-connect/internal/dto"
)

// dashboardStats handles GET /dashboard/stats
// @Summary Dashboard statistics
// @Description Active recipients, alerts sent, replies and delivery rate for a period
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param range query string false "Period" Enums(all, today, week, month) default(all)
// @Success 200 {object} dto.SuccessResponse{data=dto.StatsResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /dashboard/stats [get]
func (h *Handler) dashboardStats(c *gin.Context) {
	var req dto.StatsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.bindError(c, err)
		return
	}

	period, err := domain.ParsePeriod(req.Range)
	if err != nil {
		h.respondError(c, err)
		return
	}

	stats, err := h.services.Stats.Compute(c.Request.Context(), agencyID(c), period)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ok(c, http.StatusOK, dto.NewStatsResponse(stats))
}

// deliveryReceipt handles POST /webhooks/delivery-receipts
// @Summary Gateway delivery receipt
// @Description Accept a delivered or failed receipt for one ledger row
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Gateway-Token header string true "Shared gateway token"
// @Param receipt body dto.DeliveryReceiptWebhook true "Receipt"
// @Success 202 {object} dto.SuccessResponse{data=dto.AcceptedResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /webhooks/delivery-receipts [post]
func (h *Handler) deliveryReceipt(c *gin.Context) {
	var req dto.DeliveryReceiptWebhook
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	h.ingest(c, &domain.DeliveryEvent{
		EventID:      req.EventID,
		Kind:         domain.EventKindReceipt,
		AlertLogID:   req.AlertLogID,
		Status:       domain.LogStatus(req.Status),
		FailedReason: req.FailedReason,
		OccurredAt:   req.Timestamp,
	})
}

// reply handles POST /webhooks/replies
// @Summary Gateway inbound reply
// @Description Accept an SMS reply for one ledger row
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Gateway-Token header string true "Shared gateway token"
// @Param reply body dto.ReplyWebhook true "Reply"
// @Success 202 {object} dto.SuccessResponse{data=dto.AcceptedResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /webhooks/replies [post]
func (h *Handler) reply(c *gin.Context) {
	var req dto.ReplyWebhook
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	h.ingest(c, &domain.DeliveryEvent{
		EventID:    req.EventID,
		Kind:       domain.EventKindReply,
		AlertLogID: req.AlertLogID,
		Reply:      req.Reply,
		OccurredAt: req.Timestamp,
	})
}

func (h *Handler) ingest(c *gin.Context, event *domain.DeliveryEvent) {
	if err := h.services.Ledger.Ingest(c.Request.Context(), event); err != nil {
		h.respondError(c, err)
		return
	}

	ok(c, http.StatusAccepted, dto.AcceptedResponse{EventID: event.EventID, Status: "accepted"})
}
