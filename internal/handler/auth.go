package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nakelabs/kasa-alert-connect/internal/dto"
)

// login handles POST /auth/login
// @Summary Sign in
// @Description Exchange agency credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Agency credentials"
// @Success 200 {object} dto.SuccessResponse{data=dto.LoginResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	result, err := h.services.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ok(c, http.StatusOK, dto.LoginResponse{
		User:      dto.NewUserResponse(result.Agency),
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	})
}

// logout handles POST /auth/logout
// @Summary Sign out
// @Description Revoke the presented bearer token
// @Tags auth
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	if err := h.services.Auth.Logout(c.Request.Context(), c.GetString(tokenKey)); err != nil {
		h.respondError(c, err)
		return
	}

	h.log.Info("Agency signed out", zap.String("agency_id", agencyID(c)))
	c.Status(http.StatusNoContent)
}

// me handles GET /auth/me
// @Summary Current agency
// @Description Return the agency the bearer token belongs to
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse{data=dto.UserResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/me [get]
func (h *Handler) me(c *gin.Context) {
	agency, err := h.services.Auth.Me(c.Request.Context(), agencyID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	ok(c, http.StatusOK, dto.NewUserResponse(agency))
}

// serveRealtime handles GET /ws
// @Summary Realtime feed
// @Description Upgrade to a websocket carrying alert.created and log.event_received events for the agency
// @Tags realtime
// @Param token query string true "Bearer token"
// @Success 101
// @Failure 401 {object} dto.ErrorResponse
// @Router /ws [get]
func (h *Handler) serveRealtime(c *gin.Context) {
	id, err := h.services.Auth.Validate(c.Request.Context(), c.Query("token"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.opts.Realtime.Serve(c.Writer, c.Request, id); err != nil {
		h.log.Warn("Websocket upgrade failed", zap.String("agency_id", id), zap.Error(err))
	}
}
