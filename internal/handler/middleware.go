package handler

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nakelabs/kasa-alert-connect/internal/domain"
)

const (
	agencyIDKey = "agencyID"
	tokenKey    = "token"

	gatewayTokenHeader = "X-Gateway-Token"
)

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if agencyID := c.GetString(agencyIDKey); agencyID != "" {
			fields = append(fields, zap.String("agency_id", agencyID))
		}

		if c.Writer.Status() >= 500 {
			log.Error("Request failed", fields...)
			return
		}
		log.Info("Request handled", fields...)
	}
}

// withTimeout bounds every request so store calls inherit a deadline
func (h *Handler) withTimeout() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.opts.RequestTimeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// requireAgency validates the bearer token and scopes the request to its agency
func (h *Handler) requireAgency() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			h.abort(c, domain.ErrInvalidToken.WithMessage("authorization header with a bearer token is required"))
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		agencyID, err := h.services.Auth.Validate(c.Request.Context(), token)
		if err != nil {
			h.abort(c, err)
			return
		}

		c.Set(agencyIDKey, agencyID)
		c.Set(tokenKey, token)
		c.Next()
	}
}

// requireGateway accepts only callers presenting the shared gateway token.
// An empty configured token disables the webhooks.
func (h *Handler) requireGateway() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := h.opts.GatewayToken
		got := c.GetHeader(gatewayTokenHeader)
		if expected == "" || subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			h.log.Warn("Webhook rejected: bad gateway token", zap.String("path", c.FullPath()))
			h.abort(c, domain.ErrInvalidToken.WithMessage("gateway token is missing or invalid"))
			return
		}
		c.Next()
	}
}

func agencyID(c *gin.Context) string {
	return c.GetString(agencyIDKey)
}
