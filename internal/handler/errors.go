package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nakelabs/kasa-alert-connect/internal/domain"
	"github.com/nakelabs/kasa-alert-connect/internal/dto"
)

const retryAfterSeconds = 2

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuth:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindTimeout:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError writes err as the error envelope; untyped errors become internal_error
func (h *Handler) respondError(c *gin.Context, err error) {
	status, body := h.errorBody(c, err)
	c.JSON(status, body)
}

func (h *Handler) abort(c *gin.Context, err error) {
	status, body := h.errorBody(c, err)
	c.AbortWithStatusJSON(status, body)
}

func (h *Handler) errorBody(c *gin.Context, err error) (int, dto.ErrorResponse) {
	var de *domain.Error
	if !errors.As(err, &de) {
		if domain.IsTimeout(err) {
			de = domain.ErrTimeout.Wrap(err)
		} else {
			h.log.Error("Unhandled request error", zap.String("path", c.FullPath()), zap.Error(err))
			return http.StatusInternalServerError, dto.ErrorResponse{
				Error:   "internal_error",
				Message: "internal server error",
			}
		}
	}

	status := statusFor(de.Kind)
	if de.Kind == domain.KindTimeout {
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	if status >= http.StatusInternalServerError {
		h.log.Error("Request failed", zap.String("path", c.FullPath()), zap.String("code", de.Code), zap.Error(err))
	}

	return status, dto.ErrorResponse{
		Error:   string(de.Kind),
		Code:    de.Code,
		Message: de.Message,
	}
}

// bindError reports a request that failed gin binding
func (h *Handler) bindError(c *gin.Context, err error) {
	h.log.Warn("Invalid request", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   string(domain.KindValidation),
		Code:    "InvalidRequest",
		Message: err.Error(),
	})
}

// parseRange accepts RFC 3339 timestamps or bare dates; empty bounds are open.
// A bare "to" date covers that whole day.
func parseRange(from, to string) (time.Time, time.Time, error) {
	start, _, err := parseTime("from", from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, dateOnly, err := parseTime("to", to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if dateOnly {
		end = end.Add(24*time.Hour - time.Nanosecond)
	}
	return start, end, nil
}

func parseTime(field, value string) (time.Time, bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), false, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, domain.ErrInvalidFilter.WithMessage("%s must be an RFC 3339 timestamp or a YYYY-MM-DD date", field)
}
