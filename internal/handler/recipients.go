package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nakelabs/kasa-alert-connect/internal/domain"
	"github.com/nakelabs/kasa-alert-connect/internal/dto"
	"github.com/nakelabs/kasa-alert-connect/internal/service"
)

const templateFilename = "recipients_template.csv"

// listRecipients handles GET /users
// @Summary List recipients
// @Description List the agency's recipients, newest first
// @Tags recipients
// @Produce json
// @Security BearerAuth
// @Param location query string false "Location tag"
// @Param search query string false "Substring of name or phone"
// @Param includeInactive query bool false "Include deactivated recipients"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(50)
// @Success 200 {object} dto.SuccessResponse{data=[]dto.RecipientResponse,pagination=dto.Pagination}
// @Failure 400 {object} dto.ErrorResponse
// @Router /users [get]
func (h *Handler) listRecipients(c *gin.Context) {
	var req dto.ListRecipientsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.bindError(c, err)
		return
	}

	filter := domain.RecipientFilter{
		Location:        req.Location,
		Search:          req.Search,
		IncludeInactive: req.IncludeInactive,
		Page:            domain.Page{Number: req.Page, Limit: req.Limit},
	}
	recipients, total, err := h.services.Registry.List(c.Request.Context(), agencyID(c), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	data := make([]dto.RecipientResponse, len(recipients))
	for i := range recipients {
		data[i] = dto.NewRecipientResponse(&recipients[i])
	}
	okPage(c, data, dto.NewPagination(filter.Page, total))
}

// addRecipient handles POST /users
// @Summary Add a recipient
// @Description Register one phone number with the agency
// @Tags recipients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param recipient body dto.AddRecipientRequest true "Recipient"
// @Success 201 {object} dto.SuccessResponse{data=dto.RecipientResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /users [post]
func (h *Handler) addRecipient(c *gin.Context) {
	var req dto.AddRecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	recipient, err := h.services.Registry.Add(c.Request.Context(), agencyID(c), service.RecipientInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Location: req.Location,
		Priority: req.Priority,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	ok(c, http.StatusCreated, dto.NewRecipientResponse(recipient))
}

// uploadRecipients handles POST /users/upload
// @Summary Import recipients from CSV
// @Description Import name, phone, location[, priority] rows; bad rows are reported, not fatal
// @Tags recipients
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Success 200 {object} dto.SuccessResponse{data=dto.ImportResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /users/upload [post]
func (h *Handler) uploadRecipients(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		h.respondError(c, domain.ErrInvalidUpload.WithMessage("multipart field \"file\" is required"))
		return
	}
	if header.Size > h.opts.MaxUploadBytes {
		h.respondError(c, domain.ErrInvalidUpload.WithMessage("file exceeds %d bytes", h.opts.MaxUploadBytes))
		return
	}

	f, err := header.Open()
	if err != nil {
		h.respondError(c, domain.ErrInvalidUpload.Wrap(err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.opts.MaxUploadBytes+1))
	if err != nil {
		h.respondError(c, domain.ErrInvalidUpload.Wrap(err))
		return
	}

	result, err := h.services.Registry.BulkImport(c.Request.Context(), agencyID(c), header.Filename, data)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ok(c, http.StatusOK, dto.NewImportResponse(result))
}

// recipientTemplate handles GET /users/template
// @Summary Download the import template
// @Tags recipients
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file
// @Router /users/template [get]
func (h *Handler) recipientTemplate(c *gin.Context) {
	c.Header("Content-Disposition", "attachment; filename="+templateFilename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", h.services.Registry.Template())
}

// removeRecipient handles DELETE /users/{id}
// @Summary Remove a recipient
// @Description Delete a recipient, or deactivate it when past alerts reference it
// @Tags recipients
// @Security BearerAuth
// @Param id path string true "Recipient ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id} [delete]
func (h *Handler) removeRecipient(c *gin.Context) {
	if err := h.services.Registry.Remove(c.Request.Context(), agencyID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
