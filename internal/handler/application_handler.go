package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/practicum-admin-api/internal/models"
	"github.com/noah-isme/practicum-admin-api/internal/query"
	"github.com/noah-isme/practicum-admin-api/internal/service"
	appErrors "github.com/noah-isme/practicum-admin-api/pkg/errors"
	"github.com/noah-isme/practicum-admin-api/pkg/export"
	"github.com/noah-isme/practicum-admin-api/pkg/response"
)

type applicationService interface {
	recordLister[models.Application]
	Get(ctx context.Context, id string) (*models.Application, error)
	Submit(ctx context.Context, req models.SubmitApplicationRequest) (*models.Application, error)
	Create(ctx context.Context, actor *models.AdminClaims, req models.ApplicationRequest) (*models.Application, error)
	Update(ctx context.Context, actor *models.AdminClaims, id string, req models.ApplicationRequest) (*models.Application, error)
	SetPaymentStatus(ctx context.Context, actor *models.AdminClaims, id string, req models.PaymentStatusRequest) (*models.Application, error)
	SetCompletionStatus(ctx context.Context, actor *models.AdminClaims, id string, req models.CompletionStatusRequest) (*models.Application, error)
	Delete(ctx context.Context, actor *models.AdminClaims, id string) error
	BulkDelete(ctx context.Context, actor *models.AdminClaims, req models.BulkIDsRequest) (models.BulkResult, error)
	BulkSetPaymentStatus(ctx context.Context, actor *models.AdminClaims, req models.BulkPaymentStatusRequest) (models.BulkResult, error)
	Editable(ctx context.Context, id string) (*models.EditableContent, error)
	Export(ctx context.Context, actor *models.AdminClaims, q query.Query, format export.Format) (*service.ExportFile, error)
}

// ApplicationHandler wires student application services to HTTP routes.
type ApplicationHandler struct {
	applications applicationService
}

// NewApplicationHandler constructs a new ApplicationHandler.
func NewApplicationHandler(applications applicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

// Submit godoc
// @Summary Submit a practicum application
// @Description Public form endpoint. Privacy consent is mandatory.
// @Tags Public
// @Accept json
// @Produce json
// @Param payload body models.SubmitApplicationRequest true "Application form"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /public/applications [post]
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req models.SubmitApplicationRequest
	if !bindJSON(c, &req, "application") {
		return
	}
	app, err := h.applications.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"id": app.ID})
}

// List godoc
// @Summary List applications
// @Tags Applications
// @Produce json
// @Param search query string false "Free-text search over name, phone, email, region, institution, manager"
// @Param tab query string false "Status tab (pending, completed, refunded)"
// @Param from query string false "Created on or after (YYYY-MM-DD)"
// @Param to query string false "Created on or before (YYYY-MM-DD)"
// @Param month query []string false "Month buckets such as 24년03월" collectionFormat(multi)
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	listRecords[models.Application](c, h.applications)
}

// Months godoc
// @Summary List month buckets present in applications
// @Tags Applications
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /applications/months [get]
func (h *ApplicationHandler) Months(c *gin.Context) {
	listMonths[models.Application](c, h.applications)
}

// Get godoc
// @Summary Get application detail
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /applications/{id} [get]
func (h *ApplicationHandler) Get(c *gin.Context) {
	app, err := h.applications.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, nil)
}

// Editable godoc
// @Summary Get consultation notes as plain text
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /applications/{id}/editable [get]
func (h *ApplicationHandler) Editable(c *gin.Context) {
	content, err := h.applications.Editable(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, content, nil)
}

// Create godoc
// @Summary Create application
// @Tags Applications
// @Accept json
// @Produce json
// @Param payload body models.ApplicationRequest true "Application payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /applications [post]
func (h *ApplicationHandler) Create(c *gin.Context) {
	var req models.ApplicationRequest
	if !bindJSON(c, &req, "application") {
		return
	}
	app, err := h.applications.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, app)
}

// Update godoc
// @Summary Update application
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body models.ApplicationRequest true "Application payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /applications/{id} [put]
func (h *ApplicationHandler) Update(c *gin.Context) {
	var req models.ApplicationRequest
	if !bindJSON(c, &req, "application") {
		return
	}
	app, err := h.applications.Update(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, nil)
}

// SetPaymentStatus godoc
// @Summary Change application payment status
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body models.PaymentStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /applications/{id}/payment-status [patch]
func (h *ApplicationHandler) SetPaymentStatus(c *gin.Context) {
	var req models.PaymentStatusRequest
	if !bindJSON(c, &req, "payment status") {
		return
	}
	app, err := h.applications.SetPaymentStatus(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, nil)
}

// SetCompletionStatus godoc
// @Summary Change practice completion status
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body models.CompletionStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /applications/{id}/completion-status [patch]
func (h *ApplicationHandler) SetCompletionStatus(c *gin.Context) {
	var req models.CompletionStatusRequest
	if !bindJSON(c, &req, "completion status") {
		return
	}
	app, err := h.applications.SetCompletionStatus(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, nil)
}

// Delete godoc
// @Summary Delete application
// @Tags Applications
// @Param id path string true "Application ID"
// @Success 204
// @Security BearerAuth
// @Router /applications/{id} [delete]
func (h *ApplicationHandler) Delete(c *gin.Context) {
	if err := h.applications.Delete(c.Request.Context(), claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// BulkDelete godoc
// @Summary Delete many applications
// @Description Every listed ID is attempted. Partial failure returns BATCH_FAILED with succeeded and failed IDs.
// @Tags Applications
// @Accept json
// @Produce json
// @Param payload body models.BulkIDsRequest true "IDs"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Security BearerAuth
// @Router /applications/bulk-delete [post]
func (h *ApplicationHandler) BulkDelete(c *gin.Context) {
	var req models.BulkIDsRequest
	if !bindJSON(c, &req, "bulk delete") {
		return
	}
	result, err := h.applications.BulkDelete(c.Request.Context(), claimsFromContext(c), req)
	bulkResponse(c, result, err)
}

// BulkSetPaymentStatus godoc
// @Summary Change payment status of many applications
// @Tags Applications
// @Accept json
// @Produce json
// @Param payload body models.BulkPaymentStatusRequest true "IDs and status"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Security BearerAuth
// @Router /applications/bulk-payment-status [post]
func (h *ApplicationHandler) BulkSetPaymentStatus(c *gin.Context) {
	var req models.BulkPaymentStatusRequest
	if !bindJSON(c, &req, "bulk payment status") {
		return
	}
	result, err := h.applications.BulkSetPaymentStatus(c.Request.Context(), claimsFromContext(c), req)
	bulkResponse(c, result, err)
}

// Export godoc
// @Summary Export filtered applications
// @Description Renders every application matching the list filters, ignoring pagination.
// @Tags Applications
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /applications/export [get]
func (h *ApplicationHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
		return
	}
	file, err := h.applications.Export(c.Request.Context(), claimsFromContext(c), recordQuery(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
