package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/practicum-admin-api/internal/models"
	"github.com/noah-isme/practicum-admin-api/pkg/response"
)

type paymentService interface {
	recordLister[models.CenterPayment]
	Get(ctx context.Context, id string) (*models.CenterPayment, error)
	Create(ctx context.Context, actor *models.AdminClaims, req models.CenterPaymentRequest) (*models.CenterPayment, error)
	Update(ctx context.Context, actor *models.AdminClaims, id string, req models.CenterPaymentRequest) (*models.CenterPayment, error)
	Delete(ctx context.Context, actor *models.AdminClaims, id string) error
	BulkDelete(ctx context.Context, actor *models.AdminClaims, req models.BulkIDsRequest) (models.BulkResult, error)
	BulkMarkPaid(ctx context.Context, actor *models.AdminClaims, req models.BulkIDsRequest) (models.BulkResult, error)
}

// PaymentHandler wires education center payments to HTTP routes.
type PaymentHandler struct {
	payments paymentService
}

// NewPaymentHandler constructs a new PaymentHandler.
func NewPaymentHandler(payments paymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// List godoc
// @Summary List center payments
// @Tags Payments
// @Produce json
// @Param search query string false "Free-text search over center, student, memo"
// @Param tab query string false "unpaid or paid"
// @Param month query []string false "Payment month buckets" collectionFormat(multi)
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	listRecords[models.CenterPayment](c, h.payments)
}

// Months godoc
// @Summary List payment months
// @Tags Payments
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /payments/months [get]
func (h *PaymentHandler) Months(c *gin.Context) {
	listMonths[models.CenterPayment](c, h.payments)
}

// Get godoc
// @Summary Get payment detail
// @Tags Payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	p, err := h.payments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, p, nil)
}

// Create godoc
// @Summary Create payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body models.CenterPaymentRequest true "Payment payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req models.CenterPaymentRequest
	if !bindJSON(c, &req, "payment") {
		return
	}
	p, err := h.payments.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, p)
}

// Update godoc
// @Summary Update payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param payload body models.CenterPaymentRequest true "Payment payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /payments/{id} [put]
func (h *PaymentHandler) Update(c *gin.Context) {
	var req models.CenterPaymentRequest
	if !bindJSON(c, &req, "payment") {
		return
	}
	p, err := h.payments.Update(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, p, nil)
}

// Delete godoc
// @Summary Delete payment
// @Tags Payments
// @Param id path string true "Payment ID"
// @Success 204
// @Security BearerAuth
// @Router /payments/{id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	if err := h.payments.Delete(c.Request.Context(), claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// BulkDelete godoc
// @Summary Delete many payments
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body models.BulkIDsRequest true "IDs"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Security BearerAuth
// @Router /payments/bulk-delete [post]
func (h *PaymentHandler) BulkDelete(c *gin.Context) {
	var req models.BulkIDsRequest
	if !bindJSON(c, &req, "bulk delete") {
		return
	}
	result, err := h.payments.BulkDelete(c.Request.Context(), claimsFromContext(c), req)
	bulkResponse(c, result, err)
}

// BulkMarkPaid godoc
// @Summary Mark many payments as paid today
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body models.BulkIDsRequest true "IDs"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Security BearerAuth
// @Router /payments/bulk-mark-paid [post]
func (h *PaymentHandler) BulkMarkPaid(c *gin.Context) {
	var req models.BulkIDsRequest
	if !bindJSON(c, &req, "bulk payment") {
		return
	}
	result, err := h.payments.BulkMarkPaid(c.Request.Context(), claimsFromContext(c), req)
	bulkResponse(c, result, err)
}
