package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/practicum-admin-api/internal/models"
	"github.com/noah-isme/practicum-admin-api/pkg/response"
)

type memoService interface {
	recordLister[models.MemoView]
	Get(ctx context.Context, id string) (*models.MemoView, error)
	Editable(ctx context.Context, id string) (*models.EditableContent, error)
	Create(ctx context.Context, actor *models.AdminClaims, req models.ConsultationMemoRequest) (*models.MemoView, error)
	Update(ctx context.Context, actor *models.AdminClaims, id string, req models.ConsultationMemoRequest) (*models.MemoView, error)
	Delete(ctx context.Context, actor *models.AdminClaims, id string) error
	BulkDelete(ctx context.Context, actor *models.AdminClaims, req models.BulkIDsRequest) (models.BulkResult, error)
}

// MemoHandler wires consultation memos to HTTP routes.
type MemoHandler struct {
	memos memoService
}

// NewMemoHandler constructs a new MemoHandler.
func NewMemoHandler(memos memoService) *MemoHandler {
	return &MemoHandler{memos: memos}
}

// List godoc
// @Summary List consultation memos
// @Description Each memo carries its stored content and the display lines derived from it.
// @Tags Memos
// @Produce json
// @Param search query string false "Search over student, phone, counselor, content"
// @Param f.channel query string false "phone, visit or online"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /memos [get]
func (h *MemoHandler) List(c *gin.Context) {
	listRecords[models.MemoView](c, h.memos)
}

// Months godoc
// @Summary List memo months
// @Tags Memos
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /memos/months [get]
func (h *MemoHandler) Months(c *gin.Context) {
	listMonths[models.MemoView](c, h.memos)
}

// Get godoc
// @Summary Get memo detail
// @Tags Memos
// @Produce json
// @Param id path string true "Memo ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /memos/{id} [get]
func (h *MemoHandler) Get(c *gin.Context) {
	memo, err := h.memos.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, memo, nil)
}

// Editable godoc
// @Summary Get memo content as plain text
// @Tags Memos
// @Produce json
// @Param id path string true "Memo ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /memos/{id}/editable [get]
func (h *MemoHandler) Editable(c *gin.Context) {
	content, err := h.memos.Editable(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, content, nil)
}

// Create godoc
// @Summary Create memo
// @Tags Memos
// @Accept json
// @Produce json
// @Param payload body models.ConsultationMemoRequest true "Memo payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /memos [post]
func (h *MemoHandler) Create(c *gin.Context) {
	var req models.ConsultationMemoRequest
	if !bindJSON(c, &req, "memo") {
		return
	}
	memo, err := h.memos.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, memo)
}

// Update godoc
// @Summary Update memo
// @Tags Memos
// @Accept json
// @Produce json
// @Param id path string true "Memo ID"
// @Param payload body models.ConsultationMemoRequest true "Memo payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /memos/{id} [put]
func (h *MemoHandler) Update(c *gin.Context) {
	var req models.ConsultationMemoRequest
	if !bindJSON(c, &req, "memo") {
		return
	}
	memo, err := h.memos.Update(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, memo, nil)
}

// Delete godoc
// @Summary Delete memo
// @Tags Memos
// @Param id path string true "Memo ID"
// @Success 204
// @Security BearerAuth
// @Router /memos/{id} [delete]
func (h *MemoHandler) Delete(c *gin.Context) {
	if err := h.memos.Delete(c.Request.Context(), claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// BulkDelete godoc
// @Summary Delete many memos
// @Tags Memos
// @Accept json
// @Produce json
// @Param payload body models.BulkIDsRequest true "IDs"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Security BearerAuth
// @Router /memos/bulk-delete [post]
func (h *MemoHandler) BulkDelete(c *gin.Context) {
	var req models.BulkIDsRequest
	if !bindJSON(c, &req, "bulk delete") {
		return
	}
	result, err := h.memos.BulkDelete(c.Request.Context(), claimsFromContext(c), req)
	bulkResponse(c, result, err)
}
