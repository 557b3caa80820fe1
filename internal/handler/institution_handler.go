package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/practicum-admin-api/internal/models"
	"github.com/noah-isme/practicum-admin-api/pkg/response"
)

type institutionService interface {
	recordLister[models.Institution]
	Get(ctx context.Context, id string) (*models.Institution, error)
	Create(ctx context.Context, actor *models.AdminClaims, req models.InstitutionRequest) (*models.Institution, error)
	Update(ctx context.Context, actor *models.AdminClaims, id string, req models.InstitutionRequest) (*models.Institution, error)
	Delete(ctx context.Context, actor *models.AdminClaims, id string) error
	BulkDelete(ctx context.Context, actor *models.AdminClaims, req models.BulkIDsRequest) (models.BulkResult, error)
}

// InstitutionHandler wires the partner institution registry to HTTP routes.
type InstitutionHandler struct {
	institutions institutionService
}

// NewInstitutionHandler constructs a new InstitutionHandler.
func NewInstitutionHandler(institutions institutionService) *InstitutionHandler {
	return &InstitutionHandler{institutions: institutions}
}

// List godoc
// @Summary List institutions
// @Tags Institutions
// @Produce json
// @Param search query string false "Free-text search"
// @Param f.institution_type query string false "practice_institution or education_center"
// @Param f.region query string false "Region"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /institutions [get]
func (h *InstitutionHandler) List(c *gin.Context) {
	listRecords[models.Institution](c, h.institutions)
}

// Months godoc
// @Summary List month buckets present in institutions
// @Tags Institutions
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /institutions/months [get]
func (h *InstitutionHandler) Months(c *gin.Context) {
	listMonths[models.Institution](c, h.institutions)
}

// Get godoc
// @Summary Get institution detail
// @Tags Institutions
// @Produce json
// @Param id path string true "Institution ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /institutions/{id} [get]
func (h *InstitutionHandler) Get(c *gin.Context) {
	inst, err := h.institutions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, inst, nil)
}

// Create godoc
// @Summary Create institution
// @Tags Institutions
// @Accept json
// @Produce json
// @Param payload body models.InstitutionRequest true "Institution payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /institutions [post]
func (h *InstitutionHandler) Create(c *gin.Context) {
	var req models.InstitutionRequest
	if !bindJSON(c, &req, "institution") {
		return
	}
	inst, err := h.institutions.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, inst)
}

// Update godoc
// @Summary Update institution
// @Tags Institutions
// @Accept json
// @Produce json
// @Param id path string true "Institution ID"
// @Param payload body models.InstitutionRequest true "Institution payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /institutions/{id} [put]
func (h *InstitutionHandler) Update(c *gin.Context) {
	var req models.InstitutionRequest
	if !bindJSON(c, &req, "institution") {
		return
	}
	inst, err := h.institutions.Update(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, inst, nil)
}

// Delete godoc
// @Summary Delete institution
// @Tags Institutions
// @Param id path string true "Institution ID"
// @Success 204
// @Security BearerAuth
// @Router /institutions/{id} [delete]
func (h *InstitutionHandler) Delete(c *gin.Context) {
	if err := h.institutions.Delete(c.Request.Context(), claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// BulkDelete godoc
// @Summary Delete many institutions
// @Tags Institutions
// @Accept json
// @Produce json
// @Param payload body models.BulkIDsRequest true "IDs"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Security BearerAuth
// @Router /institutions/bulk-delete [post]
func (h *InstitutionHandler) BulkDelete(c *gin.Context) {
	var req models.BulkIDsRequest
	if !bindJSON(c, &req, "bulk delete") {
		return
	}
	result, err := h.institutions.BulkDelete(c.Request.Context(), claimsFromContext(c), req)
	bulkResponse(c, result, err)
}
