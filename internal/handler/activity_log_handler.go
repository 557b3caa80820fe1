package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/practicum-admin-api/internal/models"
)

// ActivityLogHandler exposes the admin activity trail.
type ActivityLogHandler struct {
	logs recordLister[models.ActivityLog]
}

func NewActivityLogHandler(logs recordLister[models.ActivityLog]) *ActivityLogHandler {
	return &ActivityLogHandler{logs: logs}
}

// List godoc
// @Summary List admin activity
// @Tags ActivityLogs
// @Produce json
// @Param search query string false "Search over admin email, action, kind, details"
// @Param f.action query string false "Action"
// @Param f.target_kind query string false "Record kind"
// @Param from query string false "On or after (YYYY-MM-DD)"
// @Param to query string false "On or before (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /activity-logs [get]
func (h *ActivityLogHandler) List(c *gin.Context) {
	listRecords(c, h.logs)
}

// Months godoc
// @Summary List activity months
// @Tags ActivityLogs
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /activity-logs/months [get]
func (h *ActivityLogHandler) Months(c *gin.Context) {
	listMonths(c, h.logs)
}
