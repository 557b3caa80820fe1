package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/practicum-admin-api/internal/middleware"
	"github.com/noah-isme/practicum-admin-api/internal/service"
)

// Handlers groups every HTTP handler mounted by the API.
type Handlers struct {
	Applications *ApplicationHandler
	Institutions *InstitutionHandler
	Payments     *PaymentHandler
	Memos        *MemoHandler
	ActivityLogs *ActivityLogHandler
	Metrics      *MetricsHandler
}

// RegisterRoutes mounts the observability endpoints at the root and the API
// under prefix. Admin routes require a token whose email is allowlisted.
func RegisterRoutes(r *gin.Engine, prefix string, auth *service.AuthService, h Handlers) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)
	api.Use(middleware.WithResponseMeta())
	api.POST("/public/applications", h.Applications.Submit)

	admin := api.Group("", middleware.JWT(auth), middleware.RequireAdmin(auth))

	apps := admin.Group("/applications")
	apps.GET("", h.Applications.List)
	apps.GET("/months", h.Applications.Months)
	apps.GET("/export", h.Applications.Export)
	apps.POST("", h.Applications.Create)
	apps.POST("/bulk-delete", h.Applications.BulkDelete)
	apps.POST("/bulk-payment-status", h.Applications.BulkSetPaymentStatus)
	apps.GET("/:id", h.Applications.Get)
	apps.GET("/:id/editable", h.Applications.Editable)
	apps.PUT("/:id", h.Applications.Update)
	apps.PATCH("/:id/payment-status", h.Applications.SetPaymentStatus)
	apps.PATCH("/:id/completion-status", h.Applications.SetCompletionStatus)
	apps.DELETE("/:id", h.Applications.Delete)

	institutions := admin.Group("/institutions")
	institutions.GET("", h.Institutions.List)
	institutions.GET("/months", h.Institutions.Months)
	institutions.POST("", h.Institutions.Create)
	institutions.POST("/bulk-delete", h.Institutions.BulkDelete)
	institutions.GET("/:id", h.Institutions.Get)
	institutions.PUT("/:id", h.Institutions.Update)
	institutions.DELETE("/:id", h.Institutions.Delete)

	payments := admin.Group("/payments")
	payments.GET("", h.Payments.List)
	payments.GET("/months", h.Payments.Months)
	payments.POST("", h.Payments.Create)
	payments.POST("/bulk-delete", h.Payments.BulkDelete)
	payments.POST("/bulk-mark-paid", h.Payments.BulkMarkPaid)
	payments.GET("/:id", h.Payments.Get)
	payments.PUT("/:id", h.Payments.Update)
	payments.DELETE("/:id", h.Payments.Delete)

	memos := admin.Group("/memos")
	memos.GET("", h.Memos.List)
	memos.GET("/months", h.Memos.Months)
	memos.POST("", h.Memos.Create)
	memos.POST("/bulk-delete", h.Memos.BulkDelete)
	memos.GET("/:id", h.Memos.Get)
	memos.GET("/:id/editable", h.Memos.Editable)
	memos.PUT("/:id", h.Memos.Update)
	memos.DELETE("/:id", h.Memos.Delete)

	logs := admin.Group("/activity-logs")
	logs.GET("", h.ActivityLogs.List)
	logs.GET("/months", h.ActivityLogs.Months)
}
