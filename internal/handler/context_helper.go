package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/practicum-admin-api/internal/middleware"
	"github.com/noah-isme/practicum-admin-api/internal/models"
	"github.com/noah-isme/practicum-admin-api/internal/query"
	appErrors "github.com/noah-isme/practicum-admin-api/pkg/errors"
	"github.com/noah-isme/practicum-admin-api/pkg/response"
)

// fieldParamPrefix marks per-field filters in the query string, e.g. f.manager=Choi.
const fieldParamPrefix = "f."

func claimsFromContext(c *gin.Context) *models.AdminClaims {
	return middleware.Claims(c)
}

// bindJSON decodes the request body, replying with a validation error on failure.
func bindJSON(c *gin.Context, dest interface{}, noun string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid "+noun+" payload"))
		return false
	}
	return true
}

// recordQuery reads the filter parameters shared by list and export endpoints.
func recordQuery(c *gin.Context) query.Query {
	q := query.Query{
		Search: strings.TrimSpace(c.Query("search")),
		From:   strings.TrimSpace(c.Query("from")),
		To:     strings.TrimSpace(c.Query("to")),
		Tab:    strings.TrimSpace(c.Query("tab")),
	}
	for _, raw := range c.QueryArray("month") {
		for _, month := range strings.Split(raw, ",") {
			if month = strings.TrimSpace(month); month != "" {
				q.Months = append(q.Months, month)
			}
		}
	}
	for key, values := range c.Request.URL.Query() {
		if !strings.HasPrefix(key, fieldParamPrefix) || len(values) == 0 {
			continue
		}
		name := strings.TrimPrefix(key, fieldParamPrefix)
		if value := strings.TrimSpace(values[0]); name != "" && value != "" {
			q = q.WithField(name, value)
		}
	}
	return q
}

// listParams parses a list request. Missing page or limit stay zero so the
// service applies its defaults.
func listParams(c *gin.Context) (models.ListParams, error) {
	params := models.ListParams{Query: recordQuery(c)}
	var err error
	if params.Page, err = intParam(c, "page"); err != nil {
		return params, err
	}
	if params.PageSize, err = intParam(c, "limit"); err != nil {
		return params, err
	}
	return params, nil
}

func intParam(c *gin.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, name+" must be an integer")
	}
	return n, nil
}

type recordLister[T any] interface {
	List(ctx context.Context, params models.ListParams) (*query.Page[T], error)
	Months(ctx context.Context) ([]string, error)
}

func listRecords[T any](c *gin.Context, svc recordLister[T]) {
	params, err := listParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	page, err := svc.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !params.Query.IsZero() {
		middleware.SetMeta(c, "query", params.Query)
	}
	response.JSON(c, http.StatusOK, page.Items, models.NewPagination(*page), middleware.ExtractMeta(c))
}

func listMonths[T any](c *gin.Context, svc recordLister[T]) {
	months, err := svc.Months(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, months, nil)
}

// bulkResponse replies to a bulk action. Partial failures carry the batch
// error with both ID lists; the client refetches either way.
func bulkResponse(c *gin.Context, result models.BulkResult, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
