package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/practicum-admin-api/internal/models"
	"github.com/noah-isme/practicum-admin-api/internal/query"
	"github.com/noah-isme/practicum-admin-api/internal/service"
	appErrors "github.com/noah-isme/practicum-admin-api/pkg/errors"
	"github.com/noah-isme/practicum-admin-api/pkg/export"
)

type envelope struct {
	Data       json.RawMessage        `json:"data"`
	Error      *appErrors.Error       `json:"error"`
	Pagination *models.Pagination     `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
}

type fakeApplications struct {
	records    []models.Application
	lastParams models.ListParams
	lastActor  *models.AdminClaims
	lastQuery  query.Query
	bulkErr    error
	submitted  *models.SubmitApplicationRequest
}

func (f *fakeApplications) List(ctx context.Context, params models.ListParams) (*query.Page[models.Application], error) {
	f.lastParams = params
	schema := models.ApplicationSchema(time.UTC)
	if err := schema.Validate(params.Query); err != nil {
		return nil, appErrors.Validation(err, "invalid application query")
	}
	page := query.Paginate(query.Filter(f.records, schema, params.Query), params.Page, params.PageSize)
	return &page, nil
}

func (f *fakeApplications) Months(ctx context.Context) ([]string, error) {
	return query.AvailableMonths(f.records, models.ApplicationSchema(time.UTC)), nil
}

func (f *fakeApplications) Get(ctx context.Context, id string) (*models.Application, error) {
	for _, a := range f.records {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
}

func (f *fakeApplications) Submit(ctx context.Context, req models.SubmitApplicationRequest) (*models.Application, error) {
	f.submitted = &req
	if !req.PrivacyConsent {
		return nil, appErrors.Clone(appErrors.ErrValidation, "privacy consent is required")
	}
	return &models.Application{ID: "new-app"}, nil
}

func (f *fakeApplications) Create(ctx context.Context, actor *models.AdminClaims, req models.ApplicationRequest) (*models.Application, error) {
	f.lastActor = actor
	return &models.Application{ID: "created", Name: req.Name}, nil
}

func (f *fakeApplications) Update(ctx context.Context, actor *models.AdminClaims, id string, req models.ApplicationRequest) (*models.Application, error) {
	f.lastActor = actor
	return &models.Application{ID: id, Name: req.Name}, nil
}

func (f *fakeApplications) SetPaymentStatus(ctx context.Context, actor *models.AdminClaims, id string, req models.PaymentStatusRequest) (*models.Application, error) {
	f.lastActor = actor
	return &models.Application{ID: id, PaymentStatus: req.PaymentStatus}, nil
}

func (f *fakeApplications) SetCompletionStatus(ctx context.Context, actor *models.AdminClaims, id string, req models.CompletionStatusRequest) (*models.Application, error) {
	return &models.Application{ID: id, PracticeCompletionStatus: req.PracticeCompletionStatus}, nil
}

func (f *fakeApplications) Delete(ctx context.Context, actor *models.AdminClaims, id string) error {
	f.lastActor = actor
	return nil
}

func (f *fakeApplications) BulkDelete(ctx context.Context, actor *models.AdminClaims, req models.BulkIDsRequest) (models.BulkResult, error) {
	result := models.BulkResult{Succeeded: req.IDs[:1], Failed: req.IDs[1:]}
	return result, f.bulkErr
}

func (f *fakeApplications) BulkSetPaymentStatus(ctx context.Context, actor *models.AdminClaims, req models.BulkPaymentStatusRequest) (models.BulkResult, error) {
	return models.BulkResult{Succeeded: req.IDs}, nil
}

func (f *fakeApplications) Editable(ctx context.Context, id string) (*models.EditableContent, error) {
	return &models.EditableContent{ID: id, Content: "first\nsecond"}, nil
}

func (f *fakeApplications) Export(ctx context.Context, actor *models.AdminClaims, q query.Query, format export.Format) (*service.ExportFile, error) {
	f.lastQuery = q
	return &service.ExportFile{Filename: "applications_20240101_000000.csv", ContentType: "text/csv; charset=utf-8", Data: []byte("Name\nKim\n"), Rows: 1}, nil
}

type emptyLister[T any] struct{}

func (emptyLister[T]) List(ctx context.Context, params models.ListParams) (*query.Page[T], error) {
	page := query.Paginate([]T{}, params.Page, params.PageSize)
	return &page, nil
}

func (emptyLister[T]) Months(ctx context.Context) ([]string, error) { return []string{}, nil }

type testServer struct {
	router *gin.Engine
	apps   *fakeApplications
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	auth := service.NewAuthService(service.AuthConfig{Secret: "secret", AdminEmails: []string{"admin@example.com"}})
	token, err := auth.IssueToken("admin@example.com", time.Hour)
	require.NoError(t, err)

	base := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	apps := &fakeApplications{records: []models.Application{
		{ID: "a1", Name: "Kim", DesiredRegion: "Seoul", Manager: strPtr("Choi"), PaymentStatus: models.PaymentUnpaid, PracticeCompletionStatus: models.CompletionInProgress, CreatedAt: base},
		{ID: "a2", Name: "Lee", DesiredRegion: "Busan", PaymentStatus: models.PaymentRefunded, PracticeCompletionStatus: models.CompletionInProgress, CreatedAt: base.AddDate(0, -1, 0)},
		{ID: "a3", Name: "Park", DesiredRegion: "Seoul", Manager: strPtr("Choi"), PaymentStatus: models.PaymentPaid, PracticeCompletionStatus: models.CompletionInProgress, CreatedAt: base.AddDate(0, -2, 0)},
	}}

	r := gin.New()
	RegisterRoutes(r, "/api/v1", auth, Handlers{
		Applications: NewApplicationHandler(apps),
		Institutions: NewInstitutionHandler(nil),
		Payments:     NewPaymentHandler(nil),
		Memos:        NewMemoHandler(nil),
		ActivityLogs: NewActivityLogHandler(emptyLister[models.ActivityLog]{}),
		Metrics: NewMetricsHandler(service.NewMetricsService(), map[string]ReadinessCheck{
			"database": func(context.Context) error { return nil },
		}),
	})
	return &testServer{router: r, apps: apps, token: token}
}

func (s *testServer) do(method, path string, body interface{}, authed bool) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func strPtr(v string) *string { return &v }

func TestListParsesFiltersAndPaginates(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(http.MethodGet, "/api/v1/applications?search=+kim+&f.manager=Choi&month=24%EB%85%8403%EC%9B%94,24%EB%85%8401%EC%9B%94&page=1&limit=1", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "kim", s.apps.lastParams.Query.Search)
	assert.Equal(t, map[string]string{"manager": "Choi"}, s.apps.lastParams.Query.Fields)
	assert.Equal(t, []string{"24년03월", "24년01월"}, s.apps.lastParams.Query.Months)
	assert.Equal(t, 1, s.apps.lastParams.PageSize)

	var items []models.Application
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "a1", items[0].ID)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 1, env.Pagination.TotalCount)
	assert.Contains(t, env.Meta, "query")
}

func TestListRejectsMalformedPaging(t *testing.T) {
	s := newTestServer(t)
	w, env := s.do(http.MethodGet, "/api/v1/applications?page=two", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrValidation.Code, env.Error.Code)
}

func TestListRejectsUnknownTab(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.do(http.MethodGet, "/api/v1/applications?tab=archived", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.do(http.MethodGet, "/api/v1/applications", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPublicSubmitNeedsNoToken(t *testing.T) {
	s := newTestServer(t)
	w, env := s.do(http.MethodPost, "/api/v1/public/applications", map[string]interface{}{
		"name": "Kim", "phone": "010", "desired_course": "social work", "practice_type": "field",
		"desired_region": "Seoul", "privacy_consent": true,
	}, false)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":"new-app"}`, string(env.Data))
	require.NotNil(t, s.apps.submitted)

	w, _ = s.do(http.MethodPost, "/api/v1/public/applications", map[string]interface{}{"name": "Kim"}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBulkDeletePartialFailureReportsBothLists(t *testing.T) {
	s := newTestServer(t)
	s.apps.bulkErr = appErrors.WithDetails(appErrors.Clone(appErrors.ErrBatchFailed, ""), map[string]interface{}{
		"succeeded": []string{"a1"},
		"failed":    []string{"a2"},
	})

	w, env := s.do(http.MethodPost, "/api/v1/applications/bulk-delete", models.BulkIDsRequest{IDs: []string{"a1", "a2"}}, true)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrBatchFailed.Code, env.Error.Code)
	assert.Equal(t, []interface{}{"a2"}, env.Error.Details["failed"])
}

func TestMutationsCarryActor(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.do(http.MethodPatch, "/api/v1/applications/a1/payment-status", models.PaymentStatusRequest{PaymentStatus: models.PaymentPaid}, true)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, s.apps.lastActor)
	assert.Equal(t, "admin@example.com", s.apps.lastActor.Email)

	w, _ = s.do(http.MethodDelete, "/api/v1/applications/a1", nil, true)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestGetMissingApplication(t *testing.T) {
	s := newTestServer(t)
	w, env := s.do(http.MethodGet, "/api/v1/applications/zzz", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, appErrors.ErrNotFound.Code, env.Error.Code)
}

func TestExportStreamsAttachment(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.do(http.MethodGet, "/api/v1/applications/export?format=csv&tab=pending", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "applications_20240101_000000.csv")
	assert.Equal(t, "pending", s.apps.lastQuery.Tab)

	w, _ = s.do(http.MethodGet, "/api/v1/applications/export?format=xlsx", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMonthsAndActivityLogs(t *testing.T) {
	s := newTestServer(t)
	w, env := s.do(http.MethodGet, "/api/v1/applications/months", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["24년03월","24년02월","24년01월"]`, string(env.Data))

	w, env = s.do(http.MethodGet, "/api/v1/activity-logs", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestHealthAndReady(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.do(http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, "/ready", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"ok"`)
}

func TestReadyReportsFailingDependency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewMetricsHandler(nil, map[string]ReadinessCheck{
		"redis": func(context.Context) error { return appErrors.ErrInternal },
	})
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

	h.Ready(c)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "unavailable")
}
