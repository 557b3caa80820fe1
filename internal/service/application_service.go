package service

import (
	"context"
	"strings"

	"github.com/noah-isme/practicum-admin-api/internal/listcodec"
	"github.com/noah-isme/practicum-admin-api/internal/models"
	"github.com/noah-isme/practicum-admin-api/internal/query"
	appErrors "github.com/noah-isme/practicum-admin-api/pkg/errors"
	"github.com/noah-isme/practicum-admin-api/pkg/export"
)

type applicationRepository interface {
	ListAll(ctx context.Context) ([]models.Application, error)
	FindByID(ctx context.Context, id string) (*models.Application, error)
	Create(ctx context.Context, app *models.Application) error
	Update(ctx context.Context, app *models.Application) error
	UpdatePaymentStatus(ctx context.Context, id, status string) error
	UpdateCompletionStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

// ApplicationService orchestrates student application operations.
type ApplicationService struct {
	repo     applicationRepository
	deps     Dependencies
	items    *collection[models.Application]
	bulk     *bulkRunner
	exporter *ExportService
}

// NewApplicationService constructs an ApplicationService.
func NewApplicationService(repo applicationRepository, exporter *ExportService, deps Dependencies, opts ListOptions) *ApplicationService {
	deps = deps.withDefaults()
	opts = opts.withDefaults()
	if exporter == nil {
		exporter = NewExportService(ExportConfig{}, deps.Logger, nil, nil)
	}
	return &ApplicationService{
		repo:     repo,
		deps:     deps,
		items:    newCollection(models.ApplicationSchema(opts.Location), "application", repo.ListAll, deps, opts),
		bulk:     &bulkRunner{kind: models.KindApplications, limit: opts.BulkConcurrency, deps: deps},
		exporter: exporter,
	}
}

// Schema exposes the field registry used for filtering.
func (s *ApplicationService) Schema() query.Schema[models.Application] {
	return s.items.schema
}

// All returns the whole collection, newest first.
func (s *ApplicationService) All(ctx context.Context) ([]models.Application, error) {
	return s.items.all(ctx)
}

// List returns one page of the filtered applications.
func (s *ApplicationService) List(ctx context.Context, params models.ListParams) (*query.Page[models.Application], error) {
	return s.items.list(ctx, params)
}

// Months lists the month buckets present in the collection.
func (s *ApplicationService) Months(ctx context.Context) ([]string, error) {
	return s.items.months(ctx)
}

// Get returns an application by id.
func (s *ApplicationService) Get(ctx context.Context, id string) (*models.Application, error) {
	app, err := observe(s.deps.Metrics, models.KindApplications, "find", func() (*models.Application, error) {
		return s.repo.FindByID(ctx, id)
	})
	if err != nil {
		return nil, s.items.loadErr(err)
	}
	return app, nil
}

// Submit stores an application from the public form.
func (s *ApplicationService) Submit(ctx context.Context, req models.SubmitApplicationRequest) (*models.Application, error) {
	if err := s.deps.Validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid application payload")
	}
	if !req.PrivacyConsent {
		return nil, appErrors.Clone(appErrors.ErrValidation, "privacy consent is required")
	}

	app := &models.Application{
		Name:                     strings.TrimSpace(req.Name),
		Phone:                    strings.TrimSpace(req.Phone),
		Email:                    trimOptional(req.Email),
		DesiredCourse:            strings.TrimSpace(req.DesiredCourse),
		PracticeType:             strings.TrimSpace(req.PracticeType),
		DesiredRegion:            strings.TrimSpace(req.DesiredRegion),
		PaymentStatus:            models.PaymentUnpaid,
		PracticeCompletionStatus: models.CompletionInProgress,
		ConsultationNotes:        storeNotes(req.Message),
		PrivacyConsent:           true,
	}
	if err := s.create(ctx, app); err != nil {
		return nil, err
	}
	s.deps.Logger.Info("application submitted")
	return app, nil
}

// Create registers an application on behalf of an admin.
func (s *ApplicationService) Create(ctx context.Context, actor *models.AdminClaims, req models.ApplicationRequest) (*models.Application, error) {
	if err := s.deps.Validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid application payload")
	}
	app := &models.Application{PrivacyConsent: true}
	applyApplicationRequest(app, req)
	if app.PaymentStatus == "" {
		app.PaymentStatus = models.PaymentUnpaid
	}
	if app.PracticeCompletionStatus == "" {
		app.PracticeCompletionStatus = models.CompletionInProgress
	}
	if err := s.create(ctx, app); err != nil {
		return nil, err
	}
	s.deps.Activity.Record(actor, models.ActionCreate, models.KindApplications, app.ID, app.Name)
	return app, nil
}

// Update overwrites an application's editable fields.
func (s *ApplicationService) Update(ctx context.Context, actor *models.AdminClaims, id string, req models.ApplicationRequest) (*models.Application, error) {
	if err := s.deps.Validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid application payload")
	}
	app, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyApplicationRequest(app, req)
	if err := observeErr(s.deps.Metrics, models.KindApplications, "update", func() error { return s.repo.Update(ctx, app) }); err != nil {
		return nil, s.items.writeErr(err, "update")
	}
	s.items.invalidate(ctx)
	s.deps.Activity.Record(actor, models.ActionUpdate, models.KindApplications, app.ID, app.Name)
	return app, nil
}

// SetPaymentStatus transitions the payment status of one application.
func (s *ApplicationService) SetPaymentStatus(ctx context.Context, actor *models.AdminClaims, id string, req models.PaymentStatusRequest) (*models.Application, error) {
	if err := s.deps.Validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid payment status")
	}
	if err := s.setPaymentStatus(ctx, id, req.PaymentStatus); err != nil {
		return nil, s.items.writeErr(err, "update")
	}
	s.items.invalidate(ctx)
	s.deps.Activity.Record(actor, models.ActionPaymentStatus, models.KindApplications, id, req.PaymentStatus)
	return s.Get(ctx, id)
}

// SetCompletionStatus transitions the practice completion status of one application.
func (s *ApplicationService) SetCompletionStatus(ctx context.Context, actor *models.AdminClaims, id string, req models.CompletionStatusRequest) (*models.Application, error) {
	if err := s.deps.Validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid completion status")
	}
	err := observeErr(s.deps.Metrics, models.KindApplications, "update_completion", func() error {
		return s.repo.UpdateCompletionStatus(ctx, id, req.PracticeCompletionStatus)
	})
	if err != nil {
		return nil, s.items.writeErr(err, "update")
	}
	s.items.invalidate(ctx)
	s.deps.Activity.Record(actor, models.ActionCompletionStatus, models.KindApplications, id, req.PracticeCompletionStatus)
	return s.Get(ctx, id)
}

// Delete removes one application.
func (s *ApplicationService) Delete(ctx context.Context, actor *models.AdminClaims, id string) error {
	if err := s.delete(ctx, id); err != nil {
		return s.items.writeErr(err, "delete")
	}
	s.items.invalidate(ctx)
	s.deps.Activity.Record(actor, models.ActionDelete, models.KindApplications, id, "")
	return nil
}

// BulkDelete removes every listed application, reporting partial failure once.
func (s *ApplicationService) BulkDelete(ctx context.Context, actor *models.AdminClaims, req models.BulkIDsRequest) (models.BulkResult, error) {
	if err := s.deps.Validator.Struct(req); err != nil {
		return models.BulkResult{}, appErrors.Validation(err, "invalid bulk delete payload")
	}
	result, err := s.bulk.run(ctx, models.ActionBulkDelete, req.IDs, func(ctx context.Context, id string) error {
		if err := s.delete(ctx, id); err != nil {
			return s.items.writeErr(err, "delete")
		}
		return nil
	})
	s.items.invalidate(ctx)
	s.deps.Activity.RecordBatch(actor, models.ActionBulkDelete, models.KindApplications, result)
	return result, err
}

// BulkSetPaymentStatus applies one payment status to every listed application.
func (s *ApplicationService) BulkSetPaymentStatus(ctx context.Context, actor *models.AdminClaims, req models.BulkPaymentStatusRequest) (models.BulkResult, error) {
	if err := s.deps.Validator.Struct(req); err != nil {
		return models.BulkResult{}, appErrors.Validation(err, "invalid bulk payment status payload")
	}
	result, err := s.bulk.run(ctx, models.ActionBulkPaymentStatus, req.IDs, func(ctx context.Context, id string) error {
		if err := s.setPaymentStatus(ctx, id, req.PaymentStatus); err != nil {
			return s.items.writeErr(err, "update")
		}
		return nil
	})
	s.items.invalidate(ctx)
	s.deps.Activity.RecordBatch(actor, models.ActionBulkPaymentStatus, models.KindApplications, result)
	return result, err
}

// Editable returns the consultation notes as plain text for editing.
func (s *ApplicationService) Editable(ctx context.Context, id string) (*models.EditableContent, error) {
	app, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.EditableContent{ID: app.ID, Content: listcodec.ToEditableText(deref(app.ConsultationNotes))}, nil
}

// Export renders every application matching q, ignoring pagination.
func (s *ApplicationService) Export(ctx context.Context, actor *models.AdminClaims, q query.Query, format export.Format) (*ExportFile, error) {
	apps, err := s.items.filtered(ctx, q)
	if err != nil {
		return nil, err
	}
	data := export.Dataset{
		Title:   "Student applications",
		Headers: []string{"Name", "Phone", "Email", "Course", "Type", "Region", "Institution", "Manager", "Payment", "Completion", "Notes", "Created"},
		Rows:    make([][]string, 0, len(apps)),
	}
	loc := s.items.opts.Location
	for _, a := range apps {
		data.Rows = append(data.Rows, []string{
			a.Name,
			a.Phone,
			deref(a.Email),
			a.DesiredCourse,
			a.PracticeType,
			a.DesiredRegion,
			deref(a.InstitutionName),
			deref(a.Manager),
			a.PaymentStatus,
			a.PracticeCompletionStatus,
			strings.ReplaceAll(listcodec.ToEditableText(deref(a.ConsultationNotes)), "\n", " / "),
			a.CreatedAt.In(loc).Format("2006-01-02 15:04"),
		})
	}
	file, err := s.exporter.Render(format, models.KindApplications, data)
	if err != nil {
		return nil, err
	}
	s.deps.Activity.Record(actor, models.ActionExport, models.KindApplications, "", string(format))
	return file, nil
}

func (s *ApplicationService) create(ctx context.Context, app *models.Application) error {
	if err := observeErr(s.deps.Metrics, models.KindApplications, "create", func() error { return s.repo.Create(ctx, app) }); err != nil {
		return s.items.writeErr(err, "create")
	}
	s.items.invalidate(ctx)
	return nil
}

func (s *ApplicationService) delete(ctx context.Context, id string) error {
	return observeErr(s.deps.Metrics, models.KindApplications, "delete", func() error { return s.repo.Delete(ctx, id) })
}

func (s *ApplicationService) setPaymentStatus(ctx context.Context, id, status string) error {
	return observeErr(s.deps.Metrics, models.KindApplications, "update_payment", func() error {
		return s.repo.UpdatePaymentStatus(ctx, id, status)
	})
}

func applyApplicationRequest(app *models.Application, req models.ApplicationRequest) {
	app.Name = strings.TrimSpace(req.Name)
	app.Phone = strings.TrimSpace(req.Phone)
	app.Email = trimOptional(req.Email)
	app.DesiredCourse = strings.TrimSpace(req.DesiredCourse)
	app.PracticeType = strings.TrimSpace(req.PracticeType)
	app.DesiredRegion = strings.TrimSpace(req.DesiredRegion)
	app.InstitutionName = trimOptional(req.InstitutionName)
	app.Manager = trimOptional(req.Manager)
	if req.PaymentStatus != "" {
		app.PaymentStatus = req.PaymentStatus
	}
	if req.PracticeCompletionStatus != "" {
		app.PracticeCompletionStatus = req.PracticeCompletionStatus
	}
	app.ConsultationNotes = storeNotes(req.ConsultationNotes)
}

// storeNotes converts optional free text into its stored list form.
func storeNotes(raw *string) *string {
	if raw == nil {
		return nil
	}
	stored := listcodec.ToStorage(*raw)
	if stored == "" {
		return nil
	}
	return &stored
}
