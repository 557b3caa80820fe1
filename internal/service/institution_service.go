package service

import (
	"context"
	"strings"

	"github.com/noah-isme/practicum-admin-api/internal/models"
	"github.com/noah-isme/practicum-admin-api/internal/query"
	appErrors "github.com/noah-isme/practicum-admin-api/pkg/errors"
)

type institutionRepository interface {
	ListAll(ctx context.Context) ([]models.Institution, error)
	FindByID(ctx context.Context, id string) (*models.Institution, error)
	Create(ctx context.Context, inst *models.Institution) error
	Update(ctx context.Context, inst *models.Institution) error
	Delete(ctx context.Context, id string) error
}

// InstitutionService orchestrates the partner institution registry.
type InstitutionService struct {
	repo  institutionRepository
	deps  Dependencies
	items *collection[models.Institution]
	bulk  *bulkRunner
}

// NewInstitutionService constructs an InstitutionService.
func NewInstitutionService(repo institutionRepository, deps Dependencies, opts ListOptions) *InstitutionService {
	deps = deps.withDefaults()
	opts = opts.withDefaults()
	return &InstitutionService{
		repo:  repo,
		deps:  deps,
		items: newCollection(models.InstitutionSchema(opts.Location), "institution", repo.ListAll, deps, opts),
		bulk:  &bulkRunner{kind: models.KindInstitutions, limit: opts.BulkConcurrency, deps: deps},
	}
}

func (s *InstitutionService) Schema() query.Schema[models.Institution] { return s.items.schema }

func (s *InstitutionService) All(ctx context.Context) ([]models.Institution, error) {
	return s.items.all(ctx)
}

func (s *InstitutionService) List(ctx context.Context, params models.ListParams) (*query.Page[models.Institution], error) {
	return s.items.list(ctx, params)
}

func (s *InstitutionService) Months(ctx context.Context) ([]string, error) {
	return s.items.months(ctx)
}

// Get returns an institution by id.
func (s *InstitutionService) Get(ctx context.Context, id string) (*models.Institution, error) {
	inst, err := observe(s.deps.Metrics, models.KindInstitutions, "find", func() (*models.Institution, error) {
		return s.repo.FindByID(ctx, id)
	})
	if err != nil {
		return nil, s.items.loadErr(err)
	}
	return inst, nil
}

// Create registers an institution.
func (s *InstitutionService) Create(ctx context.Context, actor *models.AdminClaims, req models.InstitutionRequest) (*models.Institution, error) {
	if err := s.deps.Validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid institution payload")
	}
	inst := &models.Institution{}
	applyInstitutionRequest(inst, req)
	if err := observeErr(s.deps.Metrics, models.KindInstitutions, "create", func() error { return s.repo.Create(ctx, inst) }); err != nil {
		return nil, s.items.writeErr(err, "create")
	}
	s.items.invalidate(ctx)
	s.deps.Activity.Record(actor, models.ActionCreate, models.KindInstitutions, inst.ID, inst.Name)
	return inst, nil
}

// Update overwrites an institution.
func (s *InstitutionService) Update(ctx context.Context, actor *models.AdminClaims, id string, req models.InstitutionRequest) (*models.Institution, error) {
	if err := s.deps.Validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid institution payload")
	}
	inst, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyInstitutionRequest(inst, req)
	if err := observeErr(s.deps.Metrics, models.KindInstitutions, "update", func() error { return s.repo.Update(ctx, inst) }); err != nil {
		return nil, s.items.writeErr(err, "update")
	}
	s.items.invalidate(ctx)
	s.deps.Activity.Record(actor, models.ActionUpdate, models.KindInstitutions, inst.ID, inst.Name)
	return inst, nil
}

// Delete removes an institution.
func (s *InstitutionService) Delete(ctx context.Context, actor *models.AdminClaims, id string) error {
	if err := s.delete(ctx, id); err != nil {
		return s.items.writeErr(err, "delete")
	}
	s.items.invalidate(ctx)
	s.deps.Activity.Record(actor, models.ActionDelete, models.KindInstitutions, id, "")
	return nil
}

// BulkDelete removes every listed institution.
func (s *InstitutionService) BulkDelete(ctx context.Context, actor *models.AdminClaims, req models.BulkIDsRequest) (models.BulkResult, error) {
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
	s.deps.Activity.RecordBatch(actor, models.ActionBulkDelete, models.KindInstitutions, result)
	return result, err
}

func (s *InstitutionService) delete(ctx context.Context, id string) error {
	return observeErr(s.deps.Metrics, models.KindInstitutions, "delete", func() error { return s.repo.Delete(ctx, id) })
}

func applyInstitutionRequest(inst *models.Institution, req models.InstitutionRequest) {
	inst.Name = strings.TrimSpace(req.Name)
	inst.InstitutionType = req.InstitutionType
	inst.Region = strings.TrimSpace(req.Region)
	inst.Address = trimOptional(req.Address)
	inst.ContactName = trimOptional(req.ContactName)
	inst.Phone = trimOptional(req.Phone)
	inst.Capacity = req.Capacity
	inst.Notes = trimOptional(req.Notes)
}
