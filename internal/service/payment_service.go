package service

import (
	"context"
	"strings"
	"time"

	"github.com/noah-isme/practicum-admin-api/internal/models"
	"github.com/noah-isme/practicum-admin-api/internal/query"
	appErrors "github.com/noah-isme/practicum-admin-api/pkg/errors"
)

type paymentRepository interface {
	ListAll(ctx context.Context) ([]models.CenterPayment, error)
	FindByID(ctx context.Context, id string) (*models.CenterPayment, error)
	Create(ctx context.Context, p *models.CenterPayment) error
	Update(ctx context.Context, p *models.CenterPayment) error
	MarkPaid(ctx context.Context, id, paymentDate string) error
	Delete(ctx context.Context, id string) error
}

// PaymentService orchestrates contract education center payments.
type PaymentService struct {
	repo  paymentRepository
	deps  Dependencies
	items *collection[models.CenterPayment]
	bulk  *bulkRunner
	loc   *time.Location
	now   func() time.Time
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(repo paymentRepository, deps Dependencies, opts ListOptions) *PaymentService {
	deps = deps.withDefaults()
	opts = opts.withDefaults()
	return &PaymentService{
		repo:  repo,
		deps:  deps,
		items: newCollection(models.PaymentSchema(opts.Location), "payment", repo.ListAll, deps, opts),
		bulk:  &bulkRunner{kind: models.KindPayments, limit: opts.BulkConcurrency, deps: deps},
		loc:   opts.Location,
		now:   time.Now,
	}
}

func (s *PaymentService) Schema() query.Schema[models.CenterPayment] { return s.items.schema }

func (s *PaymentService) All(ctx context.Context) ([]models.CenterPayment, error) {
	return s.items.all(ctx)
}

func (s *PaymentService) List(ctx context.Context, params models.ListParams) (*query.Page[models.CenterPayment], error) {
	return s.items.list(ctx, params)
}

func (s *PaymentService) Months(ctx context.Context) ([]string, error) {
	return s.items.months(ctx)
}

// Get returns a payment by id.
func (s *PaymentService) Get(ctx context.Context, id string) (*models.CenterPayment, error) {
	p, err := observe(s.deps.Metrics, models.KindPayments, "find", func() (*models.CenterPayment, error) {
		return s.repo.FindByID(ctx, id)
	})
	if err != nil {
		return nil, s.items.loadErr(err)
	}
	return p, nil
}

// Create registers a payment. New payments are unpaid unless stated otherwise.
func (s *PaymentService) Create(ctx context.Context, actor *models.AdminClaims, req models.CenterPaymentRequest) (*models.CenterPayment, error) {
	if err := s.deps.Validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid payment payload")
	}
	p := &models.CenterPayment{PaymentStatus: models.PaymentUnpaid}
	applyPaymentRequest(p, req)
	if err := observeErr(s.deps.Metrics, models.KindPayments, "create", func() error { return s.repo.Create(ctx, p) }); err != nil {
		return nil, s.items.writeErr(err, "create")
	}
	s.items.invalidate(ctx)
	s.deps.Activity.Record(actor, models.ActionCreate, models.KindPayments, p.ID, p.CenterName+" / "+p.StudentName)
	return p, nil
}

// Update overwrites a payment.
func (s *PaymentService) Update(ctx context.Context, actor *models.AdminClaims, id string, req models.CenterPaymentRequest) (*models.CenterPayment, error) {
	if err := s.deps.Validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid payment payload")
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyPaymentRequest(p, req)
	if err := observeErr(s.deps.Metrics, models.KindPayments, "update", func() error { return s.repo.Update(ctx, p) }); err != nil {
		return nil, s.items.writeErr(err, "update")
	}
	s.items.invalidate(ctx)
	s.deps.Activity.Record(actor, models.ActionUpdate, models.KindPayments, p.ID, p.PaymentStatus)
	return p, nil
}

// Delete removes a payment.
func (s *PaymentService) Delete(ctx context.Context, actor *models.AdminClaims, id string) error {
	if err := s.delete(ctx, id); err != nil {
		return s.items.writeErr(err, "delete")
	}
	s.items.invalidate(ctx)
	s.deps.Activity.Record(actor, models.ActionDelete, models.KindPayments, id, "")
	return nil
}

// BulkMarkPaid marks every listed payment as paid today. Payments that
// already carry a payment date keep it.
func (s *PaymentService) BulkMarkPaid(ctx context.Context, actor *models.AdminClaims, req models.BulkIDsRequest) (models.BulkResult, error) {
	if err := s.deps.Validator.Struct(req); err != nil {
		return models.BulkResult{}, appErrors.Validation(err, "invalid bulk payload")
	}
	today := s.now().In(s.loc).Format("2006-01-02")
	result, err := s.bulk.run(ctx, models.ActionBulkMarkPaid, req.IDs, func(ctx context.Context, id string) error {
		err := observeErr(s.deps.Metrics, models.KindPayments, "mark_paid", func() error { return s.repo.MarkPaid(ctx, id, today) })
		if err != nil {
			return s.items.writeErr(err, "update")
		}
		return nil
	})
	s.items.invalidate(ctx)
	s.deps.Activity.RecordBatch(actor, models.ActionBulkMarkPaid, models.KindPayments, result)
	return result, err
}

// BulkDelete removes every listed payment.
func (s *PaymentService) BulkDelete(ctx context.Context, actor *models.AdminClaims, req models.BulkIDsRequest) (models.BulkResult, error) {
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
	s.deps.Activity.RecordBatch(actor, models.ActionBulkDelete, models.KindPayments, result)
	return result, err
}

func (s *PaymentService) delete(ctx context.Context, id string) error {
	return observeErr(s.deps.Metrics, models.KindPayments, "delete", func() error { return s.repo.Delete(ctx, id) })
}

func applyPaymentRequest(p *models.CenterPayment, req models.CenterPaymentRequest) {
	p.CenterName = strings.TrimSpace(req.CenterName)
	p.StudentName = strings.TrimSpace(req.StudentName)
	p.Amount = req.Amount
	if req.PaymentStatus != "" {
		p.PaymentStatus = req.PaymentStatus
	}
	p.PaymentDate = trimOptional(req.PaymentDate)
	p.Memo = trimOptional(req.Memo)
}
