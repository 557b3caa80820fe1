package service

import (
	"context"
	"strings"

	"github.com/noah-isme/practicum-admin-api/internal/listcodec"
	"github.com/noah-isme/practicum-admin-api/internal/models"
	"github.com/noah-isme/practicum-admin-api/internal/query"
	appErrors "github.com/noah-isme/practicum-admin-api/pkg/errors"
)

type memoRepository interface {
	ListAll(ctx context.Context) ([]models.ConsultationMemo, error)
	FindByID(ctx context.Context, id string) (*models.ConsultationMemo, error)
	Create(ctx context.Context, m *models.ConsultationMemo) error
	Update(ctx context.Context, m *models.ConsultationMemo) error
	Delete(ctx context.Context, id string) error
}

// MemoService orchestrates consultation memos. Content is stored in list form.
type MemoService struct {
	repo  memoRepository
	deps  Dependencies
	items *collection[models.ConsultationMemo]
	bulk  *bulkRunner
}

// NewMemoService constructs a MemoService.
func NewMemoService(repo memoRepository, deps Dependencies, opts ListOptions) *MemoService {
	deps = deps.withDefaults()
	opts = opts.withDefaults()
	return &MemoService{
		repo:  repo,
		deps:  deps,
		items: newCollection(models.MemoSchema(opts.Location), "memo", repo.ListAll, deps, opts),
		bulk:  &bulkRunner{kind: models.KindMemos, limit: opts.BulkConcurrency, deps: deps},
	}
}

func (s *MemoService) Schema() query.Schema[models.ConsultationMemo] { return s.items.schema }

func (s *MemoService) All(ctx context.Context) ([]models.ConsultationMemo, error) {
	return s.items.all(ctx)
}

// List returns one page of memos, each with its display lines.
func (s *MemoService) List(ctx context.Context, params models.ListParams) (*query.Page[models.MemoView], error) {
	page, err := s.items.list(ctx, params)
	if err != nil {
		return nil, err
	}
	views := make([]models.MemoView, 0, len(page.Items))
	for _, m := range page.Items {
		views = append(views, memoView(m))
	}
	return &query.Page[models.MemoView]{
		Items:      views,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
		TotalCount: page.TotalCount,
	}, nil
}

func (s *MemoService) Months(ctx context.Context) ([]string, error) {
	return s.items.months(ctx)
}

// Get returns a memo with its display lines.
func (s *MemoService) Get(ctx context.Context, id string) (*models.MemoView, error) {
	m, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	view := memoView(*m)
	return &view, nil
}

// Editable returns the memo content as plain multi-line text.
func (s *MemoService) Editable(ctx context.Context, id string) (*models.EditableContent, error) {
	m, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.EditableContent{ID: m.ID, Content: listcodec.ToEditableText(m.Content)}, nil
}

// Create stores a memo, converting its content to list form.
func (s *MemoService) Create(ctx context.Context, actor *models.AdminClaims, req models.ConsultationMemoRequest) (*models.MemoView, error) {
	m := &models.ConsultationMemo{}
	if err := s.apply(m, req); err != nil {
		return nil, err
	}
	if err := observeErr(s.deps.Metrics, models.KindMemos, "create", func() error { return s.repo.Create(ctx, m) }); err != nil {
		return nil, s.items.writeErr(err, "create")
	}
	s.items.invalidate(ctx)
	s.deps.Activity.Record(actor, models.ActionCreate, models.KindMemos, m.ID, m.StudentName)
	view := memoView(*m)
	return &view, nil
}

// Update overwrites a memo.
func (s *MemoService) Update(ctx context.Context, actor *models.AdminClaims, id string, req models.ConsultationMemoRequest) (*models.MemoView, error) {
	m, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(m, req); err != nil {
		return nil, err
	}
	if err := observeErr(s.deps.Metrics, models.KindMemos, "update", func() error { return s.repo.Update(ctx, m) }); err != nil {
		return nil, s.items.writeErr(err, "update")
	}
	s.items.invalidate(ctx)
	s.deps.Activity.Record(actor, models.ActionUpdate, models.KindMemos, m.ID, m.StudentName)
	view := memoView(*m)
	return &view, nil
}

// Delete removes a memo.
func (s *MemoService) Delete(ctx context.Context, actor *models.AdminClaims, id string) error {
	if err := s.delete(ctx, id); err != nil {
		return s.items.writeErr(err, "delete")
	}
	s.items.invalidate(ctx)
	s.deps.Activity.Record(actor, models.ActionDelete, models.KindMemos, id, "")
	return nil
}

// BulkDelete removes every listed memo.
func (s *MemoService) BulkDelete(ctx context.Context, actor *models.AdminClaims, req models.BulkIDsRequest) (models.BulkResult, error) {
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
	s.deps.Activity.RecordBatch(actor, models.ActionBulkDelete, models.KindMemos, result)
	return result, err
}

func (s *MemoService) find(ctx context.Context, id string) (*models.ConsultationMemo, error) {
	m, err := observe(s.deps.Metrics, models.KindMemos, "find", func() (*models.ConsultationMemo, error) {
		return s.repo.FindByID(ctx, id)
	})
	if err != nil {
		return nil, s.items.loadErr(err)
	}
	return m, nil
}

func (s *MemoService) delete(ctx context.Context, id string) error {
	return observeErr(s.deps.Metrics, models.KindMemos, "delete", func() error { return s.repo.Delete(ctx, id) })
}

func (s *MemoService) apply(m *models.ConsultationMemo, req models.ConsultationMemoRequest) error {
	if err := s.deps.Validator.Struct(req); err != nil {
		return appErrors.Validation(err, "invalid memo payload")
	}
	content := listcodec.ToStorage(req.Content)
	if content == "" {
		return appErrors.Clone(appErrors.ErrValidation, "memo content is empty")
	}
	m.ApplicationID = trimOptional(req.ApplicationID)
	m.StudentName = strings.TrimSpace(req.StudentName)
	m.Phone = trimOptional(req.Phone)
	m.Counselor = strings.TrimSpace(req.Counselor)
	m.Channel = req.Channel
	m.Content = content
	return nil
}

func memoView(m models.ConsultationMemo) models.MemoView {
	return models.MemoView{ConsultationMemo: m, Lines: listcodec.ToDisplayLines(m.Content)}
}
