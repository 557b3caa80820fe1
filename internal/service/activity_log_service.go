package service

import (
	"context"

	"github.com/noah-isme/practicum-admin-api/internal/models"
	"github.com/noah-isme/practicum-admin-api/internal/query"
)

type activityLogRepository interface {
	ListAll(ctx context.Context) ([]models.ActivityLog, error)
}

// ActivityLogService exposes the read-only admin activity trail.
type ActivityLogService struct {
	items *collection[models.ActivityLog]
}

// NewActivityLogService constructs an ActivityLogService. The activity list
// bypasses the list cache since new entries arrive asynchronously.
func NewActivityLogService(repo activityLogRepository, deps Dependencies, opts ListOptions) *ActivityLogService {
	deps = deps.withDefaults()
	deps.Cache = nil
	opts = opts.withDefaults()
	return &ActivityLogService{
		items: newCollection(models.ActivityLogSchema(opts.Location), "activity log", repo.ListAll, deps, opts),
	}
}

func (s *ActivityLogService) Schema() query.Schema[models.ActivityLog] { return s.items.schema }

func (s *ActivityLogService) All(ctx context.Context) ([]models.ActivityLog, error) {
	return s.items.all(ctx)
}

// List returns one page of the filtered activity trail.
func (s *ActivityLogService) List(ctx context.Context, params models.ListParams) (*query.Page[models.ActivityLog], error) {
	return s.items.list(ctx, params)
}

func (s *ActivityLogService) Months(ctx context.Context) ([]string, error) {
	return s.items.months(ctx)
}
