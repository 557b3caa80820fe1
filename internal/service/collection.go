package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/practicum-admin-api/internal/models"
	"github.com/noah-isme/practicum-admin-api/internal/query"
	"github.com/noah-isme/practicum-admin-api/pkg/database"
	appErrors "github.com/noah-isme/practicum-admin-api/pkg/errors"
)

// ListOptions bounds list requests and bulk fan-out.
type ListOptions struct {
	Location        *time.Location
	DefaultPageSize int
	MaxPageSize     int
	BulkConcurrency int
	CacheTTL        time.Duration
}

func (o ListOptions) withDefaults() ListOptions {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.DefaultPageSize < 1 {
		o.DefaultPageSize = query.DefaultPageSize
	}
	if o.MaxPageSize < o.DefaultPageSize {
		o.MaxPageSize = 100
	}
	if o.BulkConcurrency < 1 {
		o.BulkConcurrency = 4
	}
	return o
}

// Dependencies are the collaborators shared by every record service.
type Dependencies struct {
	Validator *validator.Validate
	Logger    *zap.Logger
	Cache     *CacheService
	Metrics   *MetricsService
	Activity  *ActivityRecorder
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Validator == nil {
		d.Validator = validator.New()
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return d
}

// collection is the read path shared by every record kind: fetch the whole
// table (through the list cache), filter it in memory and cut a page.
type collection[T any] struct {
	schema query.Schema[T]
	noun   string
	fetch  func(ctx context.Context) ([]T, error)
	opts   ListOptions
	deps   Dependencies
}

func newCollection[T any](schema query.Schema[T], noun string, fetch func(ctx context.Context) ([]T, error), deps Dependencies, opts ListOptions) *collection[T] {
	return &collection[T]{schema: schema, noun: noun, fetch: fetch, deps: deps, opts: opts}
}

func (c *collection[T]) cacheKey() string {
	return "list:" + c.schema.Kind
}

// all returns the full collection, newest first.
func (c *collection[T]) all(ctx context.Context) ([]T, error) {
	var cached []T
	if hit, err := c.deps.Cache.Get(ctx, c.cacheKey(), &cached); err == nil && hit {
		return cached, nil
	}

	records, err := observe(c.deps.Metrics, c.schema.Kind, "list_all", func() ([]T, error) { return c.fetch(ctx) })
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load "+c.noun+" list")
	}
	_ = c.deps.Cache.Set(ctx, c.cacheKey(), records, c.opts.CacheTTL)
	return records, nil
}

// invalidate drops the cached collection after a write. Failures are logged by the cache service.
func (c *collection[T]) invalidate(ctx context.Context) {
	_ = c.deps.Cache.Invalidate(ctx, c.cacheKey())
}

// filtered validates q and applies it to the full collection.
func (c *collection[T]) filtered(ctx context.Context, q query.Query) ([]T, error) {
	if err := c.schema.Validate(q); err != nil {
		return nil, appErrors.Validation(err, "invalid "+c.noun+" query")
	}
	records, err := c.all(ctx)
	if err != nil {
		return nil, err
	}
	out := query.Filter(records, c.schema, q)
	c.deps.Metrics.ObserveFilteredSize(c.schema.Kind, len(out))
	return out, nil
}

// list runs a full list request: validate, filter, paginate.
func (c *collection[T]) list(ctx context.Context, params models.ListParams) (*query.Page[T], error) {
	if params.Page < 0 || params.PageSize < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "page and limit must not be negative")
	}
	if params.PageSize > c.opts.MaxPageSize {
		return nil, appErrors.Clone(appErrors.ErrValidation, "limit exceeds the maximum page size")
	}
	page := params.Page
	if page == 0 {
		page = 1
	}
	size := params.PageSize
	if size == 0 {
		size = c.opts.DefaultPageSize
	}

	records, err := c.filtered(ctx, params.Query)
	if err != nil {
		return nil, err
	}
	p := query.Paginate(records, page, size)
	return &p, nil
}

// months lists the month labels present in the collection.
func (c *collection[T]) months(ctx context.Context) ([]string, error) {
	records, err := c.all(ctx)
	if err != nil {
		return nil, err
	}
	return query.AvailableMonths(records, c.schema), nil
}

// loadErr maps a FindByID failure.
func (c *collection[T]) loadErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, c.noun+" not found")
	}
	return appErrors.Internal(err, "failed to load "+c.noun)
}

// writeErr maps a Create/Update/Delete failure.
func (c *collection[T]) writeErr(err error, verb string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, c.noun+" not found")
	case database.IsUniqueViolation(err):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, c.noun+" already exists")
	default:
		return appErrors.Internal(err, "failed to "+verb+" "+c.noun)
	}
}

// observe times a store call and reports it to metrics.
func observe[R any](m *MetricsService, kind, op string, call func() (R, error)) (R, error) {
	start := time.Now()
	out, err := call()
	m.ObserveStoreCall(kind, op, time.Since(start), err)
	return out, err
}

// observeErr is observe for calls that only return an error.
func observeErr(m *MetricsService, kind, op string, call func() error) error {
	_, err := observe(m, kind, op, func() (struct{}, error) { return struct{}{}, call() })
	return err
}
