package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/practicum-admin-api/internal/models"
	appErrors "github.com/noah-isme/practicum-admin-api/pkg/errors"
)

// runBatch issues one call per distinct ID with at most limit in flight and
// waits for all of them. A failed item never cancels the others and nothing
// is rolled back; callers refetch to reconcile.
func runBatch(ctx context.Context, ids []string, limit int, call func(ctx context.Context, id string) error) (models.BulkResult, map[string]error) {
	ids = uniqueIDs(ids)
	outcomes := make([]error, len(ids))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, id := range ids {
		g.Go(func() error {
			outcomes[i] = call(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	result := models.BulkResult{Succeeded: []string{}}
	var failures map[string]error
	for i, id := range ids {
		if outcomes[i] == nil {
			result.Succeeded = append(result.Succeeded, id)
			continue
		}
		if failures == nil {
			failures = make(map[string]error)
		}
		failures[id] = outcomes[i]
		result.Failed = append(result.Failed, id)
	}
	return result, failures
}

// batchError reports a partially failed batch once, carrying both ID lists.
func batchError(logger *zap.Logger, metrics *MetricsService, kind, action string, result models.BulkResult, failures map[string]error) error {
	if len(failures) == 0 {
		return nil
	}
	reasons := make(map[string]string, len(failures))
	for id, err := range failures {
		reasons[id] = appErrors.FromError(err).Message
	}
	logger.Error("batch partially failed",
		zap.String("kind", kind),
		zap.String("action", action),
		zap.Strings("succeeded", result.Succeeded),
		zap.Strings("failed", result.Failed),
	)
	metrics.RecordBatchFailures(kind, action, len(failures))

	return appErrors.WithDetails(appErrors.Clone(appErrors.ErrBatchFailed, ""), map[string]interface{}{
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
		"reasons":   reasons,
	})
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// bulkRunner binds runBatch to one record kind.
type bulkRunner struct {
	kind  string
	limit int
	deps  Dependencies
}

func (b *bulkRunner) run(ctx context.Context, action string, ids []string, call func(ctx context.Context, id string) error) (models.BulkResult, error) {
	if len(uniqueIDs(ids)) == 0 {
		return models.BulkResult{}, appErrors.Clone(appErrors.ErrValidation, "ids are required")
	}
	result, failures := runBatch(ctx, ids, b.limit, call)
	return result, batchError(b.deps.Logger, b.deps.Metrics, b.kind, action, result, failures)
}
