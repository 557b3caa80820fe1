package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/practicum-admin-api/internal/models"
	"github.com/noah-isme/practicum-admin-api/pkg/jobs"
)

const activityJobType = "activity_log"

type activityWriter interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
}

// ActivityRecorder appends admin activity entries in the background so a
// slow or failing log table never fails the mutation being logged.
type ActivityRecorder struct {
	queue   *jobs.Queue[models.ActivityLog]
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewActivityRecorder wires a worker queue writing to repo.
func NewActivityRecorder(repo activityWriter, metrics *MetricsService, cfg jobs.QueueConfig) *ActivityRecorder {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	handler := func(ctx context.Context, job jobs.Job[models.ActivityLog]) error {
		entry := job.Payload
		return repo.Create(ctx, &entry)
	}
	return &ActivityRecorder{
		queue:   jobs.NewQueue("activity-log", handler, cfg),
		metrics: metrics,
		logger:  cfg.Logger,
		now:     time.Now,
	}
}

// Start launches the workers.
func (r *ActivityRecorder) Start(ctx context.Context) {
	if r == nil {
		return
	}
	r.queue.Start(ctx)
}

// Stop waits for queued entries to be written or ctx to expire.
func (r *ActivityRecorder) Stop(ctx context.Context) error {
	if r == nil {
		return nil
	}
	return r.queue.Stop(ctx)
}

// Record queues one entry. targetID may be empty for actions without a single target.
func (r *ActivityRecorder) Record(actor *models.AdminClaims, action, kind, targetID, details string) {
	if r == nil {
		return
	}
	entry := models.ActivityLog{
		ID:         uuid.NewString(),
		AdminEmail: actor.Actor(),
		Action:     action,
		TargetKind: kind,
		TargetID:   optional(targetID),
		Details:    optional(details),
		CreatedAt:  r.now().UTC(),
	}
	job := jobs.Job[models.ActivityLog]{ID: entry.ID, Type: activityJobType, Payload: entry}
	if err := r.queue.Enqueue(job); err != nil {
		r.metrics.RecordActivityDropped()
		r.logger.Warn("failed to queue activity log",
			zap.String("action", action),
			zap.String("kind", kind),
			zap.String("target_id", targetID),
			zap.Error(err),
		)
	}
}

// RecordBatch logs a bulk action with the IDs that were committed.
func (r *ActivityRecorder) RecordBatch(actor *models.AdminClaims, action, kind string, result models.BulkResult) {
	if len(result.Succeeded) == 0 {
		return
	}
	details := fmt.Sprintf("succeeded=%d failed=%d ids=%v", len(result.Succeeded), len(result.Failed), result.Succeeded)
	r.Record(actor, action, kind, "", details)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
