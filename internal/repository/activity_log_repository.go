package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/practicum-admin-api/internal/models"
)

// ActivityLogRepository appends and reads the admin activity trail.
type ActivityLogRepository struct {
	db *sqlx.DB
}

// NewActivityLogRepository constructs an ActivityLogRepository.
func NewActivityLogRepository(db *sqlx.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

// ListAll returns every log entry, newest first.
func (r *ActivityLogRepository) ListAll(ctx context.Context) ([]models.ActivityLog, error) {
	const query = `SELECT id, admin_email, action, target_kind, target_id, details, created_at FROM admin_activity_logs ORDER BY created_at DESC`
	items := []models.ActivityLog{}
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	return items, nil
}

// Create appends a log entry. The timestamp is taken from the entry so queued
// writes keep the time the action happened.
func (r *ActivityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO admin_activity_logs (id, admin_email, action, target_kind, target_id, details, created_at)
		VALUES (:id, :admin_email, :action, :target_kind, :target_id, :details, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create activity log: %w", err)
	}
	return nil
}
