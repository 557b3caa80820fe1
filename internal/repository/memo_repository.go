package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/practicum-admin-api/internal/models"
)

const memoColumns = `id, application_id, student_name, phone, counselor, channel, content, created_at, updated_at`

// MemoRepository manages persistence for consultation memos.
type MemoRepository struct {
	db *sqlx.DB
}

// NewMemoRepository constructs a MemoRepository.
func NewMemoRepository(db *sqlx.DB) *MemoRepository {
	return &MemoRepository{db: db}
}

// ListAll returns every memo, newest first.
func (r *MemoRepository) ListAll(ctx context.Context) ([]models.ConsultationMemo, error) {
	query := fmt.Sprintf("SELECT %s FROM consultation_memos ORDER BY created_at DESC", memoColumns)
	items := []models.ConsultationMemo{}
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list memos: %w", err)
	}
	return items, nil
}

// FindByID fetches a memo by ID.
func (r *MemoRepository) FindByID(ctx context.Context, id string) (*models.ConsultationMemo, error) {
	query := fmt.Sprintf("SELECT %s FROM consultation_memos WHERE id = $1", memoColumns)
	var m models.ConsultationMemo
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new memo.
func (r *MemoRepository) Create(ctx context.Context, m *models.ConsultationMemo) error {
	stamp(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	const query = `INSERT INTO consultation_memos (id, application_id, student_name, phone, counselor, channel, content, created_at, updated_at)
		VALUES (:id, :application_id, :student_name, :phone, :counselor, :channel, :content, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("create memo: %w", err)
	}
	return nil
}

// Update overwrites a memo.
func (r *MemoRepository) Update(ctx context.Context, m *models.ConsultationMemo) error {
	m.UpdatedAt = time.Now().UTC()
	const query = `UPDATE consultation_memos SET application_id = :application_id, student_name = :student_name, phone = :phone,
		counselor = :counselor, channel = :channel, content = :content, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, m)
	if err != nil {
		return fmt.Errorf("update memo: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a memo.
func (r *MemoRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "consultation_memos", id)
}
