package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/practicum-admin-api/internal/models"
)

const institutionColumns = `id, name, institution_type, region, address, contact_name, phone, capacity, notes, created_at, updated_at`

// InstitutionRepository manages persistence for practice institutions and education centers.
type InstitutionRepository struct {
	db *sqlx.DB
}

// NewInstitutionRepository constructs an InstitutionRepository.
func NewInstitutionRepository(db *sqlx.DB) *InstitutionRepository {
	return &InstitutionRepository{db: db}
}

// ListAll returns every institution, newest first.
func (r *InstitutionRepository) ListAll(ctx context.Context) ([]models.Institution, error) {
	query := fmt.Sprintf("SELECT %s FROM practice_institutions ORDER BY created_at DESC", institutionColumns)
	items := []models.Institution{}
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list institutions: %w", err)
	}
	return items, nil
}

// FindByID fetches an institution by ID.
func (r *InstitutionRepository) FindByID(ctx context.Context, id string) (*models.Institution, error) {
	query := fmt.Sprintf("SELECT %s FROM practice_institutions WHERE id = $1", institutionColumns)
	var inst models.Institution
	if err := r.db.GetContext(ctx, &inst, query, id); err != nil {
		return nil, err
	}
	return &inst, nil
}

// Create inserts a new institution.
func (r *InstitutionRepository) Create(ctx context.Context, inst *models.Institution) error {
	stamp(&inst.ID, &inst.CreatedAt, &inst.UpdatedAt)
	const query = `INSERT INTO practice_institutions (id, name, institution_type, region, address, contact_name, phone, capacity, notes, created_at, updated_at)
		VALUES (:id, :name, :institution_type, :region, :address, :contact_name, :phone, :capacity, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, inst); err != nil {
		return fmt.Errorf("create institution: %w", err)
	}
	return nil
}

// Update overwrites an institution.
func (r *InstitutionRepository) Update(ctx context.Context, inst *models.Institution) error {
	inst.UpdatedAt = time.Now().UTC()
	const query = `UPDATE practice_institutions SET name = :name, institution_type = :institution_type, region = :region, address = :address,
		contact_name = :contact_name, phone = :phone, capacity = :capacity, notes = :notes, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, inst)
	if err != nil {
		return fmt.Errorf("update institution: %w", err)
	}
	return requireAffected(res)
}

// Delete removes an institution.
func (r *InstitutionRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "practice_institutions", id)
}
