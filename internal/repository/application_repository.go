package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/practicum-admin-api/internal/models"
)

const applicationColumns = "id, name, phone, email, desired_course, practice_type, desired_region, institution_name, manager, " +
	"payment_status, practice_completion_status, consultation_notes, privacy_consent, created_at, updated_at"

// ApplicationRepository manages persistence for student applications.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository constructs an ApplicationRepository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// ListAll returns every application, newest first.
func (r *ApplicationRepository) ListAll(ctx context.Context) ([]models.Application, error) {
	query := fmt.Sprintf("SELECT %s FROM student_applications ORDER BY created_at DESC", applicationColumns)
	apps := []models.Application{}
	if err := r.db.SelectContext(ctx, &apps, query); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// FindByID fetches an application by ID.
func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*models.Application, error) {
	query := fmt.Sprintf("SELECT %s FROM student_applications WHERE id = $1", applicationColumns)
	var app models.Application
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		return nil, err
	}
	return &app, nil
}

// Create inserts a new application; the ID and timestamps are assigned here.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	stamp(&app.ID, &app.CreatedAt, &app.UpdatedAt)
	const query = `INSERT INTO student_applications (id, name, phone, email, desired_course, practice_type, desired_region,
		institution_name, manager, payment_status, practice_completion_status, consultation_notes, privacy_consent, created_at, updated_at)
		VALUES (:id, :name, :phone, :email, :desired_course, :practice_type, :desired_region,
		:institution_name, :manager, :payment_status, :practice_completion_status, :consultation_notes, :privacy_consent, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, app); err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

// Update overwrites the editable columns of an application.
func (r *ApplicationRepository) Update(ctx context.Context, app *models.Application) error {
	app.UpdatedAt = time.Now().UTC()
	const query = `UPDATE student_applications SET name = :name, phone = :phone, email = :email, desired_course = :desired_course,
		practice_type = :practice_type, desired_region = :desired_region, institution_name = :institution_name, manager = :manager,
		payment_status = :payment_status, practice_completion_status = :practice_completion_status,
		consultation_notes = :consultation_notes, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, app)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	return requireAffected(res)
}

// UpdatePaymentStatus sets the payment status of one application.
func (r *ApplicationRepository) UpdatePaymentStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE student_applications SET payment_status = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update application payment status: %w", err)
	}
	return requireAffected(res)
}

// UpdateCompletionStatus sets the practice completion status of one application.
func (r *ApplicationRepository) UpdateCompletionStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE student_applications SET practice_completion_status = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update application completion status: %w", err)
	}
	return requireAffected(res)
}

// Delete removes an application.
func (r *ApplicationRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "student_applications", id)
}
