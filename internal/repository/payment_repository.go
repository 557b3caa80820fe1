package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/practicum-admin-api/internal/models"
)

const paymentColumns = `id, center_name, student_name, amount, payment_status, payment_date, memo, created_at, updated_at`

// PaymentRepository manages persistence for contract education center payments.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// ListAll returns every payment, newest first.
func (r *PaymentRepository) ListAll(ctx context.Context) ([]models.CenterPayment, error) {
	query := fmt.Sprintf("SELECT %s FROM center_payments ORDER BY created_at DESC", paymentColumns)
	items := []models.CenterPayment{}
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return items, nil
}

// FindByID fetches a payment by ID.
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*models.CenterPayment, error) {
	query := fmt.Sprintf("SELECT %s FROM center_payments WHERE id = $1", paymentColumns)
	var p models.CenterPayment
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new payment.
func (r *PaymentRepository) Create(ctx context.Context, p *models.CenterPayment) error {
	stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	const query = `INSERT INTO center_payments (id, center_name, student_name, amount, payment_status, payment_date, memo, created_at, updated_at)
		VALUES (:id, :center_name, :student_name, :amount, :payment_status, :payment_date, :memo, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// Update overwrites a payment.
func (r *PaymentRepository) Update(ctx context.Context, p *models.CenterPayment) error {
	p.UpdatedAt = time.Now().UTC()
	const query = `UPDATE center_payments SET center_name = :center_name, student_name = :student_name, amount = :amount,
		payment_status = :payment_status, payment_date = :payment_date, memo = :memo, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, p)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return requireAffected(res)
}

// MarkPaid flips a payment to paid, keeping an existing payment date.
func (r *PaymentRepository) MarkPaid(ctx context.Context, id, paymentDate string) error {
	const query = `UPDATE center_payments SET payment_status = $2, payment_date = COALESCE(payment_date, $3), updated_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, models.PaymentPaid, paymentDate, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark payment paid: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a payment.
func (r *PaymentRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "center_payments", id)
}
