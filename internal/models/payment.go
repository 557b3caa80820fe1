package models

import "time"

// Payment tabs mirror the two payment statuses.
const (
	TabUnpaid = PaymentUnpaid
	TabPaid   = PaymentPaid
)

// CenterPayment is a fee owed to a contract education center for a student.
type CenterPayment struct {
	ID            string    `db:"id" json:"id"`
	CenterName    string    `db:"center_name" json:"center_name"`
	StudentName   string    `db:"student_name" json:"student_name"`
	Amount        int64     `db:"amount" json:"amount"`
	PaymentStatus string    `db:"payment_status" json:"payment_status"`
	PaymentDate   *string   `db:"payment_date" json:"payment_date,omitempty"`
	Memo          *string   `db:"memo" json:"memo,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// CenterPaymentRequest is the create/update payload.
type CenterPaymentRequest struct {
	CenterName    string  `json:"center_name" validate:"required,max=200"`
	StudentName   string  `json:"student_name" validate:"required,max=100"`
	Amount        int64   `json:"amount" validate:"min=0"`
	PaymentStatus string  `json:"payment_status" validate:"omitempty,oneof=unpaid paid"`
	PaymentDate   *string `json:"payment_date" validate:"omitempty,datetime=2006-01-02"`
	Memo          *string `json:"memo"`
}
