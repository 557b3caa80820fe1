package models

import "time"

// Application payment statuses.
const (
	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Practice completion statuses.
const (
	CompletionInProgress = "in_progress"
	CompletionCompleted  = "completed"
)

// Application tabs.
const (
	TabPending   = "pending"
	TabCompleted = "completed"
	TabRefunded  = "refunded"
)

// Application is a student's request for a practicum placement.
type Application struct {
	ID                       string    `db:"id" json:"id"`
	Name                     string    `db:"name" json:"name"`
	Phone                    string    `db:"phone" json:"phone"`
	Email                    *string   `db:"email" json:"email,omitempty"`
	DesiredCourse            string    `db:"desired_course" json:"desired_course"`
	PracticeType             string    `db:"practice_type" json:"practice_type"`
	DesiredRegion            string    `db:"desired_region" json:"desired_region"`
	InstitutionName          *string   `db:"institution_name" json:"institution_name,omitempty"`
	Manager                  *string   `db:"manager" json:"manager,omitempty"`
	PaymentStatus            string    `db:"payment_status" json:"payment_status"`
	PracticeCompletionStatus string    `db:"practice_completion_status" json:"practice_completion_status"`
	ConsultationNotes        *string   `db:"consultation_notes" json:"consultation_notes,omitempty"`
	PrivacyConsent           bool      `db:"privacy_consent" json:"privacy_consent"`
	CreatedAt                time.Time `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time `db:"updated_at" json:"updated_at"`
}

// SubmitApplicationRequest is the public form payload.
type SubmitApplicationRequest struct {
	Name           string  `json:"name" validate:"required,max=100"`
	Phone          string  `json:"phone" validate:"required,max=30"`
	Email          *string `json:"email" validate:"omitempty,email"`
	DesiredCourse  string  `json:"desired_course" validate:"required"`
	PracticeType   string  `json:"practice_type" validate:"required"`
	DesiredRegion  string  `json:"desired_region" validate:"required"`
	Message        *string `json:"message" validate:"omitempty,max=4000"`
	PrivacyConsent bool    `json:"privacy_consent"`
}

// ApplicationRequest is the admin create/update payload.
type ApplicationRequest struct {
	Name                     string  `json:"name" validate:"required,max=100"`
	Phone                    string  `json:"phone" validate:"required,max=30"`
	Email                    *string `json:"email" validate:"omitempty,email"`
	DesiredCourse            string  `json:"desired_course" validate:"required"`
	PracticeType             string  `json:"practice_type" validate:"required"`
	DesiredRegion            string  `json:"desired_region" validate:"required"`
	InstitutionName          *string `json:"institution_name"`
	Manager                  *string `json:"manager"`
	PaymentStatus            string  `json:"payment_status" validate:"omitempty,oneof=unpaid paid refunded"`
	PracticeCompletionStatus string  `json:"practice_completion_status" validate:"omitempty,oneof=in_progress completed"`
	ConsultationNotes        *string `json:"consultation_notes"`
}

// PaymentStatusRequest transitions an application's payment status.
type PaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=unpaid paid refunded"`
}

// CompletionStatusRequest transitions an application's practice completion status.
type CompletionStatusRequest struct {
	PracticeCompletionStatus string `json:"practice_completion_status" validate:"required,oneof=in_progress completed"`
}

// BulkPaymentStatusRequest applies one payment status to many applications.
type BulkPaymentStatusRequest struct {
	IDs           []string `json:"ids" validate:"required,min=1,dive,required"`
	PaymentStatus string   `json:"payment_status" validate:"required,oneof=unpaid paid refunded"`
}
