package models

import "time"

// Activity actions recorded for admin mutations.
const (
	ActionCreate            = "CREATE"
	ActionUpdate            = "UPDATE"
	ActionDelete            = "DELETE"
	ActionBulkDelete        = "BULK_DELETE"
	ActionPaymentStatus     = "PAYMENT_STATUS"
	ActionCompletionStatus  = "COMPLETION_STATUS"
	ActionBulkPaymentStatus = "BULK_PAYMENT_STATUS"
	ActionBulkMarkPaid      = "BULK_MARK_PAID"
	ActionExport            = "EXPORT"
)

// Record kinds as they appear in routes and activity logs.
const (
	KindApplications = "applications"
	KindInstitutions = "institutions"
	KindPayments     = "payments"
	KindMemos        = "memos"
	KindActivityLogs = "activity_logs"
)

// ActivityLog is an append-only trail of admin mutations.
type ActivityLog struct {
	ID         string    `db:"id" json:"id"`
	AdminEmail string    `db:"admin_email" json:"admin_email"`
	Action     string    `db:"action" json:"action"`
	TargetKind string    `db:"target_kind" json:"target_kind"`
	TargetID   *string   `db:"target_id" json:"target_id,omitempty"`
	Details    *string   `db:"details" json:"details,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
