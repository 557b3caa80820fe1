package models

import (
	"strconv"
	"time"

	"github.com/noah-isme/practicum-admin-api/internal/query"
)

func text[T any](get func(T) string) query.Accessor[T] {
	return func(r T) (string, bool) { return get(r), true }
}

func nullable[T any](get func(T) *string) query.Accessor[T] {
	return func(r T) (string, bool) {
		if v := get(r); v != nil {
			return *v, true
		}
		return "", false
	}
}

func timestamp[T any](get func(T) time.Time) query.Accessor[T] {
	return func(r T) (string, bool) {
		t := get(r)
		if t.IsZero() {
			return "", false
		}
		return t.Format(time.RFC3339Nano), true
	}
}

// ApplicationSchema describes how applications are searched, filtered and tabbed.
func ApplicationSchema(loc *time.Location) query.Schema[Application] {
	return query.Schema[Application]{
		Kind: KindApplications,
		ID:   func(a Application) string { return a.ID },
		Fields: map[string]query.Accessor[Application]{
			"name":                       text(func(a Application) string { return a.Name }),
			"phone":                      text(func(a Application) string { return a.Phone }),
			"email":                      nullable(func(a Application) *string { return a.Email }),
			"desired_course":             text(func(a Application) string { return a.DesiredCourse }),
			"practice_type":              text(func(a Application) string { return a.PracticeType }),
			"desired_region":             text(func(a Application) string { return a.DesiredRegion }),
			"institution_name":           nullable(func(a Application) *string { return a.InstitutionName }),
			"manager":                    nullable(func(a Application) *string { return a.Manager }),
			"payment_status":             text(func(a Application) string { return a.PaymentStatus }),
			"practice_completion_status": text(func(a Application) string { return a.PracticeCompletionStatus }),
			"created_at":                 timestamp(func(a Application) time.Time { return a.CreatedAt }),
		},
		Searchable: []string{"name", "phone", "email", "desired_region", "institution_name", "manager"},
		Filterable: []string{"desired_course", "practice_type", "desired_region", "manager", "payment_status", "practice_completion_status"},
		DateField:  "created_at",
		Tabs: []query.Tab[Application]{
			{Name: TabPending, Match: func(a Application) bool {
				return a.PaymentStatus != PaymentRefunded && a.PracticeCompletionStatus != CompletionCompleted
			}},
			{Name: TabCompleted, Match: func(a Application) bool {
				return a.PracticeCompletionStatus == CompletionCompleted
			}},
			{Name: TabRefunded, Match: func(a Application) bool {
				return a.PaymentStatus == PaymentRefunded
			}},
		},
		Location: loc,
	}
}

// InstitutionSchema describes the institution registry.
func InstitutionSchema(loc *time.Location) query.Schema[Institution] {
	return query.Schema[Institution]{
		Kind: KindInstitutions,
		ID:   func(i Institution) string { return i.ID },
		Fields: map[string]query.Accessor[Institution]{
			"name":             text(func(i Institution) string { return i.Name }),
			"institution_type": text(func(i Institution) string { return i.InstitutionType }),
			"region":           text(func(i Institution) string { return i.Region }),
			"address":          nullable(func(i Institution) *string { return i.Address }),
			"contact_name":     nullable(func(i Institution) *string { return i.ContactName }),
			"phone":            nullable(func(i Institution) *string { return i.Phone }),
			"created_at":       timestamp(func(i Institution) time.Time { return i.CreatedAt }),
		},
		Searchable: []string{"name", "region", "address", "contact_name", "phone"},
		Filterable: []string{"institution_type", "region"},
		DateField:  "created_at",
		Location:   loc,
	}
}

// PaymentSchema describes center payments. Dates come from the entered payment_date.
func PaymentSchema(loc *time.Location) query.Schema[CenterPayment] {
	return query.Schema[CenterPayment]{
		Kind: KindPayments,
		ID:   func(p CenterPayment) string { return p.ID },
		Fields: map[string]query.Accessor[CenterPayment]{
			"center_name":    text(func(p CenterPayment) string { return p.CenterName }),
			"student_name":   text(func(p CenterPayment) string { return p.StudentName }),
			"amount":         text(func(p CenterPayment) string { return strconv.FormatInt(p.Amount, 10) }),
			"payment_status": text(func(p CenterPayment) string { return p.PaymentStatus }),
			"payment_date":   nullable(func(p CenterPayment) *string { return p.PaymentDate }),
			"memo":           nullable(func(p CenterPayment) *string { return p.Memo }),
			"created_at":     timestamp(func(p CenterPayment) time.Time { return p.CreatedAt }),
		},
		Searchable: []string{"center_name", "student_name", "memo"},
		Filterable: []string{"center_name", "payment_status"},
		DateField:  "payment_date",
		Tabs: []query.Tab[CenterPayment]{
			{Name: TabUnpaid, Match: func(p CenterPayment) bool { return p.PaymentStatus == PaymentUnpaid }},
			{Name: TabPaid, Match: func(p CenterPayment) bool { return p.PaymentStatus == PaymentPaid }},
		},
		Location: loc,
	}
}

// MemoSchema describes consultation memos. Content is searched in its stored form.
func MemoSchema(loc *time.Location) query.Schema[ConsultationMemo] {
	return query.Schema[ConsultationMemo]{
		Kind: KindMemos,
		ID:   func(m ConsultationMemo) string { return m.ID },
		Fields: map[string]query.Accessor[ConsultationMemo]{
			"student_name": text(func(m ConsultationMemo) string { return m.StudentName }),
			"phone":        nullable(func(m ConsultationMemo) *string { return m.Phone }),
			"counselor":    text(func(m ConsultationMemo) string { return m.Counselor }),
			"channel":      text(func(m ConsultationMemo) string { return m.Channel }),
			"content":      text(func(m ConsultationMemo) string { return m.Content }),
			"created_at":   timestamp(func(m ConsultationMemo) time.Time { return m.CreatedAt }),
		},
		Searchable: []string{"student_name", "phone", "counselor", "content"},
		Filterable: []string{"counselor", "channel"},
		DateField:  "created_at",
		Location:   loc,
	}
}

// ActivityLogSchema describes the admin activity trail.
func ActivityLogSchema(loc *time.Location) query.Schema[ActivityLog] {
	return query.Schema[ActivityLog]{
		Kind: KindActivityLogs,
		ID:   func(l ActivityLog) string { return l.ID },
		Fields: map[string]query.Accessor[ActivityLog]{
			"admin_email": text(func(l ActivityLog) string { return l.AdminEmail }),
			"action":      text(func(l ActivityLog) string { return l.Action }),
			"target_kind": text(func(l ActivityLog) string { return l.TargetKind }),
			"target_id":   nullable(func(l ActivityLog) *string { return l.TargetID }),
			"details":     nullable(func(l ActivityLog) *string { return l.Details }),
			"created_at":  timestamp(func(l ActivityLog) time.Time { return l.CreatedAt }),
		},
		Searchable: []string{"admin_email", "action", "target_kind", "details"},
		Filterable: []string{"action", "target_kind"},
		DateField:  "created_at",
		Location:   loc,
	}
}
