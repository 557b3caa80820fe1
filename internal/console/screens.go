package console

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/noah-isme/practicum-admin-api/internal/listcodec"
	"github.com/noah-isme/practicum-admin-api/internal/models"
	"github.com/noah-isme/practicum-admin-api/internal/query"
)

// Collection is the read side a screen loads from.
type Collection[T any] interface {
	Schema() query.Schema[T]
	All(ctx context.Context) ([]T, error)
}

// BulkDeleter removes records by ID, reporting partial failure.
type BulkDeleter interface {
	BulkDelete(ctx context.Context, actor *models.AdminClaims, req models.BulkIDsRequest) (models.BulkResult, error)
}

type ApplicationSource interface {
	Collection[models.Application]
	BulkDeleter
}

type InstitutionSource interface {
	Collection[models.Institution]
	BulkDeleter
}

type PaymentSource interface {
	Collection[models.CenterPayment]
	BulkDeleter
	BulkMarkPaid(ctx context.Context, actor *models.AdminClaims, req models.BulkIDsRequest) (models.BulkResult, error)
	Get(ctx context.Context, id string) (*models.CenterPayment, error)
}

type MemoSource interface {
	Collection[models.ConsultationMemo]
	BulkDeleter
}

func NewApplicationScreen(src ApplicationSource, pageSize int) Screen {
	schema := src.Schema()
	s := newListScreen(models.KindApplications, schema, pageSize, src.All, []column[models.Application]{
		{title: "name", width: 10, value: func(a models.Application) string { return a.Name }},
		{title: "phone", width: 13, value: func(a models.Application) string { return a.Phone }},
		{title: "course", width: 14, value: func(a models.Application) string { return a.DesiredCourse }},
		{title: "region", width: 8, value: func(a models.Application) string { return a.DesiredRegion }},
		{title: "manager", width: 8, value: func(a models.Application) string { return deref(a.Manager) }},
		{title: "payment", width: 8, value: func(a models.Application) string { return a.PaymentStatus }},
		{title: "practice", width: 11, value: func(a models.Application) string { return a.PracticeCompletionStatus }},
		{title: "applied", width: 10, value: func(a models.Application) string { return day(a.CreatedAt, schema.Location) }},
	})
	s.remove = src.BulkDelete
	s.body = func(a models.Application) []listcodec.DisplayLine {
		return listcodec.ToDisplayLines(deref(a.ConsultationNotes))
	}
	return s
}

func NewInstitutionScreen(src InstitutionSource, pageSize int) Screen {
	s := newListScreen(models.KindInstitutions, src.Schema(), pageSize, src.All, []column[models.Institution]{
		{title: "name", width: 18, value: func(i models.Institution) string { return i.Name }},
		{title: "type", width: 20, value: func(i models.Institution) string { return i.InstitutionType }},
		{title: "region", width: 8, value: func(i models.Institution) string { return i.Region }},
		{title: "contact", width: 10, value: func(i models.Institution) string { return deref(i.ContactName) }},
		{title: "phone", width: 13, value: func(i models.Institution) string { return deref(i.Phone) }},
	})
	s.remove = src.BulkDelete
	s.body = func(i models.Institution) []listcodec.DisplayLine {
		return listcodec.ToDisplayLines(deref(i.Notes))
	}
	return s
}

func NewPaymentScreen(src PaymentSource, pageSize int) Screen {
	s := newListScreen(models.KindPayments, src.Schema(), pageSize, src.All, []column[models.CenterPayment]{
		{title: "center", width: 16, value: func(p models.CenterPayment) string { return p.CenterName }},
		{title: "student", width: 10, value: func(p models.CenterPayment) string { return p.StudentName }},
		{title: "amount", width: 10, value: func(p models.CenterPayment) string { return strconv.FormatInt(p.Amount, 10) }},
		{title: "status", width: 7, value: func(p models.CenterPayment) string { return p.PaymentStatus }},
		{title: "paid on", width: 10, value: func(p models.CenterPayment) string { return deref(p.PaymentDate) }},
	})
	s.remove = src.BulkDelete
	s.update = markPaid(src)
	s.verb = "mark paid"
	return s
}

// markPaid marks the payments paid and reads back the stored rows so the
// screen shows the payment date the store kept or assigned.
func markPaid(src PaymentSource) updateFunc[models.CenterPayment] {
	return func(ctx context.Context, actor *models.AdminClaims, ids []string) ([]models.CenterPayment, models.BulkResult, error) {
		result, err := src.BulkMarkPaid(ctx, actor, models.BulkIDsRequest{IDs: ids})
		paid := make([]models.CenterPayment, 0, len(result.Succeeded))
		for _, id := range result.Succeeded {
			p, getErr := src.Get(ctx, id)
			if getErr != nil {
				return paid, result, errors.Join(err, getErr)
			}
			paid = append(paid, *p)
		}
		return paid, result, err
	}
}

func NewMemoScreen(src MemoSource, pageSize int) Screen {
	schema := src.Schema()
	s := newListScreen(models.KindMemos, schema, pageSize, src.All, []column[models.ConsultationMemo]{
		{title: "student", width: 10, value: func(m models.ConsultationMemo) string { return m.StudentName }},
		{title: "counselor", width: 10, value: func(m models.ConsultationMemo) string { return m.Counselor }},
		{title: "channel", width: 7, value: func(m models.ConsultationMemo) string { return m.Channel }},
		{title: "date", width: 10, value: func(m models.ConsultationMemo) string { return day(m.CreatedAt, schema.Location) }},
		{title: "content", width: 30, value: func(m models.ConsultationMemo) string { return firstLine(m.Content) }},
	})
	s.remove = src.BulkDelete
	s.bodyField = "content"
	s.body = func(m models.ConsultationMemo) []listcodec.DisplayLine {
		return listcodec.ToDisplayLines(m.Content)
	}
	return s
}

// NewActivityLogScreen is read-only.
func NewActivityLogScreen(src Collection[models.ActivityLog], pageSize int) Screen {
	schema := src.Schema()
	return newListScreen(models.KindActivityLogs, schema, pageSize, src.All, []column[models.ActivityLog]{
		{title: "at", width: 16, value: func(l models.ActivityLog) string { return minute(l.CreatedAt, schema.Location) }},
		{title: "admin", width: 20, value: func(l models.ActivityLog) string { return l.AdminEmail }},
		{title: "action", width: 19, value: func(l models.ActivityLog) string { return l.Action }},
		{title: "target", width: 12, value: func(l models.ActivityLog) string { return l.TargetKind }},
		{title: "details", width: 30, value: func(l models.ActivityLog) string { return deref(l.Details) }},
	})
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func firstLine(stored string) string {
	lines := listcodec.ToDisplayLines(stored)
	if len(lines) == 0 {
		return ""
	}
	return lines[0].Text
}

func day(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("2006-01-02")
}

func minute(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("2006-01-02 15:04")
}
