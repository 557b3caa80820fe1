package console

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/practicum-admin-api/internal/models"
	"github.com/noah-isme/practicum-admin-api/internal/query"
	"github.com/noah-isme/practicum-admin-api/internal/viewstate"
	appErrors "github.com/noah-isme/practicum-admin-api/pkg/errors"
)

type fakeSource[T any] struct {
	schema  query.Schema[T]
	records []T
	loadErr error
	failIDs map[string]bool
	loads   int
	removed []string
	actor   string
}

func (f *fakeSource[T]) Schema() query.Schema[T] { return f.schema }

func (f *fakeSource[T]) All(ctx context.Context) ([]T, error) {
	f.loads++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return append([]T(nil), f.records...), nil
}

func (f *fakeSource[T]) BulkDelete(ctx context.Context, actor *models.AdminClaims, req models.BulkIDsRequest) (models.BulkResult, error) {
	f.actor = actor.Actor()
	result := models.BulkResult{Succeeded: []string{}}
	gone := map[string]bool{}
	for _, id := range req.IDs {
		if f.failIDs[id] {
			result.Failed = append(result.Failed, id)
			continue
		}
		gone[id] = true
		result.Succeeded = append(result.Succeeded, id)
		f.removed = append(f.removed, id)
	}
	kept := f.records[:0:0]
	for _, r := range f.records {
		if !gone[f.schema.ID(r)] {
			kept = append(kept, r)
		}
	}
	f.records = kept
	if len(result.Failed) > 0 {
		return result, appErrors.Clone(appErrors.ErrBatchFailed, "")
	}
	return result, nil
}

func application(id, name, region, payment, completion string, created time.Time) models.Application {
	return models.Application{
		ID:                       id,
		Name:                     name,
		Phone:                    "010-0000-0000",
		DesiredCourse:            "social_welfare",
		PracticeType:             "field",
		DesiredRegion:            region,
		PaymentStatus:            payment,
		PracticeCompletionStatus: completion,
		CreatedAt:                created,
	}
}

func applicationSource() *fakeSource[models.Application] {
	return &fakeSource[models.Application]{
		schema: models.ApplicationSchema(time.UTC),
		records: []models.Application{
			application("a1", "홍길동", "Seoul", models.PaymentUnpaid, models.CompletionInProgress, time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)),
			application("a2", "김영희", "Busan", models.PaymentPaid, models.CompletionCompleted, time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)),
			application("a3", "이철수", "Seoul", models.PaymentRefunded, models.CompletionInProgress, time.Date(2024, 4, 20, 9, 0, 0, 0, time.UTC)),
			application("a4", "박민수", "Daegu", models.PaymentUnpaid, models.CompletionInProgress, time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC)),
			application("a5", "최지은", "Seoul", models.PaymentPaid, models.CompletionCompleted, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)),
		},
	}
}

func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(Model)
	}
	return m, cmd
}

func deliver(t *testing.T, m Model, cmd tea.Cmd) (Model, tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	next, follow := m.Update(cmd())
	return next.(Model), follow
}

func start(t *testing.T, screens []Screen, opts Options) Model {
	t.Helper()
	m, err := New(context.Background(), screens, opts)
	require.NoError(t, err)
	m, _ = deliver(t, m, m.Init())
	return m
}

func applications(m Model) *listScreen[models.Application] {
	return m.current().(*listScreen[models.Application])
}

func pageIDs(s *listScreen[models.Application]) []string {
	var ids []string
	for _, a := range s.state.PageView().Items {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestConsoleLoadsAndPages(t *testing.T) {
	src := applicationSource()
	m := start(t, []Screen{NewApplicationScreen(src, 2)}, Options{})

	view := applications(m).state.PageView()
	assert.Equal(t, 5, view.TotalCount)
	assert.Equal(t, 3, view.TotalPages)
	assert.Equal(t, "loaded 5 applications", m.status)
	assert.Contains(t, m.View(), "page 1/3")

	m, _ = press(t, m, "right")
	if diff := cmp.Diff([]string{"a3", "a4"}, pageIDs(applications(m))); diff != "" {
		t.Fatalf("page 2 mismatch (-want +got):\n%s", diff)
	}

	m, _ = press(t, m, "right", "right")
	assert.Equal(t, 3, applications(m).state.PageView().Page)
	assert.Equal(t, "already on the last page", m.status)

	m, _ = press(t, m, "left")
	assert.Equal(t, 2, applications(m).state.PageView().Page)
}

func TestConsoleTabResetsPageAndPurgesSelection(t *testing.T) {
	m := start(t, []Screen{NewApplicationScreen(applicationSource(), 2)}, Options{})

	m, _ = press(t, m, " ", "right")
	assert.Equal(t, []string{"a1"}, applications(m).selected())

	m, _ = press(t, m, "2")
	screen := applications(m)
	assert.Equal(t, models.TabCompleted, screen.query().Tab)
	assert.Equal(t, 1, screen.state.PageView().Page)
	assert.Equal(t, []string{"a2", "a5"}, pageIDs(screen))
	assert.Empty(t, screen.selected())

	m, _ = press(t, m, "0")
	assert.Equal(t, 5, applications(m).state.PageView().TotalCount)
}

func TestConsoleSearch(t *testing.T) {
	m := start(t, []Screen{NewApplicationScreen(applicationSource(), 10)}, Options{})

	m, _ = press(t, m, "/")
	require.Equal(t, modeSearch, m.mode)
	m, _ = press(t, m, "seoul", "enter")

	assert.Equal(t, modeList, m.mode)
	screen := applications(m)
	assert.Equal(t, "seoul", screen.query().Search)
	assert.Equal(t, []string{"a1", "a3", "a5"}, pageIDs(screen))

	m, _ = press(t, m, "c")
	assert.Equal(t, 5, applications(m).state.PageView().TotalCount)
}

func TestConsoleMonthCycle(t *testing.T) {
	m := start(t, []Screen{NewApplicationScreen(applicationSource(), 10)}, Options{})

	steps := []struct {
		months []string
		count  int
	}{
		{[]string{"24년05월"}, 2},
		{[]string{"24년04월"}, 2},
		{[]string{"24년03월"}, 1},
		{nil, 5},
	}
	for _, step := range steps {
		m, _ = press(t, m, "m")
		screen := applications(m)
		assert.Equal(t, step.months, screen.query().Months)
		assert.Equal(t, step.count, screen.state.PageView().TotalCount)
	}
}

func TestConsoleBulkDelete(t *testing.T) {
	src := applicationSource()
	actor := &models.AdminClaims{Email: "admin@example.com"}
	m := start(t, []Screen{NewApplicationScreen(src, 10)}, Options{Actor: actor})

	m, _ = press(t, m, " ", "down", " ", "D")
	assert.Equal(t, modeConfirm, m.mode)
	assert.Equal(t, "delete 2 applications? y/n", m.status)

	m, cmd := press(t, m, "y")
	m, follow := deliver(t, m, cmd)
	assert.Nil(t, follow)

	assert.Equal(t, []string{"a1", "a2"}, src.removed)
	assert.Equal(t, "admin@example.com", src.actor)
	assert.False(t, m.failed)
	assert.Equal(t, "deleted 2 applications", m.status)

	screen := applications(m)
	assert.Equal(t, 3, screen.state.PageView().TotalCount)
	assert.Empty(t, screen.selected())
}

func TestConsoleBulkDeletePartialFailureRefetches(t *testing.T) {
	src := applicationSource()
	src.failIDs = map[string]bool{"a2": true}
	m := start(t, []Screen{NewApplicationScreen(src, 10)}, Options{})

	m, _ = press(t, m, " ", "down", " ", "D")
	m, cmd := press(t, m, "y")
	m, follow := deliver(t, m, cmd)

	assert.True(t, m.failed)
	assert.Contains(t, m.status, "deleted 1, 1 failed")
	_, found := applications(m).state.Find("a1")
	assert.False(t, found)

	require.NotNil(t, follow, "partial failure must reload from the store")
	m, _ = deliver(t, m, follow)
	assert.Equal(t, 2, src.loads)
	assert.False(t, m.failed)
	assert.Equal(t, "reloaded 4 applications from the store", m.status)
	assert.Equal(t, 4, applications(m).state.PageView().TotalCount)
	_, found = applications(m).state.Find("a2")
	assert.True(t, found)
}

func TestConsoleFailedRefetchKeepsState(t *testing.T) {
	src := applicationSource()
	src.failIDs = map[string]bool{"a2": true}
	m := start(t, []Screen{NewApplicationScreen(src, 10)}, Options{})

	m, _ = press(t, m, " ", "down", " ", "D")
	m, cmd := press(t, m, "y")
	m, follow := deliver(t, m, cmd)

	src.loadErr = errors.New("connection reset")
	m, _ = deliver(t, m, follow)

	assert.True(t, m.failed)
	assert.Contains(t, m.status, "refetch applications")
	screen := applications(m)
	assert.Equal(t, 4, screen.state.PageView().TotalCount)
	assert.Equal(t, []string{"a2"}, screen.selected())
}

func TestConsoleDeleteGuards(t *testing.T) {
	src := applicationSource()
	m := start(t, []Screen{NewApplicationScreen(src, 10)}, Options{})

	m, cmd := press(t, m, "D")
	assert.Nil(t, cmd)
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "nothing selected", m.status)

	m, _ = press(t, m, " ", "D", "n")
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "cancelled", m.status)
	assert.Equal(t, []string{"a1"}, applications(m).selected())
	assert.Empty(t, src.removed)
}

func TestConsoleSelectAllOnPage(t *testing.T) {
	m := start(t, []Screen{NewApplicationScreen(applicationSource(), 2)}, Options{})

	m, _ = press(t, m, "a")
	assert.Equal(t, []string{"a1", "a2"}, applications(m).selected())

	m, _ = press(t, m, "right", "a")
	assert.Equal(t, []string{"a1", "a2", "a3", "a4"}, applications(m).selected())

	m, _ = press(t, m, "a")
	assert.Equal(t, []string{"a1", "a2"}, applications(m).selected())
}

func TestConsoleMemoDetail(t *testing.T) {
	src := &fakeSource[models.ConsultationMemo]{
		schema: models.MemoSchema(time.UTC),
		records: []models.ConsultationMemo{{
			ID:          "m1",
			StudentName: "홍길동",
			Counselor:   "Kim",
			Channel:     models.ChannelPhone,
			Content:     "<li>first visit</li><li>> parent asked about fees</li>",
			CreatedAt:   time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC),
		}},
	}
	m := start(t, []Screen{NewMemoScreen(src, 10)}, Options{})

	assert.Contains(t, m.View(), "first visit")

	m, _ = press(t, m, "enter")
	require.Equal(t, modeDetail, m.mode)
	out := m.View()
	assert.Contains(t, out, "first visit")
	assert.Contains(t, out, "> parent asked about fees")
	assert.NotContains(t, out, "<li>")

	m, _ = press(t, m, "esc")
	assert.Equal(t, modeList, m.mode)
}

func TestConsoleActivityLogsAreReadOnly(t *testing.T) {
	src := &fakeSource[models.ActivityLog]{
		schema: models.ActivityLogSchema(time.UTC),
		records: []models.ActivityLog{{
			ID:         "l1",
			AdminEmail: "admin@example.com",
			Action:     models.ActionDelete,
			TargetKind: models.KindApplications,
			CreatedAt:  time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC),
		}},
	}
	m := start(t, []Screen{NewActivityLogScreen(src, 10)}, Options{})

	m, cmd := press(t, m, " ", "D")
	assert.Nil(t, cmd)
	assert.Equal(t, "activity_logs are read-only", m.status)
}

func TestConsoleLoadFailure(t *testing.T) {
	src := applicationSource()
	src.loadErr = errors.New("connection refused")
	m := start(t, []Screen{NewApplicationScreen(src, 10)}, Options{})

	assert.True(t, m.failed)
	assert.Contains(t, m.status, "load applications")
	assert.False(t, applications(m).isLoaded())
}

func TestConsoleSwitchScreenLoadsLazily(t *testing.T) {
	memos := &fakeSource[models.ConsultationMemo]{schema: models.MemoSchema(time.UTC)}
	m := start(t, []Screen{NewApplicationScreen(applicationSource(), 10), NewMemoScreen(memos, 10)}, Options{})
	assert.Equal(t, 0, memos.loads)

	m, cmd := press(t, m, "tab")
	assert.Equal(t, models.KindMemos, m.current().Name())
	m, _ = deliver(t, m, cmd)
	assert.Equal(t, 1, memos.loads)

	m, _ = press(t, m, "shift+tab")
	m, cmd = press(t, m, "tab")
	assert.Nil(t, cmd)
	assert.Equal(t, 1, memos.loads)
}

func TestNewRejectsUnknownScreen(t *testing.T) {
	_, err := New(context.Background(), []Screen{NewApplicationScreen(applicationSource(), 10)}, Options{Screen: "grades"})
	require.Error(t, err)

	_, err = New(context.Background(), nil, Options{})
	require.Error(t, err)
}

func TestNextMonth(t *testing.T) {
	available := []string{"24년05월", "24년04월"}
	assert.Equal(t, []string{"24년05월"}, nextMonth(available, nil))
	assert.Equal(t, []string{"24년04월"}, nextMonth(available, []string{"24년05월"}))
	assert.Nil(t, nextMonth(available, []string{"24년04월"}))
	assert.Nil(t, nextMonth(nil, nil))
}

func TestFitUsesCellWidth(t *testing.T) {
	assert.Equal(t, 4, runewidth.StringWidth(fit("홍길동", 4)))
	assert.Equal(t, 6, runewidth.StringWidth(fit("홍길동", 6)))
	assert.Equal(t, "ab  ", fit("ab", 4))
}

type fakePayments struct {
	*fakeSource[models.CenterPayment]
	paidOn  string
	marked  []string
	getErrs map[string]bool
}

func (f *fakePayments) BulkMarkPaid(ctx context.Context, actor *models.AdminClaims, req models.BulkIDsRequest) (models.BulkResult, error) {
	result := models.BulkResult{Succeeded: []string{}}
	for _, id := range req.IDs {
		if f.failIDs[id] {
			result.Failed = append(result.Failed, id)
			continue
		}
		for i := range f.records {
			p := &f.records[i]
			if p.ID != id {
				continue
			}
			p.PaymentStatus = models.PaymentPaid
			if p.PaymentDate == nil {
				date := f.paidOn
				p.PaymentDate = &date
			}
		}
		f.marked = append(f.marked, id)
		result.Succeeded = append(result.Succeeded, id)
	}
	if len(result.Failed) > 0 {
		return result, appErrors.Clone(appErrors.ErrBatchFailed, "")
	}
	return result, nil
}

func (f *fakePayments) Get(ctx context.Context, id string) (*models.CenterPayment, error) {
	for _, p := range f.records {
		if p.ID == id {
			out := p
			return &out, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
}

func paymentSource() *fakePayments {
	kept := "2024-05-01"
	created := time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)
	return &fakePayments{
		paidOn: "2024-06-01",
		fakeSource: &fakeSource[models.CenterPayment]{
			schema: models.PaymentSchema(time.UTC),
			records: []models.CenterPayment{
				{ID: "p1", CenterName: "Hanbit", StudentName: "홍길동", Amount: 300000, PaymentStatus: models.PaymentUnpaid, CreatedAt: created},
				{ID: "p2", CenterName: "Hanbit", StudentName: "김영희", Amount: 300000, PaymentStatus: models.PaymentUnpaid, CreatedAt: created},
				{ID: "p3", CenterName: "Nuri", StudentName: "이철수", Amount: 250000, PaymentStatus: models.PaymentPaid, PaymentDate: &kept, CreatedAt: created},
			},
		},
	}
}

func payments(m Model) *listScreen[models.CenterPayment] {
	return m.current().(*listScreen[models.CenterPayment])
}

func TestConsoleMarkPaidUpdatesInPlace(t *testing.T) {
	src := paymentSource()
	m := start(t, []Screen{NewPaymentScreen(src, 10)}, Options{Actor: &models.AdminClaims{Email: "admin@example.com"}})

	m, _ = press(t, m, "1", " ", "P")
	require.Equal(t, modeConfirm, m.mode)
	assert.Equal(t, "mark paid: 1 payments? y/n", m.status)

	m, cmd := press(t, m, "y")
	m, follow := deliver(t, m, cmd)
	assert.Nil(t, follow)
	assert.Equal(t, 1, src.loads)
	assert.Equal(t, []string{"p1"}, src.marked)
	assert.Equal(t, "mark paid: 1 payments", m.status)

	screen := payments(m)
	p1, ok := screen.state.Find("p1")
	require.True(t, ok)
	assert.Equal(t, models.PaymentPaid, p1.PaymentStatus)
	require.NotNil(t, p1.PaymentDate)
	assert.Equal(t, "2024-06-01", *p1.PaymentDate)
	assert.Empty(t, screen.selected())

	var unpaid []string
	for _, p := range screen.state.PageView().Items {
		unpaid = append(unpaid, p.ID)
	}
	assert.Equal(t, []string{"p2"}, unpaid)

	m, _ = press(t, m, "0")
	var all []string
	for _, p := range payments(m).state.PageView().Items {
		all = append(all, p.ID)
	}
	assert.Equal(t, []string{"p1", "p2", "p3"}, all)
}

func TestConsoleMarkPaidPartialFailureRefetches(t *testing.T) {
	src := paymentSource()
	src.failIDs = map[string]bool{"p2": true}
	m := start(t, []Screen{NewPaymentScreen(src, 10)}, Options{})

	m, _ = press(t, m, "a", "P")
	assert.Equal(t, "mark paid: 3 payments? y/n", m.status)
	m, cmd := press(t, m, "y")
	m, follow := deliver(t, m, cmd)

	assert.True(t, m.failed)
	assert.Contains(t, m.status, "mark paid: 2 done, 1 failed")
	assert.Equal(t, []string{"p2"}, payments(m).selected())

	require.NotNil(t, follow)
	m, _ = deliver(t, m, follow)
	assert.Equal(t, 2, src.loads)
	p3, ok := payments(m).state.Find("p3")
	require.True(t, ok)
	assert.Equal(t, "2024-05-01", *p3.PaymentDate)
}

func TestConsoleMarkPaidGuards(t *testing.T) {
	m := start(t, []Screen{NewApplicationScreen(applicationSource(), 10)}, Options{})
	m, cmd := press(t, m, " ", "P")
	assert.Nil(t, cmd)
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "applications have no bulk update", m.status)

	m = start(t, []Screen{NewPaymentScreen(paymentSource(), 10)}, Options{})
	m, _ = press(t, m, "P")
	assert.Equal(t, "nothing selected", m.status)

	m, _ = press(t, m, " ", "P", "n")
	assert.Equal(t, "cancelled", m.status)
	assert.Equal(t, []string{"p1"}, payments(m).selected())
}

func TestConsoleRestoresSavedViewState(t *testing.T) {
	memos := &fakeSource[models.ConsultationMemo]{schema: models.MemoSchema(time.UTC)}
	memoSnap := viewstate.Snapshot{Query: query.Query{Search: "fees"}, Page: 1, PageSize: 10}
	saved := map[string]viewstate.Snapshot{
		models.KindApplications: {
			Query:    query.Query{Search: "seoul"},
			Page:     2,
			PageSize: 2,
			Selected: []string{"a3", "a2"},
		},
		models.KindMemos: memoSnap,
	}
	m := start(t, []Screen{NewApplicationScreen(applicationSource(), 10), NewMemoScreen(memos, 10)}, Options{Saved: saved})

	screen := applications(m)
	assert.Equal(t, "seoul", screen.query().Search)
	assert.Equal(t, []string{"a5"}, pageIDs(screen))
	assert.Equal(t, []string{"a3"}, screen.selected())

	want := map[string]viewstate.Snapshot{
		models.KindApplications: {Query: query.Query{Search: "seoul"}, Page: 2, PageSize: 2, Selected: []string{"a3"}},
		models.KindMemos:        memoSnap,
	}
	if diff := cmp.Diff(want, m.Snapshots()); diff != "" {
		t.Fatalf("snapshots mismatch (-want +got):\n%s", diff)
	}
}

func TestConsoleIgnoresInvalidSavedQuery(t *testing.T) {
	saved := map[string]viewstate.Snapshot{
		models.KindApplications: {Query: query.Query{Tab: "archived"}, Page: 1, PageSize: 10},
	}
	m := start(t, []Screen{NewApplicationScreen(applicationSource(), 10)}, Options{Saved: saved})

	assert.True(t, applications(m).query().IsZero())
	assert.Equal(t, 5, applications(m).state.PageView().TotalCount)
}

func TestSnapshotsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	snaps, err := LoadSnapshots(path)
	require.NoError(t, err)
	assert.Nil(t, snaps)

	want := map[string]viewstate.Snapshot{
		models.KindPayments: {Query: query.Query{Tab: models.TabUnpaid}, Page: 2, PageSize: 20, Selected: []string{"p1"}},
	}
	require.NoError(t, SaveSnapshots(path, want))
	got, err := LoadSnapshots(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err = LoadSnapshots(path)
	assert.Error(t, err)
}
