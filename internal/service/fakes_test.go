package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/noah-isme/practicum-admin-api/internal/models"
	appErrors "github.com/noah-isme/practicum-admin-api/pkg/errors"
)

// memStore is an in-memory table keyed by the string returned from id.
type memStore[T any] struct {
	mu        sync.Mutex
	rows      []T
	id        func(*T) *string
	fail      map[string]error
	listErr   error
	listCalls int
	next      int
}

func newMemStore[T any](id func(*T) *string, rows ...T) *memStore[T] {
	return &memStore[T]{rows: rows, id: id, fail: map[string]error{}}
}

func (m *memStore[T]) ListAll(ctx context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]T, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

func (m *memStore[T]) FindByID(ctx context.Context, id string) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.index(id); i >= 0 {
		cp := m.rows[i]
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *memStore[T]) Create(ctx context.Context, row *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["create"]; err != nil {
		return err
	}
	m.next++
	*m.id(row) = fmt.Sprintf("gen-%d", m.next)
	m.rows = append([]T{*row}, m.rows...)
	return nil
}

func (m *memStore[T]) Update(ctx context.Context, row *T) error {
	return m.mutate(*m.id(row), func(existing *T) { *existing = *row })
}

func (m *memStore[T]) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail[id]; err != nil {
		return err
	}
	i := m.index(id)
	if i < 0 {
		return sql.ErrNoRows
	}
	m.rows = append(m.rows[:i], m.rows[i+1:]...)
	return nil
}

func (m *memStore[T]) mutate(id string, fn func(*T)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail[id]; err != nil {
		return err
	}
	i := m.index(id)
	if i < 0 {
		return sql.ErrNoRows
	}
	fn(&m.rows[i])
	return nil
}

func (m *memStore[T]) ids() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.rows))
	for i := range m.rows {
		out = append(out, *m.id(&m.rows[i]))
	}
	return out
}

func (m *memStore[T]) index(id string) int {
	for i := range m.rows {
		if *m.id(&m.rows[i]) == id {
			return i
		}
	}
	return -1
}

type fakeApplicationRepo struct {
	*memStore[models.Application]
}

func newFakeApplicationRepo(rows ...models.Application) fakeApplicationRepo {
	return fakeApplicationRepo{newMemStore(func(a *models.Application) *string { return &a.ID }, rows...)}
}

func (r fakeApplicationRepo) UpdatePaymentStatus(ctx context.Context, id, status string) error {
	return r.mutate(id, func(a *models.Application) { a.PaymentStatus = status })
}

func (r fakeApplicationRepo) UpdateCompletionStatus(ctx context.Context, id, status string) error {
	return r.mutate(id, func(a *models.Application) { a.PracticeCompletionStatus = status })
}

type fakePaymentRepo struct {
	*memStore[models.CenterPayment]
}

func newFakePaymentRepo(rows ...models.CenterPayment) fakePaymentRepo {
	return fakePaymentRepo{newMemStore(func(p *models.CenterPayment) *string { return &p.ID }, rows...)}
}

func (r fakePaymentRepo) MarkPaid(ctx context.Context, id, paymentDate string) error {
	return r.mutate(id, func(p *models.CenterPayment) {
		p.PaymentStatus = models.PaymentPaid
		if p.PaymentDate == nil {
			p.PaymentDate = &paymentDate
		}
	})
}

// fakeCacheRepo round-trips values through JSON like the Redis repository.
type fakeCacheRepo struct {
	mu      sync.Mutex
	entries map[string][]byte
	deletes []string
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{entries: map[string][]byte{}}
}

func (f *fakeCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = raw
	return nil
}

func (f *fakeCacheRepo) Delete(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.entries, key)
		f.deletes = append(f.deletes, key)
	}
	return nil
}

// activitySink collects activity entries written by the recorder.
type activitySink struct {
	mu      sync.Mutex
	entries []models.ActivityLog
	err     error
}

func (s *activitySink) Create(ctx context.Context, entry *models.ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *activitySink) snapshot() []models.ActivityLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ActivityLog, len(s.entries))
	copy(out, s.entries)
	return out
}

func strPtr(v string) *string { return &v }

func admin() *models.AdminClaims {
	return &models.AdminClaims{Email: "admin@example.com"}
}
