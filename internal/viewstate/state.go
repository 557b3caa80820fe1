// Package viewstate holds the per-screen list state of the admin console:
// the loaded collection, the active query, the page window and the selection.
//
// A State is owned by exactly one screen and is not safe for concurrent use;
// callers serialise updates through their event loop.
package viewstate

import (
	"context"
	"fmt"

	"github.com/noah-isme/practicum-admin-api/internal/query"
)

// View is what a screen renders for the current page.
type View[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	TotalPages int
	TotalCount int
	Selected   int
}

// Snapshot is the serialisable part of a State.
type Snapshot struct {
	Query    query.Query `json:"query"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Selected []string    `json:"selected,omitempty"`
}

// FetchFunc reloads the full collection from the store.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// State is an explicit list state container for one record kind.
type State[T any] struct {
	schema   query.Schema[T]
	records  []T
	filtered []T
	query    query.Query
	page     int
	pageSize int
	selected map[string]struct{}
}

// New creates an empty state. A non-positive pageSize uses the default.
func New[T any](schema query.Schema[T], pageSize int) *State[T] {
	if pageSize < 1 {
		pageSize = query.DefaultPageSize
	}
	return &State[T]{
		schema:   schema,
		records:  []T{},
		filtered: []T{},
		page:     1,
		pageSize: pageSize,
		selected: make(map[string]struct{}),
	}
}

// Load replaces the collection. Selected IDs that are no longer loaded are
// dropped and the page falls back to 1 when it no longer exists.
func (s *State[T]) Load(records []T) {
	s.records = append([]T(nil), records...)
	s.refilter()
	s.retainSelection(s.records)
	s.clampPage()
}

// Records returns the loaded, unfiltered collection.
func (s *State[T]) Records() []T {
	return s.records
}

// Query returns the active query.
func (s *State[T]) Query() query.Query {
	return s.query.Clone()
}

// SetQuery replaces the active query. The page is reset to 1 before the
// filtered set is recomputed, and selected records that the new query hides
// are deselected.
func (s *State[T]) SetQuery(q query.Query) {
	s.page = 1
	s.query = q.Clone()
	s.refilter()
	s.retainSelection(s.filtered)
}

// SetPage moves to page p. Out of range targets are ignored and reported as false.
func (s *State[T]) SetPage(p int) bool {
	if !query.CanGoTo(p, s.totalPages()) {
		return false
	}
	s.page = p
	return true
}

// NextPage and PrevPage are SetPage relative to the current page.
func (s *State[T]) NextPage() bool { return s.SetPage(s.page + 1) }

func (s *State[T]) PrevPage() bool { return s.SetPage(s.page - 1) }

// ToggleSelect flips the selection of a loaded record. Unknown IDs are ignored.
func (s *State[T]) ToggleSelect(id string) {
	if !s.loaded(id) {
		return
	}
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return
	}
	s.selected[id] = struct{}{}
}

// IsSelected reports whether id is in the selection.
func (s *State[T]) IsSelected(id string) bool {
	_, ok := s.selected[id]
	return ok
}

// ToggleSelectAllOnPage selects every row of the current page, or, when all
// of them are already selected, deselects exactly those rows.
func (s *State[T]) ToggleSelectAllOnPage() {
	items := s.pageItems()
	if len(items) == 0 {
		return
	}
	all := true
	for _, r := range items {
		if !s.IsSelected(s.schema.ID(r)) {
			all = false
			break
		}
	}
	for _, r := range items {
		id := s.schema.ID(r)
		if all {
			delete(s.selected, id)
		} else {
			s.selected[id] = struct{}{}
		}
	}
}

// ClearSelection empties the selection.
func (s *State[T]) ClearSelection() {
	s.selected = make(map[string]struct{})
}

// Selected returns the selected IDs in collection order.
func (s *State[T]) Selected() []string {
	out := make([]string, 0, len(s.selected))
	for _, r := range s.records {
		if id := s.schema.ID(r); s.IsSelected(id) {
			out = append(out, id)
		}
	}
	return out
}

// PageView returns the current page of the filtered collection.
func (s *State[T]) PageView() View[T] {
	p := query.Paginate(s.filtered, s.page, s.pageSize)
	return View[T]{
		Items:      p.Items,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
		TotalCount: p.TotalCount,
		Selected:   len(s.selected),
	}
}

// Find returns the loaded record with the given ID.
func (s *State[T]) Find(id string) (T, bool) {
	for _, r := range s.records {
		if s.schema.ID(r) == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// ApplyAccepted mirrors a write the store accepted: an existing record is
// replaced in place, a new one is prepended as the most recent.
func (s *State[T]) ApplyAccepted(record T) {
	id := s.schema.ID(record)
	replaced := false
	for i, r := range s.records {
		if s.schema.ID(r) == id {
			s.records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		s.records = append([]T{record}, s.records...)
	}
	s.refilter()
	s.clampPage()
}

// RemoveAccepted drops records whose deletion the store confirmed.
func (s *State[T]) RemoveAccepted(ids ...string) {
	if len(ids) == 0 {
		return
	}
	gone := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		gone[id] = struct{}{}
		delete(s.selected, id)
	}
	kept := s.records[:0:0]
	for _, r := range s.records {
		if _, ok := gone[s.schema.ID(r)]; !ok {
			kept = append(kept, r)
		}
	}
	s.records = kept
	s.refilter()
	s.clampPage()
}

// RevertWithRefetch discards local speculative changes by reloading the
// collection. On fetch failure the current state is left untouched.
func (s *State[T]) RevertWithRefetch(ctx context.Context, fetch FetchFunc[T]) error {
	records, err := fetch(ctx)
	if err != nil {
		return fmt.Errorf("refetch %s: %w", s.schema.Kind, err)
	}
	s.Load(records)
	return nil
}

// Snapshot captures the query, page window and selection.
func (s *State[T]) Snapshot() Snapshot {
	return Snapshot{
		Query:    s.query.Clone(),
		Page:     s.page,
		PageSize: s.pageSize,
		Selected: s.Selected(),
	}
}

// Restore reapplies a snapshot against the loaded collection. Pages that no
// longer exist are dropped, and so are selected IDs the restored query hides.
func (s *State[T]) Restore(snap Snapshot) {
	if snap.PageSize >= 1 {
		s.pageSize = snap.PageSize
	}
	s.SetQuery(snap.Query)
	s.ClearSelection()
	for _, id := range snap.Selected {
		s.selected[id] = struct{}{}
	}
	s.retainSelection(s.filtered)
	s.SetPage(snap.Page)
}

func (s *State[T]) refilter() {
	s.filtered = query.Filter(s.records, s.schema, s.query)
}

func (s *State[T]) totalPages() int {
	return query.TotalPages(len(s.filtered), s.pageSize)
}

func (s *State[T]) clampPage() {
	if !query.CanGoTo(s.page, s.totalPages()) {
		s.page = 1
	}
}

func (s *State[T]) pageItems() []T {
	return query.Paginate(s.filtered, s.page, s.pageSize).Items
}

func (s *State[T]) retainSelection(records []T) {
	if len(s.selected) == 0 {
		return
	}
	keep := make(map[string]struct{}, len(s.selected))
	for _, r := range records {
		id := s.schema.ID(r)
		if _, ok := s.selected[id]; ok {
			keep[id] = struct{}{}
		}
	}
	s.selected = keep
}

func (s *State[T]) loaded(id string) bool {
	_, ok := s.Find(id)
	return ok
}
