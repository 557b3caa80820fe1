package console

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/noah-isme/practicum-admin-api/internal/listcodec"
	"github.com/noah-isme/practicum-admin-api/internal/models"
	"github.com/noah-isme/practicum-admin-api/internal/query"
	"github.com/noah-isme/practicum-admin-api/internal/viewstate"
	appErrors "github.com/noah-isme/practicum-admin-api/pkg/errors"
)

// Screen is one record kind in the console. Implementations are created by
// the New*Screen constructors.
type Screen interface {
	Name() string

	tabs() []string
	months() []string
	query() query.Query
	setQuery(q query.Query) error
	turn(delta int) bool
	move(delta int)
	toggle()
	toggleAll()
	selected() []string
	canRemove() bool
	updateLabel() string
	isLoaded() bool
	load(ctx context.Context) tea.Cmd
	removeSelected(ctx context.Context, actor *models.AdminClaims) tea.Cmd
	updateSelected(ctx context.Context, actor *models.AdminClaims) tea.Cmd
	snapshot() (viewstate.Snapshot, bool)
	restore(snap viewstate.Snapshot)
	handle(ctx context.Context, msg tea.Msg) (outcome, bool)
	render(st styles) string
	detail(st styles) (string, bool)
}

// outcome is what a screen reports back after handling a message.
type outcome struct {
	status string
	err    error
	next   tea.Cmd
}

type loadedMsg[T any] struct {
	screen  string
	records []T
	err     error
}

type removedMsg[T any] struct {
	screen string
	result models.BulkResult
	err    error
}

type updatedMsg[T any] struct {
	screen  string
	records []T
	result  models.BulkResult
	err     error
}

type refetchedMsg[T any] struct {
	screen  string
	records []T
	err     error
}

type column[T any] struct {
	title string
	width int
	value func(T) string
}

type removeFunc func(ctx context.Context, actor *models.AdminClaims, req models.BulkIDsRequest) (models.BulkResult, error)

// updateFunc applies a bulk write and returns the stored form of every
// record it changed.
type updateFunc[T any] func(ctx context.Context, actor *models.AdminClaims, ids []string) ([]T, models.BulkResult, error)

type listScreen[T any] struct {
	name    string
	schema  query.Schema[T]
	state   *viewstate.State[T]
	columns []column[T]
	fetch   viewstate.FetchFunc[T]
	remove  removeFunc
	update  updateFunc[T]
	// verb names the update action in the help and status lines.
	verb string

	// body renders a stored list-content field below the detail fields.
	body      func(T) []listcodec.DisplayLine
	bodyField string

	cursor int
	loaded bool
	// saved is restored once the first load lands.
	saved *viewstate.Snapshot
}

func newListScreen[T any](name string, schema query.Schema[T], pageSize int, fetch viewstate.FetchFunc[T], columns []column[T]) *listScreen[T] {
	return &listScreen[T]{
		name:    name,
		schema:  schema,
		state:   viewstate.New(schema, pageSize),
		columns: columns,
		fetch:   fetch,
	}
}

func (s *listScreen[T]) Name() string { return s.name }

func (s *listScreen[T]) tabs() []string { return s.schema.TabNames() }

func (s *listScreen[T]) months() []string {
	return query.AvailableMonths(s.state.Records(), s.schema)
}

func (s *listScreen[T]) query() query.Query { return s.state.Query() }

func (s *listScreen[T]) setQuery(q query.Query) error {
	if err := s.schema.Validate(q); err != nil {
		return err
	}
	s.state.SetQuery(q)
	s.cursor = 0
	return nil
}

func (s *listScreen[T]) turn(delta int) bool {
	view := s.state.PageView()
	if !s.state.SetPage(view.Page + delta) {
		return false
	}
	s.cursor = 0
	return true
}

func (s *listScreen[T]) move(delta int) {
	s.cursor = clampCursor(s.cursor+delta, len(s.state.PageView().Items))
}

func (s *listScreen[T]) toggle() {
	if r, ok := s.current(); ok {
		s.state.ToggleSelect(s.schema.ID(r))
	}
}

func (s *listScreen[T]) toggleAll() { s.state.ToggleSelectAllOnPage() }

func (s *listScreen[T]) selected() []string { return s.state.Selected() }

func (s *listScreen[T]) canRemove() bool { return s.remove != nil }

func (s *listScreen[T]) updateLabel() string {
	if s.update == nil {
		return ""
	}
	return s.verb
}

func (s *listScreen[T]) isLoaded() bool { return s.loaded }

func (s *listScreen[T]) load(ctx context.Context) tea.Cmd {
	name, fetch := s.name, s.fetch
	return func() tea.Msg {
		records, err := fetch(ctx)
		return loadedMsg[T]{screen: name, records: records, err: err}
	}
}

func (s *listScreen[T]) removeSelected(ctx context.Context, actor *models.AdminClaims) tea.Cmd {
	ids := s.state.Selected()
	if s.remove == nil || len(ids) == 0 {
		return nil
	}
	name, remove := s.name, s.remove
	return func() tea.Msg {
		result, err := remove(ctx, actor, models.BulkIDsRequest{IDs: ids})
		return removedMsg[T]{screen: name, result: result, err: err}
	}
}

func (s *listScreen[T]) updateSelected(ctx context.Context, actor *models.AdminClaims) tea.Cmd {
	ids := s.state.Selected()
	if s.update == nil || len(ids) == 0 {
		return nil
	}
	name, update := s.name, s.update
	return func() tea.Msg {
		records, result, err := update(ctx, actor, ids)
		return updatedMsg[T]{screen: name, records: records, result: result, err: err}
	}
}

// refetch reloads the collection off the event loop; the result is applied
// through RevertWithRefetch when it arrives.
func (s *listScreen[T]) refetch(ctx context.Context) tea.Cmd {
	name, fetch := s.name, s.fetch
	return func() tea.Msg {
		records, err := fetch(ctx)
		return refetchedMsg[T]{screen: name, records: records, err: err}
	}
}

func (s *listScreen[T]) snapshot() (viewstate.Snapshot, bool) {
	if !s.loaded {
		if s.saved != nil {
			return *s.saved, true
		}
		return viewstate.Snapshot{}, false
	}
	return s.state.Snapshot(), true
}

func (s *listScreen[T]) restore(snap viewstate.Snapshot) {
	if err := s.schema.Validate(snap.Query); err != nil {
		return
	}
	if !s.loaded {
		s.saved = &snap
		return
	}
	s.state.Restore(snap)
	s.cursor = 0
}

func (s *listScreen[T]) handle(ctx context.Context, msg tea.Msg) (outcome, bool) {
	switch msg := msg.(type) {
	case loadedMsg[T]:
		if msg.screen != s.name {
			return outcome{}, false
		}
		if msg.err != nil {
			return outcome{err: fmt.Errorf("load %s: %w", s.name, msg.err)}, true
		}
		s.state.Load(msg.records)
		s.loaded = true
		if s.saved != nil {
			s.state.Restore(*s.saved)
			s.saved = nil
			s.cursor = 0
		}
		s.move(0)
		return outcome{status: fmt.Sprintf("loaded %d %s", len(msg.records), s.name)}, true

	case removedMsg[T]:
		if msg.screen != s.name {
			return outcome{}, false
		}
		s.state.RemoveAccepted(msg.result.Succeeded...)
		s.move(0)
		if msg.err != nil {
			// Whatever the store did or did not apply, reconcile from it.
			status := fmt.Sprintf("deleted %d, %d failed: %s", len(msg.result.Succeeded), len(msg.result.Failed), appErrors.FromError(msg.err).Message)
			return outcome{status: status, err: fmt.Errorf("delete %s: %w", s.name, msg.err), next: s.refetch(ctx)}, true
		}
		return outcome{status: fmt.Sprintf("deleted %d %s", len(msg.result.Succeeded), s.name)}, true

	case updatedMsg[T]:
		if msg.screen != s.name {
			return outcome{}, false
		}
		for _, r := range msg.records {
			s.state.ApplyAccepted(r)
			if id := s.schema.ID(r); s.state.IsSelected(id) {
				s.state.ToggleSelect(id)
			}
		}
		s.move(0)
		if msg.err != nil {
			status := fmt.Sprintf("%s: %d done, %d failed: %s", s.verb, len(msg.result.Succeeded), len(msg.result.Failed), appErrors.FromError(msg.err).Message)
			return outcome{status: status, err: fmt.Errorf("%s %s: %w", s.verb, s.name, msg.err), next: s.refetch(ctx)}, true
		}
		return outcome{status: fmt.Sprintf("%s: %d %s", s.verb, len(msg.records), s.name)}, true

	case refetchedMsg[T]:
		if msg.screen != s.name {
			return outcome{}, false
		}
		err := s.state.RevertWithRefetch(ctx, func(context.Context) ([]T, error) {
			return msg.records, msg.err
		})
		if err != nil {
			return outcome{err: err}, true
		}
		s.loaded = true
		s.move(0)
		return outcome{status: fmt.Sprintf("reloaded %d %s from the store", len(s.state.Records()), s.name)}, true
	}
	return outcome{}, false
}

func (s *listScreen[T]) current() (T, bool) {
	items := s.state.PageView().Items
	if s.cursor < 0 || s.cursor >= len(items) {
		var zero T
		return zero, false
	}
	return items[s.cursor], true
}

func (s *listScreen[T]) render(st styles) string {
	var b strings.Builder
	view := s.state.PageView()
	q := s.state.Query()

	if tabs := s.schema.TabNames(); len(tabs) > 0 {
		b.WriteString(renderTabs(st, tabs, q.Tab))
		b.WriteString("\n")
	}
	if summary := describeQuery(q); summary != "" {
		b.WriteString(st.muted.Render(summary))
		b.WriteString("\n")
	}

	header := []string{"   "}
	for _, c := range s.columns {
		header = append(header, fit(c.title, c.width))
	}
	b.WriteString(st.header.Render(strings.Join(header, " ")))
	b.WriteString("\n")

	if len(view.Items) == 0 {
		b.WriteString(st.muted.Render("   no records"))
		b.WriteString("\n")
	}
	for i, r := range view.Items {
		mark := "[ ]"
		picked := s.state.IsSelected(s.schema.ID(r))
		if picked {
			mark = "[x]"
		}
		row := []string{mark}
		for _, c := range s.columns {
			row = append(row, fit(c.value(r), c.width))
		}
		line := strings.Join(row, " ")
		switch {
		case i == s.cursor:
			line = st.cursor.Render(line)
		case picked:
			line = st.selected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\npage %d/%d  %d records  %d selected", view.Page, view.TotalPages, view.TotalCount, view.Selected)
	return b.String()
}

func (s *listScreen[T]) detail(st styles) (string, bool) {
	r, ok := s.current()
	if !ok {
		return "", false
	}
	var b strings.Builder
	b.WriteString(st.title.Render(fmt.Sprintf("%s %s", s.name, s.schema.ID(r))))
	b.WriteString("\n\n")

	for _, name := range slices.Sorted(maps.Keys(s.schema.Fields)) {
		if name == s.bodyField {
			continue
		}
		v, present := s.schema.Fields[name](r)
		if !present || v == "" {
			v = "-"
		}
		b.WriteString(st.label.Render(name))
		b.WriteString(v)
		b.WriteString("\n")
	}
	if tabs := s.schema.OverlappingTabs(r); len(tabs) > 1 {
		b.WriteString(st.muted.Render("also listed under: " + strings.Join(tabs, ", ")))
		b.WriteString("\n")
	}

	if s.body != nil {
		if lines := s.body(r); len(lines) > 0 {
			b.WriteString("\n")
			for _, l := range lines {
				text := "• " + l.Text
				if l.Quoted {
					text = st.quoted.Render(text)
				}
				b.WriteString(text)
				b.WriteString("\n")
			}
		}
	}
	return b.String(), true
}

func renderTabs(st styles, tabs []string, active string) string {
	parts := make([]string, 0, len(tabs)+1)
	all := "0 all"
	if active == "" {
		parts = append(parts, st.tabActive.Render(all))
	} else {
		parts = append(parts, st.tab.Render(all))
	}
	for i, name := range tabs {
		label := fmt.Sprintf("%d %s", i+1, name)
		if name == active {
			parts = append(parts, st.tabActive.Render(label))
		} else {
			parts = append(parts, st.tab.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

func describeQuery(q query.Query) string {
	var parts []string
	if q.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", q.Search))
	}
	if len(q.Months) > 0 {
		parts = append(parts, "month "+strings.Join(q.Months, ","))
	}
	if q.From != "" || q.To != "" {
		parts = append(parts, fmt.Sprintf("range %s..%s", q.From, q.To))
	}
	for _, name := range slices.Sorted(maps.Keys(q.Fields)) {
		parts = append(parts, fmt.Sprintf("%s=%s", name, q.Fields[name]))
	}
	return strings.Join(parts, "  ")
}

// fit pads or truncates v to exactly width terminal cells, counting Hangul
// as double width.
func fit(v string, width int) string {
	v = strings.ReplaceAll(v, "\n", " ")
	return runewidth.FillRight(runewidth.Truncate(v, width, "…"), width)
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
