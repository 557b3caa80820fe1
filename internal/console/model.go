// Package console is the terminal admin console. Each screen owns the list
// state of one record kind and talks to the service layer through tea.Cmds.
package console

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/noah-isme/practicum-admin-api/internal/models"
	"github.com/noah-isme/practicum-admin-api/internal/query"
	"github.com/noah-isme/practicum-admin-api/internal/viewstate"
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeConfirm
	modeDetail
)

// action is the bulk write waiting for confirmation.
type action int

const (
	actionDelete action = iota
	actionUpdate
)

const helpLine = "/ search  0-3 tab  m month  c clear  ←/→ page  ↑/↓ move  space select  a page  D delete  P mark paid  r reload  enter detail  tab screen  q quit"

// Options configures a console session.
type Options struct {
	// Actor is recorded in the activity log for every mutation.
	Actor *models.AdminClaims
	// Screen names the screen shown first. Empty means the first one.
	Screen string
	Logger *zap.Logger
	// Saved holds view state from an earlier session, keyed by screen name.
	Saved map[string]viewstate.Snapshot
}

// Model is the bubbletea model driving the console.
type Model struct {
	ctx     context.Context
	actor   *models.AdminClaims
	logger  *zap.Logger
	screens []Screen
	active  int
	mode    mode
	pending action
	input   textinput.Model
	styles  styles
	status  string
	failed  bool
}

// New builds a console over the given screens.
func New(ctx context.Context, screens []Screen, opts Options) (Model, error) {
	if len(screens) == 0 {
		return Model{}, errors.New("console needs at least one screen")
	}
	active := 0
	if opts.Screen != "" {
		active = slices.IndexFunc(screens, func(s Screen) bool { return s.Name() == opts.Screen })
		if active < 0 {
			return Model{}, fmt.Errorf("unknown screen %q", opts.Screen)
		}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	for _, s := range screens {
		if snap, ok := opts.Saved[s.Name()]; ok {
			s.restore(snap)
		}
	}

	ti := textinput.New()
	ti.Placeholder = "name, phone, region..."
	ti.CharLimit = 100
	ti.Width = 40

	return Model{
		ctx:     ctx,
		actor:   opts.Actor,
		logger:  opts.Logger,
		screens: screens,
		active:  active,
		input:   ti,
		styles:  defaultStyles(),
		status:  "loading " + screens[active].Name(),
	}, nil
}

// Run starts the program and blocks until the user quits. The returned
// model is the state the session ended in.
func Run(m Model) (Model, error) {
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if fm, ok := final.(Model); ok {
		m = fm
	}
	return m, err
}

// Snapshots returns the view state of every screen that has one.
func (m Model) Snapshots() map[string]viewstate.Snapshot {
	out := make(map[string]viewstate.Snapshot, len(m.screens))
	for _, s := range m.screens {
		if snap, ok := s.snapshot(); ok {
			out[s.Name()] = snap
		}
	}
	return out
}

func (m Model) Init() tea.Cmd {
	return m.current().load(m.ctx)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch m.mode {
		case modeSearch:
			return m.updateSearch(key)
		case modeConfirm:
			return m.updateConfirm(key)
		case modeDetail:
			return m.updateDetail(key)
		default:
			return m.updateList(key)
		}
	}

	for _, s := range m.screens {
		if out, ok := s.handle(m.ctx, msg); ok {
			m = m.report(out)
			return m, out.next
		}
	}

	if m.mode == modeSearch {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cur := m.current()
	switch k := msg.String(); k {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		return m.switchScreen(1)
	case "shift+tab":
		return m.switchScreen(-1)
	case "/":
		m.mode = modeSearch
		m.input.SetValue(cur.query().Search)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case "0", "1", "2", "3":
		tab := ""
		if k != "0" {
			tabs := cur.tabs()
			i := int(k[0] - '1')
			if i >= len(tabs) {
				return m.setStatus(fmt.Sprintf("%s has no tab %s", cur.Name(), k)), nil
			}
			tab = tabs[i]
		}
		q := cur.query()
		q.Tab = tab
		return m.applyQuery(cur, q), nil
	case "m":
		q := cur.query()
		q.Months = nextMonth(cur.months(), q.Months)
		return m.applyQuery(cur, q), nil
	case "c":
		q := cur.query()
		q.Search, q.Months, q.From, q.To, q.Fields = "", nil, "", "", nil
		return m.applyQuery(cur, q), nil
	case "left", "h":
		if !cur.turn(-1) {
			return m.setStatus("already on the first page"), nil
		}
	case "right", "l":
		if !cur.turn(1) {
			return m.setStatus("already on the last page"), nil
		}
	case "up", "k":
		cur.move(-1)
	case "down", "j":
		cur.move(1)
	case " ", "space":
		cur.toggle()
	case "a":
		cur.toggleAll()
	case "D":
		if !cur.canRemove() {
			return m.setStatus(cur.Name() + " are read-only"), nil
		}
		n := len(cur.selected())
		if n == 0 {
			return m.setStatus("nothing selected"), nil
		}
		m.mode = modeConfirm
		m.pending = actionDelete
		return m.setStatus(fmt.Sprintf("delete %d %s? y/n", n, cur.Name())), nil
	case "P":
		verb := cur.updateLabel()
		if verb == "" {
			return m.setStatus(cur.Name() + " have no bulk update"), nil
		}
		n := len(cur.selected())
		if n == 0 {
			return m.setStatus("nothing selected"), nil
		}
		m.mode = modeConfirm
		m.pending = actionUpdate
		return m.setStatus(fmt.Sprintf("%s: %d %s? y/n", verb, n, cur.Name())), nil
	case "r":
		m = m.setStatus("reloading " + cur.Name())
		return m, cur.load(m.ctx)
	case "enter":
		if _, ok := cur.detail(m.styles); ok {
			m.mode = modeDetail
		}
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeList
		m.input.Blur()
		cur := m.current()
		q := cur.query()
		q.Search = strings.TrimSpace(m.input.Value())
		return m.applyQuery(cur, q), nil
	case "esc":
		m.mode = modeList
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = modeList
		cur := m.current()
		if m.pending == actionUpdate {
			m = m.setStatus(fmt.Sprintf("%s: %d %s", cur.updateLabel(), len(cur.selected()), cur.Name()))
			return m, cur.updateSelected(m.ctx, m.actor)
		}
		m = m.setStatus(fmt.Sprintf("deleting %d %s", len(cur.selected()), cur.Name()))
		return m, cur.removeSelected(m.ctx, m.actor)
	case "n", "N", "esc":
		m.mode = modeList
		return m.setStatus("cancelled"), nil
	}
	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "backspace":
		m.mode = modeList
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) switchScreen(delta int) (tea.Model, tea.Cmd) {
	n := len(m.screens)
	m.active = ((m.active+delta)%n + n) % n
	cur := m.current()
	if cur.isLoaded() {
		return m.setStatus(cur.Name()), nil
	}
	m = m.setStatus("loading " + cur.Name())
	return m, cur.load(m.ctx)
}

func (m Model) applyQuery(s Screen, q query.Query) Model {
	if err := s.setQuery(q); err != nil {
		m.status = err.Error()
		m.failed = true
		return m
	}
	if q.IsZero() {
		return m.setStatus("showing all " + s.Name())
	}
	return m.setStatus("filter: " + strings.TrimSpace(describeQuery(q)+tabSuffix(q.Tab)))
}

func tabSuffix(tab string) string {
	if tab == "" {
		return ""
	}
	return "  tab " + tab
}

func (m Model) current() Screen { return m.screens[m.active] }

func (m Model) setStatus(status string) Model {
	m.status = status
	m.failed = false
	return m
}

func (m Model) report(out outcome) Model {
	m.status = out.status
	m.failed = out.err != nil
	if out.err != nil {
		m.logger.Error("console operation failed", zap.Error(out.err))
		if m.status == "" {
			m.status = out.err.Error()
		}
	}
	return m
}

func (m Model) View() string {
	var b strings.Builder
	cur := m.current()

	for i, s := range m.screens {
		if i == m.active {
			b.WriteString(m.styles.navActive.Render(s.Name()))
		} else {
			b.WriteString(m.styles.nav.Render(s.Name()))
		}
	}
	b.WriteString("\n\n")

	if m.mode == modeDetail {
		if d, ok := cur.detail(m.styles); ok {
			b.WriteString(d)
		}
		b.WriteString("\n")
		b.WriteString(m.styles.muted.Render("esc back"))
		return b.String()
	}

	b.WriteString(cur.render(m.styles))
	b.WriteString("\n")
	if m.mode == modeSearch {
		b.WriteString("\n/ ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.mode == modeConfirm:
		b.WriteString(m.styles.confirm.Render(m.status))
	case m.failed:
		b.WriteString(m.styles.failure.Render(m.status))
	default:
		b.WriteString(m.styles.status.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.muted.Render(helpLine))
	return b.String()
}

// nextMonth cycles the month filter through the available buckets and back
// to no month constraint.
func nextMonth(available, active []string) []string {
	if len(available) == 0 {
		return nil
	}
	if len(active) == 0 {
		return []string{available[0]}
	}
	i := slices.Index(available, active[0])
	if i < 0 || i+1 >= len(available) {
		return nil
	}
	return []string{available[i+1]}
}
