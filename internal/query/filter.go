package query

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Filter returns the records matching every active predicate of q, in input order.
func Filter[T any](records []T, s Schema[T], q Query) []T {
	m := compile(s, q)
	out := make([]T, 0, len(records))
	for _, r := range records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether a single record satisfies q.
func Matches[T any](record T, s Schema[T], q Query) bool {
	return compile(s, q).match(record)
}

type fieldFilter struct {
	name  string
	value string
}

type matcher[T any] struct {
	schema   Schema[T]
	term     string
	fields   []fieldFilter
	hasTab   bool
	tab      Tab[T]
	from     time.Time
	to       time.Time
	months   map[string]struct{}
	dateRead Accessor[T]
}

func compile[T any](s Schema[T], q Query) matcher[T] {
	m := matcher[T]{schema: s, term: normalize(q.Search)}

	for name, value := range q.Fields {
		if v := normalize(value); v != "" {
			m.fields = append(m.fields, fieldFilter{name: name, value: v})
		}
	}

	if q.Tab != "" && len(s.Tabs) > 0 {
		m.hasTab = true
		if t, ok := s.tab(q.Tab); ok {
			m.tab = t
		} else {
			m.tab = Tab[T]{Name: q.Tab, Match: func(T) bool { return false }}
		}
	}

	loc := s.location()
	if q.From != "" {
		if t, err := ParseDate(q.From, loc); err == nil {
			m.from = startOfDay(t)
		}
	}
	if q.To != "" {
		if t, err := ParseDate(q.To, loc); err == nil {
			m.to = endOfDay(t)
		}
	}
	if len(q.Months) > 0 {
		m.months = make(map[string]struct{}, len(q.Months))
		for _, label := range q.Months {
			m.months[strings.TrimSpace(label)] = struct{}{}
		}
	}
	m.dateRead = s.Fields[s.DateField]
	return m
}

func (m matcher[T]) match(r T) bool {
	if m.hasTab && !m.tab.Match(r) {
		return false
	}
	if !m.matchSearch(r) {
		return false
	}
	for _, f := range m.fields {
		get, ok := m.schema.Fields[f.name]
		if !ok {
			return false
		}
		v, present := get(r)
		if !present || !strings.Contains(normalize(v), f.value) {
			return false
		}
	}
	if m.from.IsZero() && m.to.IsZero() && len(m.months) == 0 {
		return true
	}
	date, ok := m.recordDate(r)
	if !ok {
		return false
	}
	if !m.from.IsZero() && date.Before(m.from) {
		return false
	}
	if !m.to.IsZero() && date.After(m.to) {
		return false
	}
	if len(m.months) > 0 {
		if _, ok := m.months[MonthLabel(date)]; !ok {
			return false
		}
	}
	return true
}

func (m matcher[T]) matchSearch(r T) bool {
	if m.term == "" {
		return true
	}
	for _, name := range m.schema.Searchable {
		get, ok := m.schema.Fields[name]
		if !ok {
			continue
		}
		v, present := get(r)
		if !present {
			continue
		}
		if strings.Contains(normalize(v), m.term) {
			return true
		}
	}
	return false
}

func (m matcher[T]) recordDate(r T) (time.Time, bool) {
	if m.dateRead == nil {
		return time.Time{}, false
	}
	raw, present := m.dateRead(r)
	if !present {
		return time.Time{}, false
	}
	t, err := ParseDate(raw, m.schema.location())
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// normalize folds a value for substring comparison: trimmed, NFC, lower case.
func normalize(v string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(v)))
}
