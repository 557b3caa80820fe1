// Package query filters, partitions and paginates in-memory record collections.
//
// Every admin list screen works on the full collection of one record kind. A
// Schema describes how to read a kind's fields; a Query describes which
// records to keep. Filtering never reorders its input.
package query

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Accessor reads a single field from a record. ok is false when the stored value is null.
type Accessor[T any] func(record T) (value string, ok bool)

// Tab is a named status partition of a record kind.
type Tab[T any] struct {
	Name  string
	Match func(record T) bool
}

// Schema is the per-kind field registry consumed by the engine.
type Schema[T any] struct {
	Kind       string
	ID         func(record T) string
	Fields     map[string]Accessor[T]
	Searchable []string
	Filterable []string
	DateField  string
	Tabs       []Tab[T]
	Location   *time.Location
}

// Query is the combined free-text, field, date-range, month and tab filter.
// Zero values mean "no constraint".
type Query struct {
	Search string            `json:"search,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
	From   string            `json:"from,omitempty"`
	To     string            `json:"to,omitempty"`
	Months []string          `json:"months,omitempty"`
	Tab    string            `json:"tab,omitempty"`
}

// Clone returns a deep copy so callers can derive queries without sharing maps.
func (q Query) Clone() Query {
	out := q
	if q.Fields != nil {
		out.Fields = make(map[string]string, len(q.Fields))
		for k, v := range q.Fields {
			out.Fields[k] = v
		}
	}
	if q.Months != nil {
		out.Months = append([]string(nil), q.Months...)
	}
	return out
}

// WithField returns a copy of q with the given field constraint set. An empty value removes it.
func (q Query) WithField(name, value string) Query {
	out := q.Clone()
	if out.Fields == nil {
		out.Fields = make(map[string]string)
	}
	if strings.TrimSpace(value) == "" {
		delete(out.Fields, name)
	} else {
		out.Fields[name] = value
	}
	return out
}

// IsZero reports whether the query applies no constraint at all.
func (q Query) IsZero() bool {
	if strings.TrimSpace(q.Search) != "" || q.From != "" || q.To != "" || len(q.Months) > 0 || q.Tab != "" {
		return false
	}
	for _, v := range q.Fields {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

var monthLabelPattern = regexp.MustCompile(`^\d{2}년\d{2}월$`)

// Validate rejects queries the engine would silently treat as empty or unmatched.
func (s Schema[T]) Validate(q Query) error {
	for name, value := range q.Fields {
		if strings.TrimSpace(value) == "" {
			continue
		}
		if !contains(s.Filterable, name) {
			return fmt.Errorf("unknown filter field %q for %s", name, s.Kind)
		}
	}
	if q.Tab != "" {
		if len(s.Tabs) == 0 {
			return fmt.Errorf("%s has no tabs", s.Kind)
		}
		if _, ok := s.tab(q.Tab); !ok {
			return fmt.Errorf("unknown tab %q for %s", q.Tab, s.Kind)
		}
	}
	var from, to time.Time
	if q.From != "" {
		t, err := ParseDate(q.From, s.location())
		if err != nil {
			return fmt.Errorf("invalid from date %q", q.From)
		}
		from = t
	}
	if q.To != "" {
		t, err := ParseDate(q.To, s.location())
		if err != nil {
			return fmt.Errorf("invalid to date %q", q.To)
		}
		to = t
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return fmt.Errorf("from date %s is after to date %s", q.From, q.To)
	}
	for _, label := range q.Months {
		if !monthLabelPattern.MatchString(label) {
			return fmt.Errorf("invalid month label %q", label)
		}
	}
	return nil
}

// TabNames lists the kind's tabs in declaration order.
func (s Schema[T]) TabNames() []string {
	names := make([]string, 0, len(s.Tabs))
	for _, t := range s.Tabs {
		names = append(names, t.Name)
	}
	return names
}

// OverlappingTabs returns every tab whose predicate accepts the record. For the
// application tabs a completed and refunded record is reported under both.
func (s Schema[T]) OverlappingTabs(record T) []string {
	var out []string
	for _, t := range s.Tabs {
		if t.Match(record) {
			out = append(out, t.Name)
		}
	}
	return out
}

// WithLocation returns a copy of the schema evaluating dates in loc.
func (s Schema[T]) WithLocation(loc *time.Location) Schema[T] {
	s.Location = loc
	return s
}

func (s Schema[T]) tab(name string) (Tab[T], bool) {
	for _, t := range s.Tabs {
		if t.Name == name {
			return t, true
		}
	}
	return Tab[T]{}, false
}

func (s Schema[T]) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
