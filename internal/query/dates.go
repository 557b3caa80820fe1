package query

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses stored date values. Values without an offset are read in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

// MonthLabel formats t as a month bucket label such as "25년07월".
func MonthLabel(t time.Time) string {
	return fmt.Sprintf("%02d년%02d월", t.Year()%100, int(t.Month()))
}

// AvailableMonths lists the distinct month labels present in records, newest first.
// Records whose date field is absent or unparseable are skipped.
func AvailableMonths[T any](records []T, s Schema[T]) []string {
	get, ok := s.Fields[s.DateField]
	if !ok {
		return nil
	}
	loc := s.location()
	seen := make(map[string]struct{})
	labels := make([]string, 0)
	for _, r := range records {
		raw, present := get(r)
		if !present {
			continue
		}
		t, err := ParseDate(raw, loc)
		if err != nil {
			continue
		}
		label := MonthLabel(t)
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(labels)))
	return labels
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// endOfDay is the last millisecond of t's calendar day.
func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Millisecond)
}
