package viewstate

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/practicum-admin-api/internal/query"
)

type item struct {
	ID    string
	Name  string
	Group string
}

func itemSchema() query.Schema[item] {
	return query.Schema[item]{
		Kind: "items",
		ID:   func(i item) string { return i.ID },
		Fields: map[string]query.Accessor[item]{
			"name":  func(i item) (string, bool) { return i.Name, true },
			"group": func(i item) (string, bool) { return i.Group, true },
		},
		Searchable: []string{"name"},
		Filterable: []string{"group"},
	}
}

// twelve returns r01..r12; r01, r02, r08 and r09 belong to group "keep".
func twelve() []item {
	out := make([]item, 0, 12)
	for i := 1; i <= 12; i++ {
		group := "drop"
		switch i {
		case 1, 2, 8, 9:
			group = "keep"
		}
		out = append(out, item{ID: fmt.Sprintf("r%02d", i), Name: fmt.Sprintf("name %d", i), Group: group})
	}
	return out
}

func itemIDs(items []item) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.ID)
	}
	return out
}

func loaded(t *testing.T) *State[item] {
	t.Helper()
	s := New(itemSchema(), 6)
	s.Load(twelve())
	return s
}

func TestSelectAllThenShrinkingQueryPurgesSelection(t *testing.T) {
	s := loaded(t)
	s.ToggleSelectAllOnPage()
	require.Equal(t, []string{"r01", "r02", "r03", "r04", "r05", "r06"}, s.Selected())

	s.SetQuery(query.Query{Fields: map[string]string{"group": "keep"}})

	view := s.PageView()
	assert.Equal(t, 4, view.TotalCount)
	assert.Equal(t, 1, view.TotalPages)
	if diff := cmp.Diff([]string{"r01", "r02"}, s.Selected()); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectAllIsScopedToCurrentPage(t *testing.T) {
	s := loaded(t)
	s.ToggleSelect("r02")
	require.True(t, s.SetPage(2))

	s.ToggleSelectAllOnPage()
	assert.Equal(t, []string{"r02", "r07", "r08", "r09", "r10", "r11", "r12"}, s.Selected())

	s.ToggleSelectAllOnPage()
	assert.Equal(t, []string{"r02"}, s.Selected())
}

func TestSelectAllUnionsPartialPage(t *testing.T) {
	s := loaded(t)
	s.ToggleSelect("r03")
	s.ToggleSelectAllOnPage()
	assert.Len(t, s.Selected(), 6)
}

func TestSetQueryResetsPage(t *testing.T) {
	s := loaded(t)
	require.True(t, s.SetPage(2))
	s.SetQuery(query.Query{Search: "name"})
	assert.Equal(t, 1, s.PageView().Page)
}

func TestSetPageRejectsOutOfRange(t *testing.T) {
	s := loaded(t)
	assert.False(t, s.SetPage(0))
	assert.False(t, s.SetPage(3))
	assert.Equal(t, 1, s.PageView().Page)
	assert.True(t, s.NextPage())
	assert.False(t, s.NextPage())
	assert.True(t, s.PrevPage())
}

func TestEmptyCollectionHasOnePage(t *testing.T) {
	s := New(itemSchema(), 0)
	view := s.PageView()
	assert.Equal(t, 1, view.TotalPages)
	assert.Equal(t, query.DefaultPageSize, view.PageSize)
	assert.Empty(t, view.Items)
	assert.NotNil(t, view.Items)
	s.ToggleSelectAllOnPage()
	assert.Empty(t, s.Selected())
}

func TestToggleSelectIgnoresUnknownIDs(t *testing.T) {
	s := loaded(t)
	s.ToggleSelect("missing")
	assert.Empty(t, s.Selected())
	s.ToggleSelect("r05")
	s.ToggleSelect("r05")
	assert.Empty(t, s.Selected())
}

func TestRemoveAcceptedPurgesAndClampsPage(t *testing.T) {
	s := loaded(t)
	require.True(t, s.SetPage(2))
	s.ToggleSelectAllOnPage()
	s.ToggleSelect("r01")

	s.RemoveAccepted("r07", "r08", "r09", "r10", "r11", "r12")

	view := s.PageView()
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, 1, view.TotalPages)
	assert.Equal(t, []string{"r01"}, s.Selected())
	assert.Equal(t, []string{"r01", "r02", "r03", "r04", "r05", "r06"}, itemIDs(view.Items))
}

func TestApplyAcceptedReplacesOrPrepends(t *testing.T) {
	s := loaded(t)
	s.ApplyAccepted(item{ID: "r03", Name: "renamed", Group: "keep"})
	rec, ok := s.Find("r03")
	require.True(t, ok)
	assert.Equal(t, "renamed", rec.Name)
	assert.Len(t, s.Records(), 12)

	s.ApplyAccepted(item{ID: "r13", Name: "new", Group: "keep"})
	assert.Equal(t, "r13", s.PageView().Items[0].ID)
	assert.Len(t, s.Records(), 13)
}

func TestApplyAcceptedRespectsActiveQuery(t *testing.T) {
	s := loaded(t)
	s.SetQuery(query.Query{Fields: map[string]string{"group": "keep"}})
	s.ApplyAccepted(item{ID: "r01", Name: "name 1", Group: "drop"})
	assert.Equal(t, []string{"r02", "r08", "r09"}, itemIDs(s.PageView().Items))
}

func TestRevertWithRefetchReloads(t *testing.T) {
	s := loaded(t)
	s.ToggleSelect("r01")
	s.ToggleSelect("r12")
	s.RemoveAccepted("r12")

	err := s.RevertWithRefetch(context.Background(), func(context.Context) ([]item, error) {
		return twelve()[:3], nil
	})
	require.NoError(t, err)
	assert.Len(t, s.Records(), 3)
	assert.Equal(t, []string{"r01"}, s.Selected())
}

func TestRevertWithRefetchKeepsStateOnFailure(t *testing.T) {
	s := loaded(t)
	s.ToggleSelect("r04")
	err := s.RevertWithRefetch(context.Background(), func(context.Context) ([]item, error) {
		return nil, errors.New("store unavailable")
	})
	require.Error(t, err)
	assert.Len(t, s.Records(), 12)
	assert.Equal(t, []string{"r04"}, s.Selected())
}

func TestLoadClampsPageWhenCollectionShrinks(t *testing.T) {
	s := loaded(t)
	require.True(t, s.SetPage(2))
	s.Load(twelve()[:5])
	assert.Equal(t, 1, s.PageView().Page)
}

func TestSnapshotRestore(t *testing.T) {
	s := loaded(t)
	s.SetQuery(query.Query{Search: "name"})
	require.True(t, s.SetPage(2))
	s.ToggleSelect("r09")

	snap := s.Snapshot()
	assert.Equal(t, Snapshot{Query: query.Query{Search: "name"}, Page: 2, PageSize: 6, Selected: []string{"r09"}}, snap)

	other := New(itemSchema(), 10)
	other.Load(twelve())
	other.Restore(snap)
	assert.Equal(t, snap, other.Snapshot())

	shrunk := New(itemSchema(), 10)
	shrunk.Load(twelve()[:4])
	shrunk.Restore(snap)
	restored := shrunk.Snapshot()
	assert.Equal(t, 1, restored.Page)
	assert.Empty(t, restored.Selected)
}

func TestRestoreDropsSelectionHiddenByQuery(t *testing.T) {
	snap := Snapshot{
		Query:    query.Query{Fields: map[string]string{"group": "keep"}},
		Page:     1,
		PageSize: 6,
		Selected: []string{"r03", "r01", "r99"},
	}

	restored := New(itemSchema(), 6)
	restored.Load(twelve())
	restored.Restore(snap)

	applied := loaded(t)
	applied.ToggleSelect("r03")
	applied.ToggleSelect("r01")
	applied.SetQuery(snap.Query)

	assert.Equal(t, []string{"r01"}, restored.Selected())
	assert.Equal(t, applied.Selected(), restored.Selected())
}
