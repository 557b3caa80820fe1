package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func numbers(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		count, size, want int
	}{
		{0, 6, 1},
		{1, 6, 1},
		{6, 6, 1},
		{7, 6, 2},
		{12, 6, 2},
		{13, 6, 3},
		{25, 0, 3},
		{-4, 6, 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TotalPages(tc.count, tc.size), "count=%d size=%d", tc.count, tc.size)
	}
}

func TestPaginateSlices(t *testing.T) {
	page := Paginate(numbers(13), 3, 6)
	assert.Equal(t, []int{13}, page.Items)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 13, page.TotalCount)

	page = Paginate(numbers(13), 1, 6)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, page.Items)
}

func TestPaginateOutOfRangeIsEmpty(t *testing.T) {
	for _, p := range []int{-1, 0, 4, 100} {
		page := Paginate(numbers(13), p, 6)
		assert.NotNil(t, page.Items)
		assert.Empty(t, page.Items, "page %d", p)
		assert.Equal(t, 3, page.TotalPages)
	}
}

func TestPaginateEmptyCollection(t *testing.T) {
	page := Paginate([]int{}, 1, 6)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 0, page.TotalCount)
}

func TestPaginateDefaultsPageSize(t *testing.T) {
	page := Paginate(numbers(25), 1, 0)
	assert.Len(t, page.Items, DefaultPageSize)
	assert.Equal(t, DefaultPageSize, page.PageSize)
}

func TestCanGoTo(t *testing.T) {
	assert.True(t, CanGoTo(1, 0))
	assert.True(t, CanGoTo(3, 3))
	assert.False(t, CanGoTo(0, 3))
	assert.False(t, CanGoTo(4, 3))
}
