package query

// DefaultPageSize applies when a caller passes a non-positive page size.
const DefaultPageSize = 10

// Page is one window over a filtered collection.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
	TotalCount int `json:"total_count"`
}

// TotalPages is max(1, ceil(count/size)).
func TotalPages(count, size int) int {
	if size < 1 {
		size = DefaultPageSize
	}
	if count <= 0 {
		return 1
	}
	return (count + size - 1) / size
}

// CanGoTo reports whether target is a valid 1-based page for totalPages.
func CanGoTo(target, totalPages int) bool {
	if totalPages < 1 {
		totalPages = 1
	}
	return target >= 1 && target <= totalPages
}

// Paginate slices filtered to the requested page. Out-of-range pages yield an empty slice.
func Paginate[T any](filtered []T, page, size int) Page[T] {
	if size < 1 {
		size = DefaultPageSize
	}
	total := TotalPages(len(filtered), size)
	out := Page[T]{
		Items:      []T{},
		Page:       page,
		PageSize:   size,
		TotalPages: total,
		TotalCount: len(filtered),
	}
	if page < 1 || page > total {
		return out
	}
	start := (page - 1) * size
	if start >= len(filtered) {
		return out
	}
	end := start + size
	if end > len(filtered) {
		end = len(filtered)
	}
	out.Items = append(out.Items, filtered[start:end]...)
	return out
}
