// Package paginator slices an ordered result list into fixed-size pages.
package paginator

// DefaultPageSize is the number of results shown per page.
const DefaultPageSize = 10

// Page is one slice of the result list. Index is 1-based.
type Page[T any] struct {
	Items      []T
	Index      int
	TotalPages int
}

// TotalPages returns ceil(n/size), never less than 1.
func TotalPages(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Valid reports whether index is a page of a list with total pages.
func Valid(index, total int) bool {
	return index >= 1 && index <= total
}

// Paginate returns items[(index-1)*size : index*size], clamped to the list.
// Items aliases the input slice.
func Paginate[T any](items []T, index, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	p := Page[T]{Index: index, TotalPages: TotalPages(len(items), size)}
	if !Valid(index, p.TotalPages) {
		return p
	}
	start := (index - 1) * size
	if start >= len(items) {
		return p
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	p.Items = items[start:end:end]
	return p
}
