package models

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a 1-indexed page request.
type Page struct {
	Number int
	Size   int
}

func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

type PageResult[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

func NewPageResult[T any](items []T, page Page, total int) PageResult[T] {
	if items == nil {
		items = make([]T, 0)
	}

	totalPages := 0
	if page.Size > 0 {
		totalPages = (total + page.Size - 1) / page.Size
	}

	return PageResult[T]{
		Items:      items,
		Page:       page.Number,
		PageSize:   page.Size,
		TotalCount: total,
		TotalPages: totalPages,
	}
}

// Paginate slices an in-memory result set.
func Paginate[T any](items []T, page Page) PageResult[T] {
	page = page.Normalize()
	total := len(items)

	start := min(page.Offset(), total)
	end := min(start+page.Size, total)

	return NewPageResult(items[start:end], page, total)
}
