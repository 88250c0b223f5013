package domain

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// SortField names a comment attribute usable for ordering.
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
	SortByLikeCount SortField = "likeCount"
	SortByRating    SortField = "rating"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Pagination carries page, page size and ordering for list queries.
// Zero values mean "use the default".
type Pagination struct {
	Page          int
	PageSize      int
	SortBy        SortField
	SortDirection SortDirection
}

// DefaultPagination is the first page of ten, newest first.
func DefaultPagination() Pagination {
	return Pagination{
		Page:          DefaultPage,
		PageSize:      DefaultPageSize,
		SortBy:        SortByCreatedAt,
		SortDirection: SortDesc,
	}
}

// Normalize fills unset fields with defaults and rejects invalid ones.
func (p Pagination) Normalize() (Pagination, error) {
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
	if p.SortBy == "" {
		p.SortBy = SortByCreatedAt
	}
	if p.SortDirection == "" {
		p.SortDirection = SortDesc
	}

	if p.Page < 1 {
		return Pagination{}, NewValidationError("page", "must be at least 1")
	}
	if p.PageSize < 1 || p.PageSize > MaxPageSize {
		return Pagination{}, NewValidationError("pageSize", "must be between 1 and 100")
	}
	switch p.SortBy {
	case SortByCreatedAt, SortByUpdatedAt, SortByLikeCount, SortByRating:
	default:
		return Pagination{}, NewValidationError("sortBy", "unsupported sort field "+string(p.SortBy))
	}
	switch p.SortDirection {
	case SortAsc, SortDesc:
	default:
		return Pagination{}, NewValidationError("sortOrder", "must be asc or desc")
	}
	return p, nil
}

// Offset is the number of items preceding the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PagedResult is one page of a list query. Everything except Items and
// Total is derived from the pagination.
type PagedResult[T any] struct {
	Items       []T   `json:"items"`
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	PageSize    int   `json:"pageSize"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

func NewPagedResult[T any](items []T, total int64, p Pagination) PagedResult[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if p.PageSize > 0 {
		totalPages = int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
	}
	return PagedResult[T]{
		Items:       items,
		Total:       total,
		Page:        p.Page,
		PageSize:    p.PageSize,
		TotalPages:  totalPages,
		HasNext:     p.Page < totalPages,
		HasPrevious: p.Page > 1,
	}
}
