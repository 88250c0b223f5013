package request

import (
	"strconv"

	"github.com/Guyuepp/shop-comments/domain"
)

// Pagination is bound from the page, pageSize, sortBy and sortOrder query parameters.
// Absent parameters take the defaults; explicit zeros are rejected.
type Pagination struct {
	Page      string `form:"page"`
	PageSize  string `form:"pageSize"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}

func (r *Pagination) ToDomain() (domain.Pagination, error) {
	p := domain.Pagination{
		SortBy:        domain.SortField(r.SortBy),
		SortDirection: domain.SortDirection(r.SortOrder),
	}
	if r.Page != "" {
		page, err := strconv.Atoi(r.Page)
		if err != nil || page < 1 {
			return domain.Pagination{}, domain.NewValidationError("page", "must be a positive number")
		}
		p.Page = page
	}
	if r.PageSize != "" {
		size, err := strconv.Atoi(r.PageSize)
		if err != nil || size < 1 {
			return domain.Pagination{}, domain.NewValidationError("pageSize", "must be a positive number")
		}
		p.PageSize = size
	}
	return p.Normalize()
}
