package repos

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// Pagination derives totals for a 1-indexed page. The four derived fields
// stay mutually consistent with TotalItems for any valid page/pageSize pair.
type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	TotalItems int  `json:"totalItems"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// ClampPage normalizes caller-supplied paging. pageSize <= 0 falls back to
// the default rather than erroring, so a junk query string still paginates.
func ClampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

func NewPagination(page, pageSize, totalItems int) Pagination {
	page, pageSize = ClampPage(page, pageSize)
	totalPages := (totalItems + pageSize - 1) / pageSize
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

func (p Pagination) Offset() int { return (p.Page - 1) * p.PageSize }
