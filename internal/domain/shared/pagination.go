package shared

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Pagination is embedded in list filters.
type Pagination struct {
	Page  int `json:"page" validate:"omitempty,min=1"`
	Limit int `json:"limit" validate:"omitempty,min=1,max=100"`
}

// Normalize fills in defaults and clamps the limit.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p Pagination) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// TotalPages returns the page count for total items at the normalized limit.
func (p Pagination) TotalPages(total int64) int {
	n := p.Normalize()
	return int((total + int64(n.Limit) - 1) / int64(n.Limit))
}
