package shared

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page 分页参数，Normalize 之后 Limit 总在 [1, MaxPageSize] 内
type Page struct {
	Offset int
	Limit  int
}

func NewPage(page, pageSize int) Page {
	p := Page{Limit: pageSize}
	if page > 1 {
		p.Offset = (page - 1) * p.normalizedLimit()
	}
	return p.Normalize()
}

func (p Page) Normalize() Page {
	p.Limit = p.normalizedLimit()
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

func (p Page) normalizedLimit() int {
	switch {
	case p.Limit <= 0:
		return DefaultPageSize
	case p.Limit > MaxPageSize:
		return MaxPageSize
	default:
		return p.Limit
	}
}
