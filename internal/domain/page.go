package domain

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

// Page is a 1-based page request
type Page struct {
	Number int
	Limit  int
}

// Normalize clamps the page to sane bounds
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// Offset returns the row offset of the page
func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Number - 1) * n.Limit
}

// TotalPages returns how many pages of p.Limit hold total rows
func (p Page) TotalPages(total int64) int {
	n := p.Normalize()
	if total == 0 {
		return 0
	}
	return int((total + int64(n.Limit) - 1) / int64(n.Limit))
}
