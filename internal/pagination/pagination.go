package pagination

import "github.com/gofiber/fiber/v2"

const (
	DefaultLimit = 10
	maxLimit     = 100
)

type Params struct {
	Page  int
	Limit int
}

// Parse reads ?page and ?limit with the client's defaults (page 1, limit 10).
func Parse(c *fiber.Ctx) Params {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", DefaultLimit)
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Params{Page: page, Limit: limit}
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

func TotalPages(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}
