package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const MaxLimit = 100

type Params struct {
	Page  int
	Limit int
}

func (p Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// FromQuery reads ?page= and ?limit=. Invalid values fall back to page 1 and
// defaultLimit; limit is capped at MaxLimit.
func FromQuery(c *gin.Context, defaultLimit int) Params {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}
