package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const MaxPageSize = 100

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// Offset is the row offset of the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePagination reads page and limit query params.
func ParsePagination(c *gin.Context, defaultLimit int) (int, int, error) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return 0, 0, ErrInvalidPage
		}
		page = v
	}

	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > MaxPageSize {
			return 0, 0, ErrInvalidPageSize
		}
		limit = v
	}

	return page, limit, nil
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Percentage returns part/whole*100 rounded to 2 decimals, 0 when whole is 0.
func Percentage(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return Round2(float64(part) / float64(whole) * 100)
}
