package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const maxPageSize = 100

type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

func (p pagination) offset() int {
	return (p.Page - 1) * p.Limit
}

// parsePagination reads page and limit from the query string. Bad or out of
// range values fall back to the first page of 20.
func parsePagination(c *gin.Context) pagination {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return pagination{Page: page, Limit: limit}
}

func likePattern(s string) string {
	return "%" + s + "%"
}
