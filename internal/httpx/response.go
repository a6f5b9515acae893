package httpx

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// HTTPError is the standard error payload.
// swagger:model
type HTTPError struct {
	// Human-readable error message
	// example: Cook profile not found
	Detail string `json:"detail"`
}

// Detail writes an error response with the given status.
func Detail(c *gin.Context, status int, msg string) {
	c.JSON(status, HTTPError{Detail: msg})
}

// AbortDetail writes an error response and stops the handler chain.
func AbortDetail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, HTTPError{Detail: msg})
}

// Page carries the skip/limit window common to every list endpoint.
type Page struct {
	Skip  int
	Limit int
}

// PageFromQuery reads skip/limit (defaults 0/100) and clamps them to sane bounds.
func PageFromQuery(c *gin.Context) Page {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 100
	}
	return Page{Skip: skip, Limit: limit}
}
