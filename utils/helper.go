package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// QueryInt reads an integer query parameter, returning def when it is
// missing or malformed and clamping the result to [1, max].
func QueryInt(c *gin.Context, key string, def, max int) int {
	val, err := strconv.Atoi(c.Query(key))
	if err != nil || val < 1 {
		return def
	}
	if val > max {
		return max
	}
	return val
}

// OptionalString returns nil for an empty string.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
