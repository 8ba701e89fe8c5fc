package httpx

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ClampInt - ограничение значения v в диапазоне [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseLimitOffset - читает limit/offset из query с дефолтами и границами.
func ParseLimitOffset(c *gin.Context, defaultLimit, maxLimit int) (limit, offset int) {
	limit = ClampInt(defaultLimit, 1, maxLimit)
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		limit = ClampInt(v, 1, maxLimit)
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

// ParseSort - читает sort=field[:asc|desc]; поле вне allowed заменяется на def.
func ParseSort(c *gin.Context, def string, allowed ...string) (field string, desc bool) {
	raw := strings.TrimSpace(c.Query("sort"))
	field, dir, _ := strings.Cut(raw, ":")
	field = strings.TrimSpace(field)
	desc = strings.EqualFold(strings.TrimSpace(dir), "desc")

	for _, a := range allowed {
		if field == a {
			return field, desc
		}
	}
	return def, desc
}

// Page - срез страницы [offset, offset+limit) без выхода за границы.
func Page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}
