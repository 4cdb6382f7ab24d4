package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/coffeebridge/go-market-backend/internal/utils"
)

// parsePageRequest reads page/limit/sortBy/sortOrder query parameters.
// Absent parameters fall back to the defaults (page 1, limit 10,
// createdAt descending); present-but-malformed parameters are an error,
// not a silent default, because the API contract promises a 400 for
// invalid pagination.
func parsePageRequest(c *gin.Context) (utils.PageRequest, error) {
	p := utils.DefaultPageRequest()

	if raw, present := c.GetQuery("page"); present {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, utils.ErrBadPage
		}
		p.Page = n
	}
	if raw, present := c.GetQuery("limit"); present {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, utils.ErrBadLimit
		}
		p.Limit = n
	}
	if raw, present := c.GetQuery("sortBy"); present && strings.TrimSpace(raw) != "" {
		p.SortBy = strings.TrimSpace(raw)
	}
	if raw, present := c.GetQuery("sortOrder"); present {
		p.SortOrder = strings.ToLower(strings.TrimSpace(raw))
	}

	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}
