package handlers

import (
	"fmt"
	"strconv"

	"github.com/SAP-F-2025/academic-service/internal/services"
	"github.com/gin-gonic/gin"
)

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s parameter: %q", name, raw)
	}
	return uint(id), nil
}

// parsePage reads limit/offset query parameters; the services apply the
// defaults for anything missing or malformed.
func parsePage(c *gin.Context) services.PageRequest {
	var page services.PageRequest
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page.Limit = n
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page.Offset = n
		}
	}
	return page
}
