package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/schoolmgr/school-api/internal/middleware"
	"github.com/schoolmgr/school-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func pagedRequestFromQuery(c *gin.Context) models.PagedRequest {
	var req models.PagedRequest
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		req.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("pageSize", "20")); err == nil {
		req.PageSize = size
	}
	req.SortColumn = c.Query("sortColumn")
	req.SortDirection = c.Query("sortDirection")
	req.Search = strings.TrimSpace(c.Query("search"))
	if from, err := time.Parse("2006-01-02", c.Query("dateFrom")); err == nil {
		req.DateFrom = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("dateTo")); err == nil {
		req.DateTo = &to
	}
	return req
}

func dateFromQuery(c *gin.Context) *time.Time {
	if raw := c.Query("date"); raw != "" {
		if date, err := time.Parse("2006-01-02", raw); err == nil {
			return &date
		}
	}
	return nil
}
