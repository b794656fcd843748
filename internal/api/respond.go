package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/frostedfabrics/inventory-api/internal/apperr"
	"github.com/gin-gonic/gin"
)

const requestIDKey = "request_id"

// fail maps err onto 404, 400 or 500. Causes of 500s are logged and never
// sent to the client.
func (a *API) fail(c *gin.Context, err error) {
	if apperr.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}
	if ve, ok := apperr.AsValidation(err); ok {
		body := gin.H{"error": ve.Message}
		if ve.Details != "" {
			body["details"] = ve.Details
		}
		if ve.MaterialID != nil {
			body["material_id"] = *ve.MaterialID
		}
		c.JSON(http.StatusBadRequest, body)
		return
	}

	var dae *apperr.DataAccessError
	op := "unknown"
	if errors.As(err, &dae) {
		op = dae.Op
	}
	a.log.Error("request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"op", op,
		"request_id", c.GetString(requestIDKey),
		"err", err,
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Internal server error",
		"details": "The database operation could not be completed",
	})
}

func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
}

// bind decodes the JSON body; it writes the 400 itself and returns false on
// failure.
func (a *API) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		a.fail(c, apperr.Invalidf("Invalid request body", "%v", err))
		return false
	}
	return true
}

func isPut(c *gin.Context) bool { return c.Request.Method == http.MethodPut }

func (a *API) pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		a.fail(c, apperr.Invalidf("Invalid ID", "%s must be a positive integer", name))
		return 0, false
	}
	return id, true
}

// queryID reads an optional positive integer filter.
func (a *API) queryID(c *gin.Context, name string) (*int64, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		a.fail(c, apperr.Invalidf("Invalid query parameter", "%s must be a positive integer", name))
		return nil, false
	}
	return &id, true
}

func (a *API) queryTime(c *gin.Context, name string) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		a.fail(c, apperr.Invalidf("Invalid query parameter", "%s must be an RFC3339 timestamp", name))
		return nil, false
	}
	return &t, true
}

func (a *API) queryString(c *gin.Context, name string) *string {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	return &raw
}
