package api

import (
	"net/http"

	"github.com/frostedfabrics/inventory-api/internal/domain/materials"
	"github.com/gin-gonic/gin"
)

// alerts lists variations behind their production goal and materials below
// their alert threshold.
func (a *API) alerts(c *gin.Context) {
	ctx := c.Request.Context()
	vars, err := a.variations.ListBelowGoal(ctx)
	if err != nil {
		a.fail(c, err)
		return
	}
	mats, err := a.materials.List(ctx, materials.ListFilter{LowStock: true})
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"variations": vars, "materials": mats})
}
