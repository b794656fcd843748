package api

import (
	"net/http"

	"github.com/frostedfabrics/inventory-api/internal/domain/bom"
	"github.com/gin-gonic/gin"
)

func (a *API) bomKey(c *gin.Context) (varID, matID int64, ok bool) {
	if varID, ok = a.pathID(c, "var_id"); !ok {
		return 0, 0, false
	}
	if matID, ok = a.pathID(c, "mat_id"); !ok {
		return 0, 0, false
	}
	return varID, matID, true
}

func (a *API) listBOM(c *gin.Context) {
	variation, ok := a.queryID(c, "variation")
	if !ok {
		return
	}
	out, err := a.bom.List(c.Request.Context(), variation)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) getBOMLine(c *gin.Context) {
	varID, matID, ok := a.bomKey(c)
	if !ok {
		return
	}
	l, err := a.bom.Get(c.Request.Context(), varID, matID)
	if err != nil {
		a.fail(c, err)
		return
	}
	if l == nil {
		notFound(c, "Variation material")
		return
	}
	c.JSON(http.StatusOK, l)
}

// upsertBOMLine creates the line or replaces the amount of an existing one.
func (a *API) upsertBOMLine(c *gin.Context) {
	var in bom.Input
	if !a.bind(c, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		a.fail(c, err)
		return
	}
	l, err := a.bom.Upsert(c.Request.Context(), in)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (a *API) updateBOMLine(c *gin.Context) {
	varID, matID, ok := a.bomKey(c)
	if !ok {
		return
	}
	var in bom.AmountInput
	if !a.bind(c, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		a.fail(c, err)
		return
	}
	l, err := a.bom.UpdateAmount(c.Request.Context(), varID, matID, *in.Amount)
	if err != nil {
		a.fail(c, err)
		return
	}
	if l == nil {
		notFound(c, "Variation material")
		return
	}
	c.JSON(http.StatusOK, l)
}

func (a *API) deleteBOMLine(c *gin.Context) {
	varID, matID, ok := a.bomKey(c)
	if !ok {
		return
	}
	removed, err := a.bom.Delete(c.Request.Context(), varID, matID)
	if err != nil {
		a.fail(c, err)
		return
	}
	if !removed {
		notFound(c, "Variation material")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Variation material deleted"})
}
