package api

import (
	"net/http"

	"github.com/frostedfabrics/inventory-api/internal/domain/variations"
	"github.com/gin-gonic/gin"
)

func (a *API) listVariations(c *gin.Context) {
	product, ok := a.queryID(c, "product")
	if !ok {
		return
	}
	out, err := a.variations.ListWithMaterials(c.Request.Context(), product)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) getVariation(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	g, gen, hit := a.cache.Lookup(ctx, id)
	if hit {
		c.JSON(http.StatusOK, g)
		return
	}

	g, err := a.variations.GetWithMaterials(ctx, id)
	if err != nil {
		a.fail(c, err)
		return
	}
	if g == nil {
		notFound(c, "Product variation")
		return
	}
	a.cache.Store(ctx, gen, id, g)
	c.JSON(http.StatusOK, g)
}

func (a *API) createVariation(c *gin.Context) {
	var u variations.Update
	if !a.bind(c, &u) {
		return
	}
	if err := u.Complete(); err != nil {
		a.fail(c, err)
		return
	}
	ctx := c.Request.Context()
	v, err := a.variations.Create(ctx, u)
	if err != nil {
		a.fail(c, err)
		return
	}
	g, err := a.variations.GetWithMaterials(ctx, v.ID)
	if err != nil {
		a.log.Warn("variation graph read failed", "var_id", v.ID, "err", err)
	}
	if err != nil || g == nil {
		g = &variations.Graph{Variation: *v, Materials: []variations.MaterialLine{}}
	}
	c.JSON(http.StatusCreated, g)
}

// updateVariation runs every edit through reconciliation so a raised
// var_inv consumes materials in the same transaction.
func (a *API) updateVariation(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	var u variations.Update
	if !a.bind(c, &u) {
		return
	}
	if isPut(c) {
		if err := u.Complete(); err != nil {
			a.fail(c, err)
			return
		}
	}
	g, err := a.reconciler.ReconcileVariationUpdate(c.Request.Context(), id, u)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (a *API) deleteVariation(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	res, err := a.deleter.DeleteVariation(c.Request.Context(), id)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product variation deleted", "removed": res})
}
