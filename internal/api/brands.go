package api

import (
	"net/http"

	"github.com/frostedfabrics/inventory-api/internal/domain/brands"
	"github.com/gin-gonic/gin"
)

func (a *API) listBrands(c *gin.Context) {
	category, ok := a.queryID(c, "mc_id")
	if !ok {
		return
	}
	out, err := a.brands.List(c.Request.Context(), category)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) getBrand(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	b, err := a.brands.GetByID(c.Request.Context(), id)
	if err != nil {
		a.fail(c, err)
		return
	}
	if b == nil {
		notFound(c, "Material brand")
		return
	}
	c.JSON(http.StatusOK, b)
}

func (a *API) createBrand(c *gin.Context) {
	var p brands.Patch
	if !a.bind(c, &p) {
		return
	}
	if err := p.Complete(); err != nil {
		a.fail(c, err)
		return
	}
	b, err := a.brands.Create(c.Request.Context(), p)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (a *API) updateBrand(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	var p brands.Patch
	if !a.bind(c, &p) {
		return
	}
	check := p.Check
	if isPut(c) {
		check = p.Complete
	}
	if err := check(); err != nil {
		a.fail(c, err)
		return
	}
	b, err := a.brands.Update(c.Request.Context(), id, p)
	if err != nil {
		a.fail(c, err)
		return
	}
	if b == nil {
		notFound(c, "Material brand")
		return
	}
	c.JSON(http.StatusOK, b)
}

func (a *API) deleteBrand(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	res, err := a.deleter.DeleteMaterialBrand(c.Request.Context(), id)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Material brand deleted", "removed": res})
}
