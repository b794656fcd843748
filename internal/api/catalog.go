package api

import (
	"net/http"

	"github.com/frostedfabrics/inventory-api/internal/domain/catalog"
	"github.com/gin-gonic/gin"
)

/* Product categories */

func (a *API) listProductCategories(c *gin.Context) {
	out, err := a.catalog.ListCategories(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) getProductCategory(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	pc, err := a.catalog.GetCategory(c.Request.Context(), id)
	if err != nil {
		a.fail(c, err)
		return
	}
	if pc == nil {
		notFound(c, "Product category")
		return
	}
	c.JSON(http.StatusOK, pc)
}

func (a *API) createProductCategory(c *gin.Context) {
	var p catalog.CategoryPatch
	if !a.bind(c, &p) {
		return
	}
	if err := p.Complete(); err != nil {
		a.fail(c, err)
		return
	}
	pc, err := a.catalog.CreateCategory(c.Request.Context(), p)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, pc)
}

func (a *API) updateProductCategory(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	var p catalog.CategoryPatch
	if !a.bind(c, &p) {
		return
	}
	if isPut(c) {
		if err := p.Complete(); err != nil {
			a.fail(c, err)
			return
		}
	}
	pc, err := a.catalog.UpdateCategory(c.Request.Context(), id, p)
	if err != nil {
		a.fail(c, err)
		return
	}
	if pc == nil {
		notFound(c, "Product category")
		return
	}
	c.JSON(http.StatusOK, pc)
}

func (a *API) deleteProductCategory(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	res, err := a.deleter.DeleteProductCategory(c.Request.Context(), id)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product category deleted", "removed": res})
}

/* Products */

func (a *API) listProducts(c *gin.Context) {
	category, ok := a.queryID(c, "category")
	if !ok {
		return
	}
	out, err := a.catalog.ListProducts(c.Request.Context(), category)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) getProduct(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	p, err := a.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		a.fail(c, err)
		return
	}
	if p == nil {
		notFound(c, "Product")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (a *API) createProduct(c *gin.Context) {
	var p catalog.ProductPatch
	if !a.bind(c, &p) {
		return
	}
	if err := p.Complete(); err != nil {
		a.fail(c, err)
		return
	}
	out, err := a.catalog.CreateProduct(c.Request.Context(), p)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (a *API) updateProduct(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	var p catalog.ProductPatch
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
	out, err := a.catalog.UpdateProduct(c.Request.Context(), id, p)
	if err != nil {
		a.fail(c, err)
		return
	}
	if out == nil {
		notFound(c, "Product")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) deleteProduct(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	res, err := a.deleter.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted", "removed": res})
}
