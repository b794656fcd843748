package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/frostedfabrics/inventory-api/internal/apperr"
	"github.com/frostedfabrics/inventory-api/internal/domain/materials"
	"github.com/frostedfabrics/inventory-api/internal/infra/xlsx"
	"github.com/gin-gonic/gin"
)

const (
	xlsxContentType      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	defaultMovementLimit = 100
	maxMovementLimit     = 1000
	maxSheetBytes        = 10 << 20
)

/* Measurements */

func (a *API) listMeasurements(c *gin.Context) {
	out, err := a.materials.ListMeasurements(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// getMeasurement answers unknown ids with a "units" placeholder instead of
// a 404 so clients can always render a unit label.
func (a *API) getMeasurement(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	m, err := a.materials.GetMeasurement(c.Request.Context(), id)
	if err != nil {
		a.fail(c, err)
		return
	}
	if m == nil {
		m = &materials.Measurement{ID: id, Unit: materials.DefaultUnit}
	}
	c.JSON(http.StatusOK, m)
}

func (a *API) createMeasurement(c *gin.Context) {
	var in materials.MeasurementInput
	if !a.bind(c, &in) {
		return
	}
	if err := in.Complete(); err != nil {
		a.fail(c, err)
		return
	}
	m, err := a.materials.CreateMeasurement(c.Request.Context(), in)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

/* Material categories */

func (a *API) listMaterialCategories(c *gin.Context) {
	out, err := a.materials.ListCategories(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) getMaterialCategory(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	mc, err := a.materials.GetCategory(c.Request.Context(), id)
	if err != nil {
		a.fail(c, err)
		return
	}
	if mc == nil {
		notFound(c, "Material category")
		return
	}
	c.JSON(http.StatusOK, mc)
}

func (a *API) createMaterialCategory(c *gin.Context) {
	var p materials.CategoryPatch
	if !a.bind(c, &p) {
		return
	}
	if err := p.Complete(); err != nil {
		a.fail(c, err)
		return
	}
	mc, err := a.materials.CreateCategory(c.Request.Context(), p)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, mc)
}

func (a *API) updateMaterialCategory(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	var p materials.CategoryPatch
	if !a.bind(c, &p) {
		return
	}
	if isPut(c) {
		if err := p.Complete(); err != nil {
			a.fail(c, err)
			return
		}
	}
	mc, err := a.materials.UpdateCategory(c.Request.Context(), id, p)
	if err != nil {
		a.fail(c, err)
		return
	}
	if mc == nil {
		notFound(c, "Material category")
		return
	}
	c.JSON(http.StatusOK, mc)
}

func (a *API) deleteMaterialCategory(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	res, err := a.deleter.DeleteMaterialCategory(c.Request.Context(), id)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Material category deleted", "removed": res})
}

/* Materials */

func (a *API) listMaterials(c *gin.Context) {
	brand, ok := a.queryID(c, "brand")
	if !ok {
		return
	}
	f := materials.ListFilter{
		CategoryName: a.queryString(c, "category"),
		BrandID:      brand,
	}
	if raw := c.Query("low_stock"); raw != "" {
		low, err := strconv.ParseBool(raw)
		if err != nil {
			a.fail(c, apperr.Invalidf("Invalid query parameter", "low_stock must be true or false"))
			return
		}
		f.LowStock = low
	}

	out, err := a.materials.List(c.Request.Context(), f)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) getMaterial(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	m, err := a.materials.GetByID(c.Request.Context(), id)
	if err != nil {
		a.fail(c, err)
		return
	}
	if m == nil {
		notFound(c, "Material")
		return
	}
	c.JSON(http.StatusOK, m)
}

func (a *API) createMaterial(c *gin.Context) {
	var p materials.Patch
	if !a.bind(c, &p) {
		return
	}
	if err := p.Complete(); err != nil {
		a.fail(c, err)
		return
	}
	m, err := a.materials.Create(c.Request.Context(), p)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (a *API) updateMaterial(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	var p materials.Patch
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
	m, err := a.materials.Update(c.Request.Context(), id, p)
	if err != nil {
		a.fail(c, err)
		return
	}
	if m == nil {
		notFound(c, "Material")
		return
	}
	c.JSON(http.StatusOK, m)
}

func (a *API) deleteMaterial(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	res, err := a.deleter.DeleteMaterial(c.Request.Context(), id)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Material deleted", "removed": res})
}

func (a *API) listMovements(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	limit := defaultMovementLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			a.fail(c, apperr.Invalidf("Invalid query parameter", "limit must be a positive integer"))
			return
		}
		limit = min(n, maxMovementLimit)
	}
	out, err := a.movements.ListMovements(c.Request.Context(), id, limit)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

/* Stock sheets */

func (a *API) exportStock(c *gin.Context) {
	mats, err := a.materials.List(c.Request.Context(), materials.ListFilter{})
	if err != nil {
		a.fail(c, err)
		return
	}
	var buf bytes.Buffer
	if err := xlsx.WriteStock(&buf, mats); err != nil {
		a.fail(c, fmt.Errorf("write stock sheet: %w", err))
		return
	}
	name := fmt.Sprintf("materials_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (a *API) importStock(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		a.fail(c, apperr.Invalidf("Invalid request body", "multipart field \"file\" is required"))
		return
	}
	if fh.Size > maxSheetBytes {
		a.fail(c, apperr.Invalidf("Invalid stock sheet", "file is larger than %d bytes", maxSheetBytes))
		return
	}
	f, err := fh.Open()
	if err != nil {
		a.fail(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer func() { _ = f.Close() }()

	counts, err := xlsx.ReadStockCounts(f)
	if err != nil {
		a.fail(c, err)
		return
	}
	changed, err := a.reconciler.ImportStock(c.Request.Context(), counts)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": len(counts), "changed": changed})
}
