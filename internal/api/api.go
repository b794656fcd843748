// Package api maps the /api HTTP surface onto the domain stores and engines.
package api

import (
	"log/slog"
	"net/http"

	"github.com/frostedfabrics/inventory-api/internal/infra/cache"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	Catalog    CatalogStore
	Variations VariationStore
	Materials  MaterialStore
	Brands     BrandStore
	BOM        BOMStore
	Calendar   CalendarStore
	Movements  MovementStore
	Reconciler Reconciler
	Deleter    Deleter
	Cache      cache.Graphs
	Log        *slog.Logger
}

type API struct {
	catalog    CatalogStore
	variations VariationStore
	materials  MaterialStore
	brands     BrandStore
	bom        BOMStore
	calendar   CalendarStore
	movements  MovementStore
	reconciler Reconciler
	deleter    Deleter
	cache      cache.Graphs
	log        *slog.Logger
}

func New(d Deps) *API {
	a := &API{
		catalog:    d.Catalog,
		variations: d.Variations,
		materials:  d.Materials,
		brands:     d.Brands,
		bom:        d.BOM,
		calendar:   d.Calendar,
		movements:  d.Movements,
		reconciler: d.Reconciler,
		deleter:    d.Deleter,
		cache:      d.Cache,
		log:        d.Log,
	}
	if a.cache == nil {
		a.cache = cache.Nop{}
	}
	return a
}

// Register mounts every entity under /api.
func (a *API) Register(r gin.IRouter) {
	g := r.Group("/api")
	g.Use(a.invalidateOnWrite())

	pc := g.Group("/productcategories")
	pc.GET("", a.listProductCategories)
	pc.GET("/:id", a.getProductCategory)
	pc.POST("", a.createProductCategory)
	pc.PUT("/:id", a.updateProductCategory)
	pc.PATCH("/:id", a.updateProductCategory)
	pc.DELETE("/:id", a.deleteProductCategory)

	p := g.Group("/products")
	p.GET("", a.listProducts)
	p.GET("/:id", a.getProduct)
	p.POST("", a.createProduct)
	p.PUT("/:id", a.updateProduct)
	p.PATCH("/:id", a.updateProduct)
	p.DELETE("/:id", a.deleteProduct)

	v := g.Group("/productvariations")
	v.GET("", a.listVariations)
	v.GET("/:id", a.getVariation)
	v.POST("", a.createVariation)
	v.PUT("/:id", a.updateVariation)
	v.PATCH("/:id", a.updateVariation)
	v.DELETE("/:id", a.deleteVariation)

	ms := g.Group("/measurements")
	ms.GET("", a.listMeasurements)
	ms.GET("/:id", a.getMeasurement)
	ms.POST("", a.createMeasurement)

	mc := g.Group("/materialcategories")
	mc.GET("", a.listMaterialCategories)
	mc.GET("/:id", a.getMaterialCategory)
	mc.POST("", a.createMaterialCategory)
	mc.PUT("/:id", a.updateMaterialCategory)
	mc.PATCH("/:id", a.updateMaterialCategory)
	mc.DELETE("/:id", a.deleteMaterialCategory)

	mb := g.Group("/materialbrands")
	mb.GET("", a.listBrands)
	mb.GET("/:id", a.getBrand)
	mb.POST("", a.createBrand)
	mb.PUT("/:id", a.updateBrand)
	mb.PATCH("/:id", a.updateBrand)
	mb.DELETE("/:id", a.deleteBrand)

	m := g.Group("/materials")
	m.GET("", a.listMaterials)
	m.GET("/export", a.exportStock)
	m.POST("/import", a.importStock)
	m.GET("/:id", a.getMaterial)
	m.GET("/:id/movements", a.listMovements)
	m.POST("", a.createMaterial)
	m.PUT("/:id", a.updateMaterial)
	m.PATCH("/:id", a.updateMaterial)
	m.DELETE("/:id", a.deleteMaterial)

	vm := g.Group("/variationmaterials")
	vm.GET("", a.listBOM)
	vm.GET("/:var_id/:mat_id", a.getBOMLine)
	vm.POST("", a.upsertBOMLine)
	vm.PUT("/:var_id/:mat_id", a.updateBOMLine)
	vm.PATCH("/:var_id/:mat_id", a.updateBOMLine)
	vm.DELETE("/:var_id/:mat_id", a.deleteBOMLine)

	cc := g.Group("/calendarcategories")
	cc.GET("", a.listCalendarCategories)
	cc.GET("/:id", a.getCalendarCategory)
	cc.POST("", a.createCalendarCategory)
	cc.PUT("/:id", a.updateCalendarCategory)
	cc.PATCH("/:id", a.updateCalendarCategory)
	cc.DELETE("/:id", a.deleteCalendarCategory)

	ce := g.Group("/calendarevents")
	ce.GET("", a.listEvents)
	ce.GET("/:id", a.getEvent)
	ce.POST("", a.createEvent)
	ce.PUT("/:id", a.updateEvent)
	ce.PATCH("/:id", a.updateEvent)
	ce.DELETE("/:id", a.deleteEvent)

	g.GET("/alerts", a.alerts)
}

// invalidateOnWrite bumps the graph cache generation after every successful
// mutating request.
func (a *API) invalidateOnWrite() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}
		if c.Writer.Status() < http.StatusBadRequest {
			a.cache.Bump(c.Request.Context())
		}
	}
}
