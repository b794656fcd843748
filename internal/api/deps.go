package api

import (
	"context"

	"github.com/frostedfabrics/inventory-api/internal/domain/bom"
	"github.com/frostedfabrics/inventory-api/internal/domain/brands"
	"github.com/frostedfabrics/inventory-api/internal/domain/calendar"
	"github.com/frostedfabrics/inventory-api/internal/domain/cascade"
	"github.com/frostedfabrics/inventory-api/internal/domain/catalog"
	"github.com/frostedfabrics/inventory-api/internal/domain/inventory"
	"github.com/frostedfabrics/inventory-api/internal/domain/materials"
	"github.com/frostedfabrics/inventory-api/internal/domain/variations"
)

type CatalogStore interface {
	ListCategories(ctx context.Context) ([]catalog.ProductCategory, error)
	GetCategory(ctx context.Context, id int64) (*catalog.ProductCategory, error)
	CreateCategory(ctx context.Context, p catalog.CategoryPatch) (*catalog.ProductCategory, error)
	UpdateCategory(ctx context.Context, id int64, p catalog.CategoryPatch) (*catalog.ProductCategory, error)

	ListProducts(ctx context.Context, categoryID *int64) ([]catalog.Product, error)
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
	CreateProduct(ctx context.Context, p catalog.ProductPatch) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, id int64, p catalog.ProductPatch) (*catalog.Product, error)
}

type VariationStore interface {
	Create(ctx context.Context, u variations.Update) (*variations.Variation, error)
	GetWithMaterials(ctx context.Context, id int64) (*variations.Graph, error)
	ListWithMaterials(ctx context.Context, productID *int64) ([]variations.Graph, error)
	ListBelowGoal(ctx context.Context) ([]variations.Shortfall, error)
}

type MaterialStore interface {
	ListMeasurements(ctx context.Context) ([]materials.Measurement, error)
	GetMeasurement(ctx context.Context, id int64) (*materials.Measurement, error)
	CreateMeasurement(ctx context.Context, in materials.MeasurementInput) (*materials.Measurement, error)

	ListCategories(ctx context.Context) ([]materials.Category, error)
	GetCategory(ctx context.Context, id int64) (*materials.Category, error)
	CreateCategory(ctx context.Context, p materials.CategoryPatch) (*materials.Category, error)
	UpdateCategory(ctx context.Context, id int64, p materials.CategoryPatch) (*materials.Category, error)

	List(ctx context.Context, f materials.ListFilter) ([]materials.Material, error)
	GetByID(ctx context.Context, id int64) (*materials.Material, error)
	Create(ctx context.Context, p materials.Patch) (*materials.Material, error)
	Update(ctx context.Context, id int64, p materials.Patch) (*materials.Material, error)
}

type BrandStore interface {
	List(ctx context.Context, categoryID *int64) ([]brands.Brand, error)
	GetByID(ctx context.Context, id int64) (*brands.Brand, error)
	Create(ctx context.Context, p brands.Patch) (*brands.Brand, error)
	Update(ctx context.Context, id int64, p brands.Patch) (*brands.Brand, error)
}

type BOMStore interface {
	List(ctx context.Context, variationID *int64) ([]bom.Line, error)
	Get(ctx context.Context, variationID, materialID int64) (*bom.Line, error)
	Upsert(ctx context.Context, in bom.Input) (*bom.Line, error)
	UpdateAmount(ctx context.Context, variationID, materialID, amount int64) (*bom.Line, error)
	Delete(ctx context.Context, variationID, materialID int64) (bool, error)
}

type CalendarStore interface {
	ListCategories(ctx context.Context) ([]calendar.Category, error)
	GetCategory(ctx context.Context, id int64) (*calendar.Category, error)
	CreateCategory(ctx context.Context, p calendar.CategoryPatch) (*calendar.Category, error)
	UpdateCategory(ctx context.Context, id int64, p calendar.CategoryPatch) (*calendar.Category, error)

	ListEvents(ctx context.Context, f calendar.EventFilter) ([]calendar.Event, error)
	GetEvent(ctx context.Context, id int64) (*calendar.Event, error)
	CreateEvent(ctx context.Context, p calendar.EventPatch) (*calendar.Event, error)
	UpdateEvent(ctx context.Context, id int64, p calendar.EventPatch) (*calendar.Event, error)
	DeleteEvent(ctx context.Context, id int64) (bool, error)
}

type MovementStore interface {
	ListMovements(ctx context.Context, materialID int64, limit int) ([]inventory.Movement, error)
}

// Reconciler owns every write that changes material stock as a side effect.
type Reconciler interface {
	ReconcileVariationUpdate(ctx context.Context, id int64, u variations.Update) (*variations.Graph, error)
	ImportStock(ctx context.Context, counts []inventory.StockCount) (int, error)
}

type Deleter interface {
	DeleteProductCategory(ctx context.Context, id int64) (cascade.Result, error)
	DeleteProduct(ctx context.Context, id int64) (cascade.Result, error)
	DeleteVariation(ctx context.Context, id int64) (cascade.Result, error)
	DeleteMaterialCategory(ctx context.Context, id int64) (cascade.Result, error)
	DeleteMaterialBrand(ctx context.Context, id int64) (cascade.Result, error)
	DeleteMaterial(ctx context.Context, id int64) (cascade.Result, error)
	DeleteCalendarCategory(ctx context.Context, id int64) (cascade.Result, error)
}
