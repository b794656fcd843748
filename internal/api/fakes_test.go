package api

import (
	"context"
	"sync"

	"github.com/frostedfabrics/inventory-api/internal/apperr"
	"github.com/frostedfabrics/inventory-api/internal/domain/bom"
	"github.com/frostedfabrics/inventory-api/internal/domain/cascade"
	"github.com/frostedfabrics/inventory-api/internal/domain/inventory"
	"github.com/frostedfabrics/inventory-api/internal/domain/materials"
	"github.com/frostedfabrics/inventory-api/internal/domain/variations"
)

// world is a tiny in-memory schema shared by the fakes below so that
// deletes are visible to later reads.
type world struct {
	mu         sync.Mutex
	categories map[int64]bool
	products   map[int64]int64
	variations map[int64]variations.Variation
	bom        map[[2]int64]int64
	materials  map[int64]bool
}

func newWorld() *world {
	return &world{
		categories: map[int64]bool{},
		products:   map[int64]int64{},
		variations: map[int64]variations.Variation{},
		bom:        map[[2]int64]int64{},
		materials:  map[int64]bool{},
	}
}

/* VariationStore */

type fakeVariations struct {
	VariationStore
	w *world
}

func (f fakeVariations) GetWithMaterials(_ context.Context, id int64) (*variations.Graph, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	v, ok := f.w.variations[id]
	if !ok {
		return nil, nil
	}
	g := &variations.Graph{Variation: v, Materials: []variations.MaterialLine{}}
	for k, amount := range f.w.bom {
		if k[0] == id {
			g.Materials = append(g.Materials, variations.MaterialLine{ID: k[1], Amount: amount})
		}
	}
	return g, nil
}

func (f fakeVariations) Create(_ context.Context, u variations.Update) (*variations.Variation, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	if _, ok := f.w.products[*u.ProductID]; !ok {
		return nil, apperr.Invalid("Invalid product ID")
	}
	v := variations.Variation{
		ID:        int64(len(f.w.variations) + 1),
		ProductID: *u.ProductID,
		Name:      *u.Name,
		Inventory: *u.Inventory,
		Goal:      *u.Goal,
		ImgID:     u.ImgID.Ptr(),
	}
	f.w.variations[v.ID] = v
	return &v, nil
}

// brokenGraphVariations creates rows but cannot read them back.
type brokenGraphVariations struct {
	fakeVariations
	err error
}

func (f brokenGraphVariations) GetWithMaterials(context.Context, int64) (*variations.Graph, error) {
	return nil, f.err
}

/* BOMStore */

type fakeBOM struct {
	BOMStore
	w *world
}

func (f fakeBOM) Upsert(_ context.Context, in bom.Input) (*bom.Line, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	_, varOK := f.w.variations[*in.VariationID]
	if !varOK || !f.w.materials[*in.MaterialID] {
		return nil, apperr.Invalid("Invalid variation or material ID")
	}
	f.w.bom[[2]int64{*in.VariationID, *in.MaterialID}] = *in.Amount
	return &bom.Line{VariationID: *in.VariationID, MaterialID: *in.MaterialID, Amount: *in.Amount}, nil
}

func (f fakeBOM) List(_ context.Context, variationID *int64) ([]bom.Line, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	out := []bom.Line{}
	for k, amount := range f.w.bom {
		if variationID == nil || k[0] == *variationID {
			out = append(out, bom.Line{VariationID: k[0], MaterialID: k[1], Amount: amount})
		}
	}
	return out, nil
}

func (f fakeBOM) UpdateAmount(_ context.Context, varID, matID, amount int64) (*bom.Line, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	k := [2]int64{varID, matID}
	if _, ok := f.w.bom[k]; !ok {
		return nil, nil
	}
	f.w.bom[k] = amount
	return &bom.Line{VariationID: varID, MaterialID: matID, Amount: amount}, nil
}

func (f fakeBOM) Delete(_ context.Context, varID, matID int64) (bool, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	k := [2]int64{varID, matID}
	if _, ok := f.w.bom[k]; !ok {
		return false, nil
	}
	delete(f.w.bom, k)
	return true, nil
}

/* Deleter */

type fakeDeleter struct {
	Deleter
	w *world
}

func (f fakeDeleter) DeleteProductCategory(_ context.Context, id int64) (cascade.Result, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	if !f.w.categories[id] {
		return nil, apperr.ErrNotFound
	}
	res := cascade.Result{}
	for prodID, pc := range f.w.products {
		if pc != id {
			continue
		}
		for varID, v := range f.w.variations {
			if v.ProductID != prodID {
				continue
			}
			for k := range f.w.bom {
				if k[0] == varID {
					delete(f.w.bom, k)
					res["variation_materials"]++
				}
			}
			delete(f.w.variations, varID)
			res["product_variations"]++
		}
		delete(f.w.products, prodID)
		res["products"]++
	}
	delete(f.w.categories, id)
	res["product_categories"]++
	return res, nil
}

/* Reconciler */

type fakeReconciler struct {
	got    []variations.Update
	graph  *variations.Graph
	err    error
	counts []inventory.StockCount
}

func (f *fakeReconciler) ReconcileVariationUpdate(_ context.Context, _ int64, u variations.Update) (*variations.Graph, error) {
	f.got = append(f.got, u)
	return f.graph, f.err
}

func (f *fakeReconciler) ImportStock(_ context.Context, counts []inventory.StockCount) (int, error) {
	f.counts = counts
	return len(counts), f.err
}

/* MaterialStore */

type fakeMaterials struct {
	MaterialStore
	measurements map[int64]materials.Measurement
	list         []materials.Material
	err          error
}

func (f fakeMaterials) GetMeasurement(_ context.Context, id int64) (*materials.Measurement, error) {
	if f.err != nil {
		return nil, f.err
	}
	m, ok := f.measurements[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (f fakeMaterials) List(_ context.Context, _ materials.ListFilter) ([]materials.Material, error) {
	return f.list, f.err
}

/* cache */

type countingCache struct {
	mu     sync.Mutex
	bumps  int
	stored map[int64]*variations.Graph
}

func (c *countingCache) Lookup(_ context.Context, id int64) (*variations.Graph, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.stored[id]
	return g, int64(c.bumps), ok
}

func (c *countingCache) Store(_ context.Context, _ int64, id int64, g *variations.Graph) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stored == nil {
		c.stored = map[int64]*variations.Graph{}
	}
	c.stored[id] = g
}

func (c *countingCache) Bump(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bumps++
	c.stored = nil
}
