package inventory

import (
	"context"
	"sort"
	"sync"

	"github.com/frostedfabrics/inventory-api/internal/domain/variations"
)

type fakeMaterial struct {
	name  string
	stock int64
	alert int64
}

type fakeState struct {
	variations map[int64]variations.Variation
	products   map[int64]bool
	materials  map[int64]fakeMaterial
	bom        map[int64]map[int64]int64
	movements  []Movement
}

func (s fakeState) clone() fakeState {
	c := fakeState{
		variations: make(map[int64]variations.Variation, len(s.variations)),
		products:   make(map[int64]bool, len(s.products)),
		materials:  make(map[int64]fakeMaterial, len(s.materials)),
		bom:        make(map[int64]map[int64]int64, len(s.bom)),
		movements:  append([]Movement(nil), s.movements...),
	}
	for k, v := range s.variations {
		c.variations[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.materials {
		c.materials[k] = v
	}
	for k, lines := range s.bom {
		m := make(map[int64]int64, len(lines))
		for mk, mv := range lines {
			m[mk] = mv
		}
		c.bom[k] = m
	}
	return c
}

// fakeDB is an in-memory store whose transactions restore a snapshot on
// error. The mutex stands in for row locks.
type fakeDB struct {
	mu    sync.Mutex
	state fakeState

	failSetStock error
	failLog      error
	failGraph    error
}

func newFakeDB() *fakeDB {
	return &fakeDB{state: fakeState{
		variations: map[int64]variations.Variation{},
		products:   map[int64]bool{},
		materials:  map[int64]fakeMaterial{},
		bom:        map[int64]map[int64]int64{},
	}}
}

func (f *fakeDB) addProduct(id int64) { f.state.products[id] = true }

func (f *fakeDB) addVariation(id, productID, inv int64) {
	f.state.variations[id] = variations.Variation{ID: id, ProductID: productID, Name: "var", Inventory: inv}
}

func (f *fakeDB) addMaterial(id, stock, alert int64) {
	f.state.materials[id] = fakeMaterial{name: "mat", stock: stock, alert: alert}
}

func (f *fakeDB) addLine(varID, matID, amount int64) {
	if f.state.bom[varID] == nil {
		f.state.bom[varID] = map[int64]int64{}
	}
	f.state.bom[varID][matID] = amount
}

func (f *fakeDB) stock(id int64) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.materials[id].stock
}

func (f *fakeDB) inventory(id int64) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.variations[id].Inventory
}

func (f *fakeDB) snapshot() fakeState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.clone()
}

func (f *fakeDB) InTx(_ context.Context, fn func(r Repos) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := f.state.clone()
	if err := fn(fakeRepos{f}); err != nil {
		f.state = snap
		return err
	}
	return nil
}

func (r fakeRepos) VariationGraph(_ context.Context, id int64) (*variations.Graph, error) {
	f := r.db
	if f.failGraph != nil {
		return nil, f.failGraph
	}
	v, ok := f.state.variations[id]
	if !ok {
		return nil, nil
	}
	g := &variations.Graph{Variation: v, Materials: []variations.MaterialLine{}}
	for matID, amount := range f.state.bom[id] {
		m := f.state.materials[matID]
		g.Materials = append(g.Materials, variations.MaterialLine{ID: matID, Name: m.name, Stock: m.stock, Amount: amount})
	}
	sort.Slice(g.Materials, func(i, j int) bool { return g.Materials[i].ID < g.Materials[j].ID })
	return g, nil
}

type fakeRepos struct{ db *fakeDB }

func (r fakeRepos) LockVariationInventory(_ context.Context, id int64) (int64, bool, error) {
	v, ok := r.db.state.variations[id]
	return v.Inventory, ok, nil
}

func (r fakeRepos) ProductExists(_ context.Context, id int64) (bool, error) {
	return r.db.state.products[id], nil
}

func (r fakeRepos) ApplyVariationUpdate(_ context.Context, id int64, u variations.Update) error {
	v := r.db.state.variations[id]
	if u.ProductID != nil {
		v.ProductID = *u.ProductID
	}
	if u.Name != nil {
		v.Name = *u.Name
	}
	if u.Inventory != nil {
		v.Inventory = *u.Inventory
	}
	if u.Goal != nil {
		v.Goal = *u.Goal
	}
	v.ImgID = u.ImgID.Or(v.ImgID)
	r.db.state.variations[id] = v
	return nil
}

func (r fakeRepos) LockStockLines(_ context.Context, id int64) ([]StockLine, error) {
	var out []StockLine
	for matID, amount := range r.db.state.bom[id] {
		m := r.db.state.materials[matID]
		out = append(out, StockLine{MaterialID: matID, Name: m.name, Amount: amount, Stock: m.stock, Alert: m.alert})
	}
	return out, nil
}

func (r fakeRepos) LockMaterials(_ context.Context, ids []int64) ([]StockLine, error) {
	var out []StockLine
	for _, id := range ids {
		if m, ok := r.db.state.materials[id]; ok {
			out = append(out, StockLine{MaterialID: id, Name: m.name, Stock: m.stock, Alert: m.alert})
		}
	}
	return out, nil
}

func (r fakeRepos) SetStock(_ context.Context, changes []Change) error {
	for _, c := range changes {
		m := r.db.state.materials[c.MaterialID]
		m.stock = c.After
		r.db.state.materials[c.MaterialID] = m
	}
	return r.db.failSetStock
}

func (r fakeRepos) LogMovements(_ context.Context, varID *int64, reason Reason, changes []Change) error {
	if r.db.failLog != nil {
		return r.db.failLog
	}
	for _, c := range changes {
		r.db.state.movements = append(r.db.state.movements, Movement{
			MaterialID:  c.MaterialID,
			VariationID: varID,
			Change:      c.Delta(),
			Before:      c.Before,
			After:       c.After,
			Reason:      reason,
		})
	}
	return nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	items []LowStock
}

func (n *fakeNotifier) NotifyLowStock(items []LowStock) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, items...)
}

type fakeRecorder struct {
	outcomes map[string]int
	units    int64
}

func newFakeRecorder() *fakeRecorder { return &fakeRecorder{outcomes: map[string]int{}} }

func (r *fakeRecorder) Reconciliation(outcome string) { r.outcomes[outcome]++ }
func (r *fakeRecorder) UnitsDeducted(n int64)         { r.units += n }
