package inventory

import (
	"context"

	"github.com/frostedfabrics/inventory-api/internal/domain/catalog"
	"github.com/frostedfabrics/inventory-api/internal/domain/variations"
	"github.com/frostedfabrics/inventory-api/internal/infra/db"
)

// Repos is everything a reconciliation reads or writes while its
// transaction is open.
type Repos interface {
	LockVariationInventory(ctx context.Context, variationID int64) (inv int64, ok bool, err error)
	ProductExists(ctx context.Context, productID int64) (bool, error)
	ApplyVariationUpdate(ctx context.Context, variationID int64, u variations.Update) error
	LockStockLines(ctx context.Context, variationID int64) ([]StockLine, error)
	LockMaterials(ctx context.Context, ids []int64) ([]StockLine, error)
	SetStock(ctx context.Context, changes []Change) error
	LogMovements(ctx context.Context, variationID *int64, reason Reason, changes []Change) error
	VariationGraph(ctx context.Context, variationID int64) (*variations.Graph, error)
}

// TxRunner hands fn a Repos bound to one transaction. A non-nil error from
// fn rolls the transaction back.
type TxRunner interface {
	InTx(ctx context.Context, fn func(r Repos) error) error
}

// Notifier receives materials that dropped below their alert level. It must
// not block the caller.
type Notifier interface {
	NotifyLowStock(items []LowStock)
}

type Recorder interface {
	Reconciliation(outcome string)
	UnitsDeducted(n int64)
}

// PgRunner runs Repos over the shared store.
type PgRunner struct{ store db.TxRunner }

func NewPgRunner(store db.TxRunner) *PgRunner { return &PgRunner{store: store} }

func (p *PgRunner) InTx(ctx context.Context, fn func(r Repos) error) error {
	return p.store.WithTx(ctx, func(q db.DBTX) error {
		return fn(pgRepos{
			Repo:     NewRepo(q),
			vars:     variations.NewRepo(q),
			products: catalog.NewRepo(q),
		})
	})
}

type pgRepos struct {
	*Repo
	vars     *variations.Repo
	products *catalog.Repo
}

func (r pgRepos) LockVariationInventory(ctx context.Context, id int64) (int64, bool, error) {
	return r.vars.LockInventory(ctx, id)
}

func (r pgRepos) ProductExists(ctx context.Context, id int64) (bool, error) {
	return r.products.ProductExists(ctx, id)
}

func (r pgRepos) ApplyVariationUpdate(ctx context.Context, id int64, u variations.Update) error {
	_, err := r.vars.Apply(ctx, id, u)
	return err
}

func (r pgRepos) VariationGraph(ctx context.Context, id int64) (*variations.Graph, error) {
	return r.vars.GetWithMaterials(ctx, id)
}
