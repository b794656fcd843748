package inventory

import (
	"context"

	"github.com/frostedfabrics/inventory-api/internal/infra/db"
)

type Repo struct{ q db.DBTX }

func NewRepo(q db.DBTX) *Repo { return &Repo{q: q} }

// LockStockLines reads the bill of materials of a variation joined to the
// current stock, locking the material rows in id order.
func (r *Repo) LockStockLines(ctx context.Context, variationID int64) ([]StockLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT m.mat_id, m.mat_name, vm.mat_amount, m.mat_inv, m.mat_alert
		FROM variation_materials vm
		JOIN materials m ON m.mat_id = vm.mat_id
		WHERE vm.var_id = $1
		ORDER BY m.mat_id
		FOR UPDATE OF m
	`, variationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StockLine
	for rows.Next() {
		var l StockLine
		if err := rows.Scan(&l.MaterialID, &l.Name, &l.Amount, &l.Stock, &l.Alert); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// LockMaterials locks the listed materials; ids that do not exist are absent
// from the result.
func (r *Repo) LockMaterials(ctx context.Context, ids []int64) ([]StockLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT mat_id, mat_name, mat_inv, mat_alert
		FROM materials
		WHERE mat_id = ANY($1::bigint[])
		ORDER BY mat_id
		FOR UPDATE
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StockLine
	for rows.Next() {
		var l StockLine
		if err := rows.Scan(&l.MaterialID, &l.Name, &l.Stock, &l.Alert); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// SetStock writes all new stock values in one statement.
func (r *Repo) SetStock(ctx context.Context, changes []Change) error {
	if len(changes) == 0 {
		return nil
	}
	ids := make([]int64, len(changes))
	stock := make([]int64, len(changes))
	for i, c := range changes {
		ids[i] = c.MaterialID
		stock[i] = c.After
	}
	_, err := r.q.Exec(ctx, `
		UPDATE materials m
		SET mat_inv = s.inv
		FROM unnest($1::bigint[], $2::bigint[]) AS s(id, inv)
		WHERE m.mat_id = s.id
	`, ids, stock)
	return err
}

func (r *Repo) LogMovements(ctx context.Context, variationID *int64, reason Reason, changes []Change) error {
	if len(changes) == 0 {
		return nil
	}
	ids := make([]int64, len(changes))
	delta := make([]int64, len(changes))
	before := make([]int64, len(changes))
	after := make([]int64, len(changes))
	for i, c := range changes {
		ids[i] = c.MaterialID
		delta[i] = c.Delta()
		before[i] = c.Before
		after[i] = c.After
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_movements (mat_id, var_id, qty_change, qty_before, qty_after, reason)
		SELECT s.id, $5::bigint, s.delta, s.before, s.after, $6::text
		FROM unnest($1::bigint[], $2::bigint[], $3::bigint[], $4::bigint[]) AS s(id, delta, before, after)
	`, ids, delta, before, after, variationID, string(reason))
	return err
}

// ListMovements returns the newest movements of a material first.
func (r *Repo) ListMovements(ctx context.Context, materialID int64, limit int) ([]Movement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT mov_id, mat_id, var_id, qty_change, qty_before, qty_after, reason, created_at
		FROM inventory_movements
		WHERE mat_id = $1
		ORDER BY created_at DESC, mov_id DESC
		LIMIT $2
	`, materialID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Movement{}
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.ID, &m.MaterialID, &m.VariationID, &m.Change, &m.Before, &m.After, &m.Reason, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
