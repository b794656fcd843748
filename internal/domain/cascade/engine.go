// Package cascade deletes a parent row together with everything that
// references it, children first, inside one transaction.
package cascade

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frostedfabrics/inventory-api/internal/apperr"
	"github.com/frostedfabrics/inventory-api/internal/infra/db"
)

type step struct {
	table string
	sql   string
}

// plan lists deletes in execution order. The last step removes the named
// row itself.
type plan []step

var (
	variationPlan = plan{
		{"variation_materials", `DELETE FROM variation_materials WHERE var_id = $1`},
		{"product_variations", `DELETE FROM product_variations WHERE var_id = $1`},
	}

	productPlan = plan{
		{"variation_materials", `
			DELETE FROM variation_materials
			WHERE var_id IN (SELECT var_id FROM product_variations WHERE prod_id = $1)`},
		{"product_variations", `DELETE FROM product_variations WHERE prod_id = $1`},
		{"products", `DELETE FROM products WHERE prod_id = $1`},
	}

	productCategoryPlan = plan{
		{"variation_materials", `
			DELETE FROM variation_materials
			WHERE var_id IN (
				SELECT v.var_id
				FROM product_variations v
				JOIN products p ON p.prod_id = v.prod_id
				WHERE p.pc_id = $1
			)`},
		{"product_variations", `
			DELETE FROM product_variations
			WHERE prod_id IN (SELECT prod_id FROM products WHERE pc_id = $1)`},
		{"products", `DELETE FROM products WHERE pc_id = $1`},
		{"product_categories", `DELETE FROM product_categories WHERE pc_id = $1`},
	}

	materialPlan = plan{
		{"variation_materials", `DELETE FROM variation_materials WHERE mat_id = $1`},
		{"inventory_movements", `DELETE FROM inventory_movements WHERE mat_id = $1`},
		{"materials", `DELETE FROM materials WHERE mat_id = $1`},
	}

	materialBrandPlan = plan{
		{"variation_materials", `
			DELETE FROM variation_materials
			WHERE mat_id IN (SELECT mat_id FROM materials WHERE brand_id = $1)`},
		{"inventory_movements", `
			DELETE FROM inventory_movements
			WHERE mat_id IN (SELECT mat_id FROM materials WHERE brand_id = $1)`},
		{"materials", `DELETE FROM materials WHERE brand_id = $1`},
		{"material_brands", `DELETE FROM material_brands WHERE brand_id = $1`},
	}

	materialCategoryPlan = plan{
		{"variation_materials", `
			DELETE FROM variation_materials
			WHERE mat_id IN (
				SELECT m.mat_id
				FROM materials m
				JOIN material_brands b ON b.brand_id = m.brand_id
				WHERE b.mc_id = $1
			)`},
		{"inventory_movements", `
			DELETE FROM inventory_movements
			WHERE mat_id IN (
				SELECT m.mat_id
				FROM materials m
				JOIN material_brands b ON b.brand_id = m.brand_id
				WHERE b.mc_id = $1
			)`},
		{"materials", `
			DELETE FROM materials
			WHERE brand_id IN (SELECT brand_id FROM material_brands WHERE mc_id = $1)`},
		{"material_brands", `DELETE FROM material_brands WHERE mc_id = $1`},
		{"material_categories", `DELETE FROM material_categories WHERE mc_id = $1`},
	}

	calendarCategoryPlan = plan{
		{"calendar_events", `DELETE FROM calendar_events WHERE cc_id = $1`},
		{"calendar_categories", `DELETE FROM calendar_categories WHERE cc_id = $1`},
	}
)

// Result counts removed rows per table.
type Result map[string]int64

type Engine struct {
	tx  db.TxRunner
	log *slog.Logger
}

func NewEngine(tx db.TxRunner, log *slog.Logger) *Engine {
	return &Engine{tx: tx, log: log}
}

func (e *Engine) DeleteVariation(ctx context.Context, id int64) (Result, error) {
	return e.run(ctx, variationPlan, id)
}

func (e *Engine) DeleteProduct(ctx context.Context, id int64) (Result, error) {
	return e.run(ctx, productPlan, id)
}

func (e *Engine) DeleteProductCategory(ctx context.Context, id int64) (Result, error) {
	return e.run(ctx, productCategoryPlan, id)
}

func (e *Engine) DeleteMaterial(ctx context.Context, id int64) (Result, error) {
	return e.run(ctx, materialPlan, id)
}

func (e *Engine) DeleteMaterialBrand(ctx context.Context, id int64) (Result, error) {
	return e.run(ctx, materialBrandPlan, id)
}

func (e *Engine) DeleteMaterialCategory(ctx context.Context, id int64) (Result, error) {
	return e.run(ctx, materialCategoryPlan, id)
}

func (e *Engine) DeleteCalendarCategory(ctx context.Context, id int64) (Result, error) {
	return e.run(ctx, calendarCategoryPlan, id)
}

func (e *Engine) run(ctx context.Context, p plan, id int64) (Result, error) {
	target := p[len(p)-1].table
	var res Result

	err := e.tx.WithTx(ctx, func(q db.DBTX) error {
		res = make(Result, len(p))
		for i, s := range p {
			tag, err := q.Exec(ctx, s.sql, id)
			if err != nil {
				return fmt.Errorf("delete from %s: %w", s.table, err)
			}
			res[s.table] += tag.RowsAffected()
			if i == len(p)-1 && tag.RowsAffected() == 0 {
				return apperr.ErrNotFound
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("cascade delete", "table", target, "id", id, "removed", map[string]int64(res))
	return res, nil
}
