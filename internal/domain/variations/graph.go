package variations

import "context"

// GraphRow is one row of the flat variation/material join. Material columns
// are nil when the variation has no bill of materials.
type GraphRow struct {
	Variation
	MaterialID   *int64
	MaterialName *string
	SKU          *string
	Stock        *int64
	Amount       *int64
	BrandName    *string
	CategoryName *string
	Unit         *string
}

const graphQuery = `
	SELECT v.var_id, v.prod_id, v.var_name, v.var_inv, v.var_goal, v.img_id,
	       m.mat_id, m.mat_name, m.mat_sku, m.mat_inv, vm.mat_amount,
	       b.brand_name, c.mc_name, ms.meas_unit
	FROM product_variations v
	LEFT JOIN variation_materials vm ON vm.var_id = v.var_id
	LEFT JOIN materials m            ON m.mat_id = vm.mat_id
	LEFT JOIN material_brands b      ON b.brand_id = m.brand_id
	LEFT JOIN material_categories c  ON c.mc_id = b.mc_id
	LEFT JOIN measurements ms        ON ms.meas_id = c.meas_id
	WHERE ($1::bigint IS NULL OR v.var_id = $1)
	  AND ($2::bigint IS NULL OR v.prod_id = $2)
	ORDER BY v.var_id, m.mat_id`

func (r *Repo) graphRows(ctx context.Context, variationID, productID *int64) ([]GraphRow, error) {
	rows, err := r.q.Query(ctx, graphQuery, variationID, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GraphRow
	for rows.Next() {
		var g GraphRow
		if err := rows.Scan(
			&g.ID, &g.ProductID, &g.Name, &g.Inventory, &g.Goal, &g.ImgID,
			&g.MaterialID, &g.MaterialName, &g.SKU, &g.Stock, &g.Amount,
			&g.BrandName, &g.CategoryName, &g.Unit,
		); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetWithMaterials returns nil when the variation does not exist.
func (r *Repo) GetWithMaterials(ctx context.Context, id int64) (*Graph, error) {
	rows, err := r.graphRows(ctx, &id, nil)
	if err != nil {
		return nil, err
	}
	graphs := Assemble(rows)
	if len(graphs) == 0 {
		return nil, nil
	}
	return &graphs[0], nil
}

// ListWithMaterials returns every variation, or those of one product.
func (r *Repo) ListWithMaterials(ctx context.Context, productID *int64) ([]Graph, error) {
	rows, err := r.graphRows(ctx, nil, productID)
	if err != nil {
		return nil, err
	}
	return Assemble(rows), nil
}

// Assemble groups flat rows by variation, keeping first-seen order, and
// drops the all-null material columns produced by the outer join.
func Assemble(rows []GraphRow) []Graph {
	out := []Graph{}
	index := make(map[int64]int)
	for _, row := range rows {
		i, ok := index[row.ID]
		if !ok {
			i = len(out)
			index[row.ID] = i
			out = append(out, Graph{Variation: row.Variation, Materials: []MaterialLine{}})
		}
		if row.MaterialID == nil {
			continue
		}
		out[i].Materials = append(out[i].Materials, MaterialLine{
			ID:           *row.MaterialID,
			Name:         deref(row.MaterialName),
			SKU:          deref(row.SKU),
			Stock:        deref(row.Stock),
			Amount:       deref(row.Amount),
			BrandName:    deref(row.BrandName),
			CategoryName: deref(row.CategoryName),
			Unit:         deref(row.Unit),
		})
	}
	return out
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
