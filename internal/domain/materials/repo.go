package materials

import (
	"context"
	"errors"

	"github.com/frostedfabrics/inventory-api/internal/apperr"
	"github.com/frostedfabrics/inventory-api/internal/infra/db"
	"github.com/jackc/pgx/v5"
)

type Repo struct{ q db.DBTX }

func NewRepo(q db.DBTX) *Repo { return &Repo{q: q} }

// materialSelect reads from a CTE named m so the same projection serves
// plain reads and INSERT/UPDATE ... RETURNING.
const materialSelect = `
	SELECT m.mat_id, m.brand_id, m.mat_name, m.mat_sku, m.mat_inv, m.mat_alert, m.img_id,
	       COALESCE(b.brand_name, ''), COALESCE(c.mc_id, 0), COALESCE(c.mc_name, ''),
	       COALESCE(ms.meas_id, 0), COALESCE(ms.meas_unit, '')
	FROM m
	LEFT JOIN material_brands b      ON b.brand_id = m.brand_id
	LEFT JOIN material_categories c  ON c.mc_id = b.mc_id
	LEFT JOIN measurements ms        ON ms.meas_id = c.meas_id`

func scanInto(row pgx.Row, m *Material) error {
	return row.Scan(
		&m.ID,
		&m.BrandID,
		&m.Name,
		&m.SKU,
		&m.Stock,
		&m.Alert,
		&m.ImgID,
		&m.BrandName,
		&m.CategoryID,
		&m.CategoryName,
		&m.MeasurementID,
		&m.Unit,
	)
}

func scanOne(row pgx.Row) (*Material, error) {
	var m Material
	if err := scanInto(row, &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *Repo) List(ctx context.Context, f ListFilter) ([]Material, error) {
	rows, err := r.q.Query(ctx, `WITH m AS (SELECT * FROM materials)`+materialSelect+`
		WHERE ($1::text IS NULL OR c.mc_name = $1)
		  AND ($2::bigint IS NULL OR m.brand_id = $2)
		  AND (NOT $3::boolean OR m.mat_inv < m.mat_alert)
		ORDER BY c.mc_name, b.brand_name, m.mat_name, m.mat_id
	`, f.CategoryName, f.BrandID, f.LowStock)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Material{}
	for rows.Next() {
		var m Material
		if err := scanInto(rows, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Material, error) {
	return scanOne(r.q.QueryRow(ctx, `WITH m AS (SELECT * FROM materials WHERE mat_id = $1)`+materialSelect, id))
}

func (r *Repo) Create(ctx context.Context, p Patch) (*Material, error) {
	m, err := scanOne(r.q.QueryRow(ctx, `
		WITH m AS (
			INSERT INTO materials (brand_id, mat_name, mat_sku, mat_inv, mat_alert, img_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING *
		)`+materialSelect, *p.BrandID, *p.Name, *p.SKU, *p.Stock, *p.Alert, p.ImgID.Ptr()))
	return m, invalidBrand(err)
}

// Update returns nil when the material does not exist. Setting mat_inv here
// is a manual stock correction and never touches any variation.
func (r *Repo) Update(ctx context.Context, id int64, p Patch) (*Material, error) {
	m, err := scanOne(r.q.QueryRow(ctx, `
		WITH m AS (
			UPDATE materials SET
				brand_id  = COALESCE($2, brand_id),
				mat_name  = COALESCE($3, mat_name),
				mat_sku   = COALESCE($4, mat_sku),
				mat_inv   = COALESCE($5, mat_inv),
				mat_alert = COALESCE($6, mat_alert),
				img_id    = CASE WHEN $7::boolean THEN $8 ELSE img_id END
			WHERE mat_id = $1
			RETURNING *
		)`+materialSelect, id, p.BrandID, p.Name, p.SKU, p.Stock, p.Alert, p.ImgID.Set, p.ImgID.Ptr()))
	return m, invalidBrand(err)
}

func invalidBrand(err error) error {
	if db.IsForeignKeyViolation(err) {
		return apperr.Invalid("Invalid material brand ID")
	}
	return err
}
