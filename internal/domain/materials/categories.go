package materials

import (
	"context"
	"errors"

	"github.com/frostedfabrics/inventory-api/internal/apperr"
	"github.com/frostedfabrics/inventory-api/internal/infra/db"
	"github.com/jackc/pgx/v5"
)

/* Measurements */

func (r *Repo) ListMeasurements(ctx context.Context) ([]Measurement, error) {
	rows, err := r.q.Query(ctx, `SELECT meas_id, meas_unit FROM measurements ORDER BY meas_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Measurement{}
	for rows.Next() {
		var m Measurement
		if err := rows.Scan(&m.ID, &m.Unit); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repo) GetMeasurement(ctx context.Context, id int64) (*Measurement, error) {
	var m Measurement
	err := r.q.QueryRow(ctx, `SELECT meas_id, meas_unit FROM measurements WHERE meas_id = $1`, id).Scan(&m.ID, &m.Unit)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repo) CreateMeasurement(ctx context.Context, in MeasurementInput) (*Measurement, error) {
	var m Measurement
	err := r.q.QueryRow(ctx, `
		INSERT INTO measurements (meas_unit) VALUES ($1)
		RETURNING meas_id, meas_unit
	`, *in.Unit).Scan(&m.ID, &m.Unit)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

/* Material categories */

const categorySelect = `
	SELECT c.mc_id, c.meas_id, c.mc_name, c.img_id, COALESCE(ms.meas_unit, '')
	FROM c
	LEFT JOIN measurements ms ON ms.meas_id = c.meas_id`

func scanCategory(row pgx.Row) (*Category, error) {
	var c Category
	if err := row.Scan(&c.ID, &c.MeasurementID, &c.Name, &c.ImgID, &c.Unit); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.q.Query(ctx, `WITH c AS (SELECT * FROM material_categories)`+categorySelect+` ORDER BY c.mc_name, c.mc_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.MeasurementID, &c.Name, &c.ImgID, &c.Unit); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) GetCategory(ctx context.Context, id int64) (*Category, error) {
	return scanCategory(r.q.QueryRow(ctx,
		`WITH c AS (SELECT * FROM material_categories WHERE mc_id = $1)`+categorySelect, id))
}

func (r *Repo) CreateCategory(ctx context.Context, p CategoryPatch) (*Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, `
		WITH c AS (
			INSERT INTO material_categories (meas_id, mc_name, img_id)
			VALUES ($1, $2, $3)
			RETURNING *
		)`+categorySelect, *p.MeasurementID, *p.Name, p.ImgID.Ptr()))
	return c, invalidMeasurement(err)
}

// UpdateCategory returns nil when the category does not exist.
func (r *Repo) UpdateCategory(ctx context.Context, id int64, p CategoryPatch) (*Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, `
		WITH c AS (
			UPDATE material_categories SET
				meas_id = COALESCE($2, meas_id),
				mc_name = COALESCE($3, mc_name),
				img_id  = CASE WHEN $4::boolean THEN $5 ELSE img_id END
			WHERE mc_id = $1
			RETURNING *
		)`+categorySelect, id, p.MeasurementID, p.Name, p.ImgID.Set, p.ImgID.Ptr()))
	return c, invalidMeasurement(err)
}

func invalidMeasurement(err error) error {
	if db.IsForeignKeyViolation(err) {
		return apperr.Invalid("Invalid measurement ID")
	}
	return err
}
