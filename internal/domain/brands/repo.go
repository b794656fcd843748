package brands

import (
	"context"
	"errors"

	"github.com/frostedfabrics/inventory-api/internal/apperr"
	"github.com/frostedfabrics/inventory-api/internal/infra/db"
	"github.com/jackc/pgx/v5"
)

type Repo struct{ q db.DBTX }

func NewRepo(q db.DBTX) *Repo { return &Repo{q: q} }

const cols = `brand_id, mc_id, brand_name, brand_price, img_id`

func scan(row pgx.Row) (*Brand, error) {
	var b Brand
	if err := row.Scan(&b.ID, &b.CategoryID, &b.Name, &b.Price, &b.ImgID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// List returns all brands, or the brands of one material category.
func (r *Repo) List(ctx context.Context, categoryID *int64) ([]Brand, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+cols+`
		FROM material_brands
		WHERE ($1::bigint IS NULL OR mc_id = $1)
		ORDER BY brand_name, brand_id
	`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Brand{}
	for rows.Next() {
		var b Brand
		if err := rows.Scan(&b.ID, &b.CategoryID, &b.Name, &b.Price, &b.ImgID); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Brand, error) {
	return scan(r.q.QueryRow(ctx, `SELECT `+cols+` FROM material_brands WHERE brand_id = $1`, id))
}

func (r *Repo) Create(ctx context.Context, p Patch) (*Brand, error) {
	b, err := scan(r.q.QueryRow(ctx, `
		INSERT INTO material_brands (mc_id, brand_name, brand_price, img_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+cols, *p.CategoryID, *p.Name, *p.Price, p.ImgID.Ptr()))
	return b, invalidCategory(err)
}

// Update returns nil when the brand does not exist.
func (r *Repo) Update(ctx context.Context, id int64, p Patch) (*Brand, error) {
	b, err := scan(r.q.QueryRow(ctx, `
		UPDATE material_brands SET
			mc_id       = COALESCE($2, mc_id),
			brand_name  = COALESCE($3, brand_name),
			brand_price = COALESCE($4::numeric, brand_price),
			img_id      = CASE WHEN $5::boolean THEN $6 ELSE img_id END
		WHERE brand_id = $1
		RETURNING `+cols, id, p.CategoryID, p.Name, p.Price, p.ImgID.Set, p.ImgID.Ptr()))
	return b, invalidCategory(err)
}

func invalidCategory(err error) error {
	if db.IsForeignKeyViolation(err) {
		return apperr.Invalid("Invalid material category ID")
	}
	return err
}
