package catalog

import (
	"context"
	"errors"

	"github.com/frostedfabrics/inventory-api/internal/apperr"
	"github.com/frostedfabrics/inventory-api/internal/infra/db"
	"github.com/jackc/pgx/v5"
)

type Repo struct{ q db.DBTX }

func NewRepo(q db.DBTX) *Repo { return &Repo{q: q} }

/* Product categories */

const categoryCols = `pc_id, pc_name, img_id`

func scanCategory(row pgx.Row) (*ProductCategory, error) {
	var c ProductCategory
	if err := row.Scan(&c.ID, &c.Name, &c.ImgID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) ListCategories(ctx context.Context) ([]ProductCategory, error) {
	rows, err := r.q.Query(ctx, `SELECT `+categoryCols+` FROM product_categories ORDER BY pc_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ProductCategory{}
	for rows.Next() {
		var c ProductCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.ImgID); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) GetCategory(ctx context.Context, id int64) (*ProductCategory, error) {
	return scanCategory(r.q.QueryRow(ctx, `SELECT `+categoryCols+` FROM product_categories WHERE pc_id = $1`, id))
}

func (r *Repo) CreateCategory(ctx context.Context, p CategoryPatch) (*ProductCategory, error) {
	return scanCategory(r.q.QueryRow(ctx, `
		INSERT INTO product_categories (pc_name, img_id)
		VALUES ($1, $2)
		RETURNING `+categoryCols, *p.Name, p.ImgID.Ptr()))
}

// UpdateCategory returns nil when the category does not exist.
func (r *Repo) UpdateCategory(ctx context.Context, id int64, p CategoryPatch) (*ProductCategory, error) {
	return scanCategory(r.q.QueryRow(ctx, `
		UPDATE product_categories SET
			pc_name = COALESCE($2, pc_name),
			img_id  = CASE WHEN $3::boolean THEN $4 ELSE img_id END
		WHERE pc_id = $1
		RETURNING `+categoryCols, id, p.Name, p.ImgID.Set, p.ImgID.Ptr()))
}

/* Products */

const productCols = `prod_id, pc_id, prod_name, prod_cost, prod_msrp, prod_time, img_id`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	if err := row.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Cost, &p.MSRP, &p.Time, &p.ImgID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// ListProducts returns every product, or only those of categoryID when set.
func (r *Repo) ListProducts(ctx context.Context, categoryID *int64) ([]Product, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+productCols+`
		FROM products
		WHERE ($1::bigint IS NULL OR pc_id = $1)
		ORDER BY prod_id
	`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Cost, &p.MSRP, &p.Time, &p.ImgID); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetProduct(ctx context.Context, id int64) (*Product, error) {
	return scanProduct(r.q.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE prod_id = $1`, id))
}

func (r *Repo) ProductExists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE prod_id = $1)`, id).Scan(&ok)
	return ok, err
}

func (r *Repo) CreateProduct(ctx context.Context, p ProductPatch) (*Product, error) {
	out, err := scanProduct(r.q.QueryRow(ctx, `
		INSERT INTO products (pc_id, prod_name, prod_cost, prod_msrp, prod_time, img_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+productCols, *p.CategoryID, *p.Name, *p.Cost, *p.MSRP, *p.Time, p.ImgID.Ptr()))
	return out, invalidCategory(err)
}

// UpdateProduct returns nil when the product does not exist.
func (r *Repo) UpdateProduct(ctx context.Context, id int64, p ProductPatch) (*Product, error) {
	out, err := scanProduct(r.q.QueryRow(ctx, `
		UPDATE products SET
			pc_id     = COALESCE($2, pc_id),
			prod_name = COALESCE($3, prod_name),
			prod_cost = COALESCE($4::numeric, prod_cost),
			prod_msrp = COALESCE($5::numeric, prod_msrp),
			prod_time = COALESCE($6, prod_time),
			img_id    = CASE WHEN $7::boolean THEN $8 ELSE img_id END
		WHERE prod_id = $1
		RETURNING `+productCols, id, p.CategoryID, p.Name, p.Cost, p.MSRP, p.Time, p.ImgID.Set, p.ImgID.Ptr()))
	return out, invalidCategory(err)
}

func invalidCategory(err error) error {
	if db.IsForeignKeyViolation(err) {
		return apperr.Invalid("Invalid product category ID")
	}
	return err
}
