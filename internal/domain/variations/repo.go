package variations

import (
	"context"
	"errors"

	"github.com/frostedfabrics/inventory-api/internal/apperr"
	"github.com/frostedfabrics/inventory-api/internal/infra/db"
	"github.com/jackc/pgx/v5"
)

type Repo struct{ q db.DBTX }

func NewRepo(q db.DBTX) *Repo { return &Repo{q: q} }

const cols = `var_id, prod_id, var_name, var_inv, var_goal, img_id`

func scan(row pgx.Row) (*Variation, error) {
	var v Variation
	if err := row.Scan(&v.ID, &v.ProductID, &v.Name, &v.Inventory, &v.Goal, &v.ImgID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

// Create expects an Update that passed Complete.
func (r *Repo) Create(ctx context.Context, u Update) (*Variation, error) {
	v, err := scan(r.q.QueryRow(ctx, `
		INSERT INTO product_variations (prod_id, var_name, var_inv, var_goal, img_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+cols, *u.ProductID, *u.Name, *u.Inventory, *u.Goal, u.ImgID.Ptr()))
	if db.IsForeignKeyViolation(err) {
		return nil, apperr.Invalid("Invalid product ID")
	}
	return v, err
}

// LockInventory reads var_inv and holds the row lock until the surrounding
// transaction ends. ok is false when the variation does not exist.
func (r *Repo) LockInventory(ctx context.Context, id int64) (inv int64, ok bool, err error) {
	err = r.q.QueryRow(ctx, `SELECT var_inv FROM product_variations WHERE var_id = $1 FOR UPDATE`, id).Scan(&inv)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return inv, true, nil
}

// Apply writes the fields present in u. It returns nil when the variation
// does not exist.
func (r *Repo) Apply(ctx context.Context, id int64, u Update) (*Variation, error) {
	return scan(r.q.QueryRow(ctx, `
		UPDATE product_variations SET
			prod_id  = COALESCE($2, prod_id),
			var_name = COALESCE($3, var_name),
			var_inv  = COALESCE($4, var_inv),
			var_goal = COALESCE($5, var_goal),
			img_id   = CASE WHEN $6::boolean THEN $7::text ELSE img_id END
		WHERE var_id = $1
		RETURNING `+cols, id, u.ProductID, u.Name, u.Inventory, u.Goal, u.ImgID.Set, u.ImgID.Ptr()))
}

// ListBelowGoal returns variations with var_inv < var_goal, largest gap first.
func (r *Repo) ListBelowGoal(ctx context.Context) ([]Shortfall, error) {
	rows, err := r.q.Query(ctx, `
		SELECT v.var_id, v.prod_id, v.var_name, v.var_inv, v.var_goal, v.img_id, COALESCE(p.prod_name, '')
		FROM product_variations v
		LEFT JOIN products p ON p.prod_id = v.prod_id
		WHERE v.var_inv < v.var_goal
		ORDER BY v.var_goal - v.var_inv DESC, v.var_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Shortfall{}
	for rows.Next() {
		var s Shortfall
		if err := rows.Scan(&s.ID, &s.ProductID, &s.Name, &s.Inventory, &s.Goal, &s.ImgID, &s.ProductName); err != nil {
			return nil, err
		}
		s.Missing = s.Goal - s.Inventory
		out = append(out, s)
	}
	return out, rows.Err()
}
