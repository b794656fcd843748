package bom

import (
	"context"
	"errors"

	"github.com/frostedfabrics/inventory-api/internal/apperr"
	"github.com/frostedfabrics/inventory-api/internal/infra/db"
	"github.com/jackc/pgx/v5"
)

type Repo struct{ q db.DBTX }

func NewRepo(q db.DBTX) *Repo { return &Repo{q: q} }

func scan(row pgx.Row) (*Line, error) {
	var l Line
	if err := row.Scan(&l.VariationID, &l.MaterialID, &l.Amount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *Repo) List(ctx context.Context, variationID *int64) ([]Line, error) {
	rows, err := r.q.Query(ctx, `
		SELECT var_id, mat_id, mat_amount
		FROM variation_materials
		WHERE ($1::bigint IS NULL OR var_id = $1)
		ORDER BY var_id, mat_id
	`, variationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Line{}
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.VariationID, &l.MaterialID, &l.Amount); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, variationID, materialID int64) (*Line, error) {
	return scan(r.q.QueryRow(ctx, `
		SELECT var_id, mat_id, mat_amount
		FROM variation_materials
		WHERE var_id = $1 AND mat_id = $2
	`, variationID, materialID))
}

// Upsert inserts the line or overwrites the amount of an existing pair.
func (r *Repo) Upsert(ctx context.Context, in Input) (*Line, error) {
	l, err := scan(r.q.QueryRow(ctx, `
		INSERT INTO variation_materials (var_id, mat_id, mat_amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (var_id, mat_id) DO UPDATE SET mat_amount = EXCLUDED.mat_amount
		RETURNING var_id, mat_id, mat_amount
	`, *in.VariationID, *in.MaterialID, *in.Amount))
	if db.IsForeignKeyViolation(err) {
		return nil, apperr.Invalid("Invalid variation or material ID")
	}
	return l, err
}

// UpdateAmount returns nil when the line does not exist.
func (r *Repo) UpdateAmount(ctx context.Context, variationID, materialID, amount int64) (*Line, error) {
	return scan(r.q.QueryRow(ctx, `
		UPDATE variation_materials SET mat_amount = $3
		WHERE var_id = $1 AND mat_id = $2
		RETURNING var_id, mat_id, mat_amount
	`, variationID, materialID, amount))
}

// Delete reports whether a line was removed.
func (r *Repo) Delete(ctx context.Context, variationID, materialID int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM variation_materials WHERE var_id = $1 AND mat_id = $2`, variationID, materialID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
