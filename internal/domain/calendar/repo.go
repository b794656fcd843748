package calendar

import (
	"context"
	"errors"

	"github.com/frostedfabrics/inventory-api/internal/apperr"
	"github.com/frostedfabrics/inventory-api/internal/infra/db"
	"github.com/jackc/pgx/v5"
)

type Repo struct{ q db.DBTX }

func NewRepo(q db.DBTX) *Repo { return &Repo{q: q} }

/* Categories */

func scanCategory(row pgx.Row) (*Category, error) {
	var c Category
	if err := row.Scan(&c.ID, &c.Name, &c.Color); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.q.Query(ctx, `SELECT cc_id, cc_name, cc_color FROM calendar_categories ORDER BY cc_name, cc_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) GetCategory(ctx context.Context, id int64) (*Category, error) {
	return scanCategory(r.q.QueryRow(ctx, `SELECT cc_id, cc_name, cc_color FROM calendar_categories WHERE cc_id = $1`, id))
}

func (r *Repo) CreateCategory(ctx context.Context, p CategoryPatch) (*Category, error) {
	return scanCategory(r.q.QueryRow(ctx, `
		INSERT INTO calendar_categories (cc_name, cc_color) VALUES ($1, $2)
		RETURNING cc_id, cc_name, cc_color
	`, *p.Name, *p.Color))
}

func (r *Repo) UpdateCategory(ctx context.Context, id int64, p CategoryPatch) (*Category, error) {
	return scanCategory(r.q.QueryRow(ctx, `
		UPDATE calendar_categories SET
			cc_name  = COALESCE($2, cc_name),
			cc_color = COALESCE($3, cc_color)
		WHERE cc_id = $1
		RETURNING cc_id, cc_name, cc_color
	`, id, p.Name, p.Color))
}

/* Events */

const eventCols = `event_id, cc_id, event_title, event_start, event_end, event_notes`

func scanEvent(row pgx.Row) (*Event, error) {
	var e Event
	if err := row.Scan(&e.ID, &e.CategoryID, &e.Title, &e.Start, &e.End, &e.Notes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// ListEvents returns events overlapping [From, To] in start order.
func (r *Repo) ListEvents(ctx context.Context, f EventFilter) ([]Event, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+eventCols+`
		FROM calendar_events
		WHERE ($1::bigint IS NULL OR cc_id = $1)
		  AND ($2::timestamptz IS NULL OR COALESCE(event_end, event_start) >= $2)
		  AND ($3::timestamptz IS NULL OR event_start <= $3)
		ORDER BY event_start, event_id
	`, f.CategoryID, f.From, f.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.CategoryID, &e.Title, &e.Start, &e.End, &e.Notes); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) GetEvent(ctx context.Context, id int64) (*Event, error) {
	return scanEvent(r.q.QueryRow(ctx, `SELECT `+eventCols+` FROM calendar_events WHERE event_id = $1`, id))
}

func (r *Repo) CreateEvent(ctx context.Context, p EventPatch) (*Event, error) {
	e, err := scanEvent(r.q.QueryRow(ctx, `
		INSERT INTO calendar_events (cc_id, event_title, event_start, event_end, event_notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+eventCols, p.CategoryID.Ptr(), *p.Title, *p.Start, p.End.Ptr(), p.Notes.Ptr()))
	return e, invalidEvent(err)
}

// UpdateEvent returns nil when the event does not exist.
func (r *Repo) UpdateEvent(ctx context.Context, id int64, p EventPatch) (*Event, error) {
	e, err := scanEvent(r.q.QueryRow(ctx, `
		UPDATE calendar_events SET
			cc_id       = CASE WHEN $2::boolean THEN $3::bigint ELSE cc_id END,
			event_title = COALESCE($4, event_title),
			event_start = COALESCE($5, event_start),
			event_end   = CASE WHEN $6::boolean THEN $7::timestamptz ELSE event_end END,
			event_notes = CASE WHEN $8::boolean THEN $9::text ELSE event_notes END
		WHERE event_id = $1
		RETURNING `+eventCols,
		id, p.CategoryID.Set, p.CategoryID.Ptr(), p.Title, p.Start,
		p.End.Set, p.End.Ptr(), p.Notes.Set, p.Notes.Ptr()))
	return e, invalidEvent(err)
}

func (r *Repo) DeleteEvent(ctx context.Context, id int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM calendar_events WHERE event_id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func invalidEvent(err error) error {
	switch {
	case db.IsForeignKeyViolation(err):
		return apperr.Invalid("Invalid calendar category ID")
	case db.IsCheckViolation(err):
		return apperr.Invalidf("Invalid field value", "event_end is before event_start")
	}
	return err
}
