package calendar

import (
	"strings"
	"time"

	"github.com/frostedfabrics/inventory-api/internal/apperr"
	"github.com/frostedfabrics/inventory-api/internal/domain/field"
)

type Category struct {
	ID    int64  `json:"cc_id"`
	Name  string `json:"cc_name"`
	Color string `json:"cc_color"`
}

type Event struct {
	ID         int64      `json:"event_id"`
	CategoryID *int64     `json:"cc_id"`
	Title      string     `json:"event_title"`
	Start      time.Time  `json:"event_start"`
	End        *time.Time `json:"event_end"`
	Notes      *string    `json:"event_notes"`
}

type CategoryPatch struct {
	Name  *string `json:"cc_name"`
	Color *string `json:"cc_color"`
}

func (p *CategoryPatch) Complete() error {
	if p.Name == nil || strings.TrimSpace(*p.Name) == "" {
		return apperr.Invalidf("Missing required fields", "cc_name")
	}
	if p.Color == nil {
		empty := ""
		p.Color = &empty
	}
	return nil
}

type EventPatch struct {
	CategoryID field.Null[int64]     `json:"cc_id"`
	Title      *string               `json:"event_title"`
	Start      *time.Time            `json:"event_start"`
	End        field.Null[time.Time] `json:"event_end"`
	Notes      field.Null[string]    `json:"event_notes"`
}

func (p *EventPatch) Complete() error {
	var missing []string
	if p.Title == nil || strings.TrimSpace(*p.Title) == "" {
		missing = append(missing, "event_title")
	}
	if p.Start == nil {
		missing = append(missing, "event_start")
	}
	if len(missing) > 0 {
		return apperr.Invalidf("Missing required fields", "%s", strings.Join(missing, ", "))
	}
	if !p.CategoryID.Set {
		p.CategoryID = field.Cleared[int64]()
	}
	if !p.End.Set {
		p.End = field.Cleared[time.Time]()
	}
	if !p.Notes.Set {
		p.Notes = field.Cleared[string]()
	}
	return p.Check()
}

// Check only sees the fields in the patch; an end before a stored start is
// rejected by the table's CHECK constraint.
func (p *EventPatch) Check() error {
	if p.Start != nil && p.End.Valid && p.End.V.Before(*p.Start) {
		return apperr.Invalidf("Invalid field value", "event_end is before event_start")
	}
	return nil
}

type EventFilter struct {
	CategoryID *int64
	From       *time.Time
	To         *time.Time
}
