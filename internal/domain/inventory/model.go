package inventory

import "time"

type Reason string

const (
	ReasonProduction Reason = "production" // var_inv raised, materials consumed
	ReasonImport     Reason = "import"     // absolute count from a stock sheet
)

// Movement is one audited change of a material's stock.
type Movement struct {
	ID          int64     `json:"mov_id"`
	MaterialID  int64     `json:"mat_id"`
	VariationID *int64    `json:"var_id"`
	Change      int64     `json:"qty_change"`
	Before      int64     `json:"qty_before"`
	After       int64     `json:"qty_after"`
	Reason      Reason    `json:"reason"`
	CreatedAt   time.Time `json:"created_at"`
}

// StockLine is a material row as seen while its lock is held. Amount is the
// per-unit consumption when read through a bill of materials.
type StockLine struct {
	MaterialID int64
	Name       string
	Amount     int64
	Stock      int64
	Alert      int64
}

// Change is a planned stock write.
type Change struct {
	MaterialID int64
	Name       string
	Before     int64
	After      int64
	Alert      int64
}

func (c Change) Delta() int64 { return c.After - c.Before }

// LowStock is reported to the notifier after a commit.
type LowStock struct {
	MaterialID int64
	Name       string
	Stock      int64
	Alert      int64
}

// StockCount is one row of an imported stock sheet.
type StockCount struct {
	MaterialID int64
	Stock      int64
}

func lowStock(changes []Change) []LowStock {
	var out []LowStock
	for _, c := range changes {
		if c.After < c.Alert {
			out = append(out, LowStock{MaterialID: c.MaterialID, Name: c.Name, Stock: c.After, Alert: c.Alert})
		}
	}
	return out
}
