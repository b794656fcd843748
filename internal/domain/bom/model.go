// Package bom stores bill-of-materials lines: how much of one material a
// single unit of a variation consumes.
package bom

import (
	"strings"

	"github.com/frostedfabrics/inventory-api/internal/apperr"
)

type Line struct {
	VariationID int64 `json:"var_id"`
	MaterialID  int64 `json:"mat_id"`
	Amount      int64 `json:"mat_amount"`
}

type Input struct {
	VariationID *int64 `json:"var_id"`
	MaterialID  *int64 `json:"mat_id"`
	Amount      *int64 `json:"mat_amount"`
}

func (in Input) Validate() error {
	var missing []string
	if in.VariationID == nil {
		missing = append(missing, "var_id")
	}
	if in.MaterialID == nil {
		missing = append(missing, "mat_id")
	}
	if in.Amount == nil {
		missing = append(missing, "mat_amount")
	}
	if len(missing) > 0 {
		return apperr.Invalidf("Missing required fields", "%s", strings.Join(missing, ", "))
	}
	return checkAmount(*in.Amount)
}

// AmountInput is the body of PUT and PATCH on an existing line; the amount
// is the only updatable field, so both require it.
type AmountInput struct {
	Amount *int64 `json:"mat_amount"`
}

func (in AmountInput) Validate() error {
	if in.Amount == nil {
		return apperr.Invalidf("Missing required fields", "mat_amount")
	}
	return checkAmount(*in.Amount)
}

func checkAmount(v int64) error {
	if v < 0 {
		return apperr.Invalidf("Invalid field value", "mat_amount must not be negative")
	}
	return nil
}
