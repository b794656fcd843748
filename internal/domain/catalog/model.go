package catalog

import (
	"strings"

	"github.com/frostedfabrics/inventory-api/internal/apperr"
	"github.com/frostedfabrics/inventory-api/internal/domain/field"
	"github.com/shopspring/decimal"
)

type ProductCategory struct {
	ID    int64   `json:"pc_id"`
	Name  string  `json:"pc_name"`
	ImgID *string `json:"img_id"`
}

type Product struct {
	ID         int64           `json:"prod_id"`
	CategoryID int64           `json:"pc_id"`
	Name       string          `json:"prod_name"`
	Cost       decimal.Decimal `json:"prod_cost"`
	MSRP       decimal.Decimal `json:"prod_msrp"`
	Time       int32           `json:"prod_time"`
	ImgID      *string         `json:"img_id"`
}

// CategoryPatch carries the updatable category fields; nil / unset means
// "leave unchanged".
type CategoryPatch struct {
	Name  *string            `json:"pc_name"`
	ImgID field.Null[string] `json:"img_id"`
}

// Complete checks that a create or full replace supplied every required
// field. An omitted img_id becomes null.
func (p *CategoryPatch) Complete() error {
	if p.Name == nil || strings.TrimSpace(*p.Name) == "" {
		return apperr.Invalidf("Missing required fields", "pc_name is required")
	}
	if !p.ImgID.Set {
		p.ImgID = field.Cleared[string]()
	}
	return nil
}

type ProductPatch struct {
	CategoryID *int64             `json:"pc_id"`
	Name       *string            `json:"prod_name"`
	Cost       *decimal.Decimal   `json:"prod_cost"`
	MSRP       *decimal.Decimal   `json:"prod_msrp"`
	Time       *int32             `json:"prod_time"`
	ImgID      field.Null[string] `json:"img_id"`
}

func (p *ProductPatch) Complete() error {
	var missing []string
	if p.CategoryID == nil {
		missing = append(missing, "pc_id")
	}
	if p.Name == nil || strings.TrimSpace(*p.Name) == "" {
		missing = append(missing, "prod_name")
	}
	if p.Cost == nil {
		missing = append(missing, "prod_cost")
	}
	if p.MSRP == nil {
		missing = append(missing, "prod_msrp")
	}
	if p.Time == nil {
		missing = append(missing, "prod_time")
	}
	if len(missing) > 0 {
		return apperr.Invalidf("Missing required fields", "%s", strings.Join(missing, ", "))
	}
	if !p.ImgID.Set {
		p.ImgID = field.Cleared[string]()
	}
	return p.Check()
}

// Check rejects values that are present but out of range.
func (p *ProductPatch) Check() error {
	if p.Cost != nil && p.Cost.IsNegative() {
		return apperr.Invalidf("Invalid field value", "prod_cost must not be negative")
	}
	if p.MSRP != nil && p.MSRP.IsNegative() {
		return apperr.Invalidf("Invalid field value", "prod_msrp must not be negative")
	}
	if p.Time != nil && *p.Time < 0 {
		return apperr.Invalidf("Invalid field value", "prod_time must not be negative")
	}
	return nil
}
