package brands

import (
	"strings"

	"github.com/frostedfabrics/inventory-api/internal/apperr"
	"github.com/frostedfabrics/inventory-api/internal/domain/field"
	"github.com/shopspring/decimal"
)

// Brand is a supplier line within a material category.
type Brand struct {
	ID         int64           `json:"brand_id"`
	CategoryID int64           `json:"mc_id"`
	Name       string          `json:"brand_name"`
	Price      decimal.Decimal `json:"brand_price"`
	ImgID      *string         `json:"img_id"`
}

type Patch struct {
	CategoryID *int64             `json:"mc_id"`
	Name       *string            `json:"brand_name"`
	Price      *decimal.Decimal   `json:"brand_price"`
	ImgID      field.Null[string] `json:"img_id"`
}

func (p *Patch) Complete() error {
	var missing []string
	if p.CategoryID == nil {
		missing = append(missing, "mc_id")
	}
	if p.Name == nil || strings.TrimSpace(*p.Name) == "" {
		missing = append(missing, "brand_name")
	}
	if p.Price == nil {
		missing = append(missing, "brand_price")
	}
	if len(missing) > 0 {
		return apperr.Invalidf("Missing required fields", "%s", strings.Join(missing, ", "))
	}
	if !p.ImgID.Set {
		p.ImgID = field.Cleared[string]()
	}
	return p.Check()
}

func (p *Patch) Check() error {
	if p.Price != nil && p.Price.IsNegative() {
		return apperr.Invalidf("Invalid field value", "brand_price must not be negative")
	}
	return nil
}
