package variations

import (
	"strings"

	"github.com/frostedfabrics/inventory-api/internal/apperr"
	"github.com/frostedfabrics/inventory-api/internal/domain/field"
)

type Variation struct {
	ID        int64   `json:"var_id"`
	ProductID int64   `json:"prod_id"`
	Name      string  `json:"var_name"`
	Inventory int64   `json:"var_inv"`
	Goal      int64   `json:"var_goal"`
	ImgID     *string `json:"img_id"`
}

// Update lists the fields a variation edit may touch. A nil pointer or an
// unset ImgID leaves the column as it is.
type Update struct {
	ProductID *int64             `json:"prod_id"`
	Name      *string            `json:"var_name"`
	Inventory *int64             `json:"var_inv"`
	Goal      *int64             `json:"var_goal"`
	ImgID     field.Null[string] `json:"img_id"`
}

// Complete is used for create and full replace: every required field must
// be present. An omitted img_id becomes null.
func (u *Update) Complete() error {
	var missing []string
	if u.ProductID == nil {
		missing = append(missing, "prod_id")
	}
	if u.Name == nil || strings.TrimSpace(*u.Name) == "" {
		missing = append(missing, "var_name")
	}
	if u.Inventory == nil {
		missing = append(missing, "var_inv")
	}
	if u.Goal == nil {
		missing = append(missing, "var_goal")
	}
	if len(missing) > 0 {
		return apperr.Invalidf("Missing required fields", "%s", strings.Join(missing, ", "))
	}
	if !u.ImgID.Set {
		u.ImgID = field.Cleared[string]()
	}
	return u.Check()
}

func (u *Update) Check() error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return apperr.Invalidf("Invalid field value", "var_name must not be empty")
	}
	if u.Inventory != nil && *u.Inventory < 0 {
		return apperr.Invalidf("Invalid field value", "var_inv must not be negative")
	}
	if u.Goal != nil && *u.Goal < 0 {
		return apperr.Invalidf("Invalid field value", "var_goal must not be negative")
	}
	return nil
}

func (u Update) Empty() bool {
	return u.ProductID == nil && u.Name == nil && u.Inventory == nil && u.Goal == nil && !u.ImgID.Set
}

// MaterialLine is one consumed material as shown inside a variation.
type MaterialLine struct {
	ID           int64  `json:"mat_id"`
	Name         string `json:"mat_name"`
	SKU          string `json:"mat_sku"`
	Stock        int64  `json:"mat_inv"`
	Amount       int64  `json:"mat_amount"`
	BrandName    string `json:"brand_name"`
	CategoryName string `json:"mc_name"`
	Unit         string `json:"meas_unit"`
}

// Graph is a variation with its bill of materials.
type Graph struct {
	Variation
	Materials []MaterialLine `json:"materials"`
}

// Shortfall is a variation whose inventory is below its goal.
type Shortfall struct {
	Variation
	ProductName string `json:"prod_name"`
	Missing     int64  `json:"missing"`
}
