package materials

import (
	"strings"

	"github.com/frostedfabrics/inventory-api/internal/apperr"
	"github.com/frostedfabrics/inventory-api/internal/domain/field"
)

// DefaultUnit is reported for measurement ids that do not resolve.
const DefaultUnit = "units"

type Measurement struct {
	ID   int64  `json:"meas_id"`
	Unit string `json:"meas_unit"`
}

type Category struct {
	ID            int64   `json:"mc_id"`
	MeasurementID int64   `json:"meas_id"`
	Name          string  `json:"mc_name"`
	ImgID         *string `json:"img_id"`
	Unit          string  `json:"meas_unit"`
}

// Material is a stocked raw material together with the names of its brand,
// category and unit.
type Material struct {
	ID      int64   `json:"mat_id"`
	BrandID int64   `json:"brand_id"`
	Name    string  `json:"mat_name"`
	SKU     string  `json:"mat_sku"`
	Stock   int64   `json:"mat_inv"`
	Alert   int64   `json:"mat_alert"`
	ImgID   *string `json:"img_id"`

	BrandName     string `json:"brand_name"`
	CategoryID    int64  `json:"mc_id"`
	CategoryName  string `json:"mc_name"`
	MeasurementID int64  `json:"meas_id"`
	Unit          string `json:"meas_unit"`
}

func (m Material) BelowAlert() bool { return m.Stock < m.Alert }

type ListFilter struct {
	CategoryName *string
	BrandID      *int64
	LowStock     bool
}

type MeasurementInput struct {
	Unit *string `json:"meas_unit"`
}

func (in MeasurementInput) Complete() error {
	if in.Unit == nil || strings.TrimSpace(*in.Unit) == "" {
		return apperr.Invalidf("Missing required fields", "meas_unit is required")
	}
	return nil
}

type CategoryPatch struct {
	MeasurementID *int64             `json:"meas_id"`
	Name          *string            `json:"mc_name"`
	ImgID         field.Null[string] `json:"img_id"`
}

func (p *CategoryPatch) Complete() error {
	var missing []string
	if p.MeasurementID == nil {
		missing = append(missing, "meas_id")
	}
	if p.Name == nil || strings.TrimSpace(*p.Name) == "" {
		missing = append(missing, "mc_name")
	}
	if len(missing) > 0 {
		return apperr.Invalidf("Missing required fields", "%s", strings.Join(missing, ", "))
	}
	if !p.ImgID.Set {
		p.ImgID = field.Cleared[string]()
	}
	return nil
}

type Patch struct {
	BrandID *int64             `json:"brand_id"`
	Name    *string            `json:"mat_name"`
	SKU     *string            `json:"mat_sku"`
	Stock   *int64             `json:"mat_inv"`
	Alert   *int64             `json:"mat_alert"`
	ImgID   field.Null[string] `json:"img_id"`
}

func (p *Patch) Complete() error {
	var missing []string
	if p.BrandID == nil {
		missing = append(missing, "brand_id")
	}
	if p.Name == nil || strings.TrimSpace(*p.Name) == "" {
		missing = append(missing, "mat_name")
	}
	if p.Stock == nil {
		missing = append(missing, "mat_inv")
	}
	if p.Alert == nil {
		missing = append(missing, "mat_alert")
	}
	if len(missing) > 0 {
		return apperr.Invalidf("Missing required fields", "%s", strings.Join(missing, ", "))
	}
	if p.SKU == nil {
		empty := ""
		p.SKU = &empty
	}
	if !p.ImgID.Set {
		p.ImgID = field.Cleared[string]()
	}
	return p.Check()
}

func (p *Patch) Check() error {
	if p.Stock != nil && *p.Stock < 0 {
		return apperr.Invalidf("Invalid field value", "mat_inv must not be negative")
	}
	if p.Alert != nil && *p.Alert < 0 {
		return apperr.Invalidf("Invalid field value", "mat_alert must not be negative")
	}
	return nil
}
