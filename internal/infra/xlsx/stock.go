// Package xlsx writes and reads stock sheets. A sheet exported by
// WriteStock can be edited and fed straight back to ReadStockCounts.
package xlsx

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/frostedfabrics/inventory-api/internal/apperr"
	"github.com/frostedfabrics/inventory-api/internal/domain/inventory"
	"github.com/frostedfabrics/inventory-api/internal/domain/materials"
	"github.com/xuri/excelize/v2"
)

const (
	colMaterialID = "mat_id"
	colStock      = "mat_inv"
)

var stockHeader = []interface{}{
	colMaterialID,
	"mc_name",
	"brand_name",
	"mat_name",
	"mat_sku",
	"meas_unit",
	colStock,
	"mat_alert",
}

// WriteStock renders one row per material; rows below their alert level
// are shaded.
func WriteStock(w io.Writer, mats []materials.Material) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetRow(sheet, "A1", &stockHeader); err != nil {
		return fmt.Errorf("header: %w", err)
	}

	lowStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F8CBAD"}},
	})
	if err != nil {
		return fmt.Errorf("style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(stockHeader))
	if err != nil {
		return err
	}

	for i, m := range mats {
		row := []interface{}{
			m.ID,
			m.CategoryName,
			m.BrandName,
			m.Name,
			m.SKU,
			m.Unit,
			m.Stock,
			m.Alert,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		if m.BelowAlert() {
			end := fmt.Sprintf("%s%d", lastCol, i+2)
			if err := f.SetCellStyle(sheet, cell, end, lowStyle); err != nil {
				return fmt.Errorf("row %d: %w", i+2, err)
			}
		}
	}
	return f.Write(w)
}

// ReadStockCounts reads the first sheet. The header row must name mat_id
// and mat_inv columns; rows whose mat_inv cell is empty are skipped.
func ReadStockCounts(r io.Reader) ([]inventory.StockCount, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperr.Invalidf("Invalid stock sheet", "not a readable .xlsx file")
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	if err != nil {
		return nil, apperr.Invalidf("Invalid stock sheet", "%v", err)
	}
	if len(rows) < 2 {
		return nil, apperr.Invalid("Stock sheet has no rows")
	}

	idCol, stockCol := -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case colMaterialID:
			idCol = i
		case colStock:
			stockCol = i
		}
	}
	if idCol < 0 || stockCol < 0 {
		return nil, apperr.Invalidf("Invalid stock sheet", "header must contain %s and %s", colMaterialID, colStock)
	}

	var out []inventory.StockCount
	for i, row := range rows[1:] {
		line := i + 2
		idStr, stockStr := cell(row, idCol), cell(row, stockCol)
		if idStr == "" || stockStr == "" {
			continue
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return nil, apperr.Invalidf("Invalid stock sheet", "row %d: bad mat_id %q", line, idStr)
		}
		stock, err := strconv.ParseInt(stockStr, 10, 64)
		if err != nil {
			return nil, apperr.Invalidf("Invalid stock sheet", "row %d: bad mat_inv %q", line, stockStr)
		}
		out = append(out, inventory.StockCount{MaterialID: id, Stock: stock})
	}
	return out, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
