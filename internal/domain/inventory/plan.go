package inventory

import (
	"fmt"
	"math"
	"sort"

	"github.com/frostedfabrics/inventory-api/internal/apperr"
)

// PlanDeduction computes the stock of every line after producing delta more
// units. Nothing is returned unless every projected stock is non-negative;
// the first failing material (lowest id) is named in the error.
// Lines with a zero amount produce no change.
func PlanDeduction(lines []StockLine, delta int64) ([]Change, error) {
	if delta <= 0 {
		return nil, nil
	}

	sorted := make([]StockLine, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MaterialID < sorted[j].MaterialID })

	changes := make([]Change, 0, len(sorted))
	for _, l := range sorted {
		if l.Amount < 0 {
			return nil, apperr.Invalidf("Invalid material amount", "material %d has negative amount %d", l.MaterialID, l.Amount)
		}
		if l.Amount == 0 {
			continue
		}
		if l.Amount > math.MaxInt64/delta {
			return nil, apperr.InsufficientStock(l.MaterialID,
				fmt.Sprintf("required amount %d x %d exceeds any possible stock", l.Amount, delta))
		}
		need := l.Amount * delta
		after := l.Stock - need
		if after < 0 {
			return nil, apperr.InsufficientStock(l.MaterialID,
				fmt.Sprintf("material %d needs %d, only %d in stock", l.MaterialID, need, l.Stock))
		}
		changes = append(changes, Change{
			MaterialID: l.MaterialID,
			Name:       l.Name,
			Before:     l.Stock,
			After:      after,
			Alert:      l.Alert,
		})
	}
	return changes, nil
}

// PlanImport turns counted stock into changes against the locked rows.
// Unknown ids and negative counts reject the whole sheet.
func PlanImport(current []StockLine, counts []StockCount) ([]Change, error) {
	byID := make(map[int64]StockLine, len(current))
	for _, l := range current {
		byID[l.MaterialID] = l
	}

	var unknown []int64
	changes := make([]Change, 0, len(counts))
	for _, c := range counts {
		if c.Stock < 0 {
			return nil, apperr.Invalidf("Invalid stock count", "material %d: mat_inv must not be negative", c.MaterialID)
		}
		l, ok := byID[c.MaterialID]
		if !ok {
			unknown = append(unknown, c.MaterialID)
			continue
		}
		if l.Stock == c.Stock {
			continue
		}
		changes = append(changes, Change{
			MaterialID: l.MaterialID,
			Name:       l.Name,
			Before:     l.Stock,
			After:      c.Stock,
			Alert:      l.Alert,
		})
	}
	if len(unknown) > 0 {
		return nil, apperr.Invalidf("Unknown material ID", "%v", unknown)
	}
	return changes, nil
}

func dedupeCounts(counts []StockCount) ([]StockCount, error) {
	seen := make(map[int64]struct{}, len(counts))
	for _, c := range counts {
		if _, ok := seen[c.MaterialID]; ok {
			return nil, apperr.Invalidf("Duplicate material ID", "material %d listed more than once", c.MaterialID)
		}
		seen[c.MaterialID] = struct{}{}
	}
	return counts, nil
}
