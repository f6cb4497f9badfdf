// Package rollup folds flat category sales rows into the fixed set of
// top-level reporting buckets. The same fold feeds the sales-by-category
// table and the dashboard bar chart, so both must call through here to
// stay in agreement.
package rollup

import (
	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/models"
)

// CanonicalIDs are the four top-level category ids every sales figure is
// ultimately reported under.
var CanonicalIDs = []int{1, 2, 3, 4}

// Rollup folds child rows into their canonical parents by total_sold.
//
// Rows whose id is canonical pass through in their input order, with the
// sold total rewritten to own + sum(direct children). Child rows whose
// parent is not canonical are dropped from the result; they still exist
// upstream for the non-aggregated views. Only one level of nesting is
// resolved: the upstream category tree is two levels deep, and rows under
// a non-canonical parent are not walked further.
func Rollup(records []models.CategorySales, canonical []int) []models.CategorySales {
	return fold(records, canonical, soldFigure, setSold)
}

// RollupQuantity is Rollup keyed on total_quantity instead of
// total_sold. The order dashboard folds unit counts the same way the
// revenue screens fold revenue.
func RollupQuantity(records []models.CategorySales, canonical []int) []models.CategorySales {
	return fold(records, canonical, quantityFigure, setQuantity)
}

func soldFigure(r models.CategorySales) models.Figure     { return r.TotalSold }
func quantityFigure(r models.CategorySales) models.Figure { return r.TotalQuantity }

func setSold(r *models.CategorySales, n int64)     { r.TotalSold = models.FigureOf(n) }
func setQuantity(r *models.CategorySales, n int64) { r.TotalQuantity = models.FigureOf(n) }

func fold(
	records []models.CategorySales,
	canonical []int,
	figure func(models.CategorySales) models.Figure,
	set func(*models.CategorySales, int64),
) []models.CategorySales {
	isCanonical := make(map[int]bool, len(canonical))
	for _, id := range canonical {
		isCanonical[id] = true
	}

	// Accumulate each child's figure into its canonical parent.
	acc := make(map[int]int64)
	seen := make(map[int]bool)
	var top []models.CategorySales
	for _, r := range records {
		if isCanonical[r.ID] {
			top = append(top, r)
			continue
		}
		if r.ParentID == nil || !isCanonical[*r.ParentID] {
			// Orphan or grandchild: excluded from the rollup.
			continue
		}
		acc[*r.ParentID] += figure(r).Int()
		seen[*r.ParentID] = true
	}

	out := make([]models.CategorySales, 0, len(top))
	for _, r := range top {
		if seen[r.ID] {
			set(&r, figure(r).Int()+acc[r.ID])
		}
		out = append(out, r)
	}
	return out
}
