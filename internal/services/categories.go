package services

import (
	"slices"
	"strings"

	"superstore-bi/internal/models"
)

type categoryAgg struct {
	categorie string
	sales     float64
	profit    float64
	quantity  int
	orders    map[string]struct{}
}

type subCategoryAgg struct {
	categorie     string
	sousCategorie string
	sales         float64
	profit        float64
	quantity      int
	orders        map[string]struct{}
}

// CategoryPerformance summarizes CA, profit, order count and margin per
// category, sorted by CA descending.
func CategoryPerformance(view []models.Transaction) []models.CategoryPerformance {
	aggs := aggregateCategories(view)

	rows := make([]models.CategoryPerformance, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, models.CategoryPerformance{
			Categorie:   agg.categorie,
			CA:          round2(agg.sales),
			Profit:      round2(agg.profit),
			NbCommandes: len(agg.orders),
			MargePct:    round2(marginPct(agg.profit, agg.sales)),
		})
	}

	slices.SortFunc(rows, func(a, b models.CategoryPerformance) int {
		if a.CA != b.CA {
			if a.CA > b.CA {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Categorie, b.Categorie)
	})
	return rows
}

// Waterfall builds the profit contribution cascade: one entry per
// category sorted by profit descending with a running cumul, a
// sub-category detail breakdown, and a terminal total row. The
// category values sum exactly to ProfitTotal.
func Waterfall(view []models.Transaction) models.WaterfallResult {
	catAggs := aggregateCategories(view)
	subAggs := aggregateSubCategories(view)

	profitTotal := sumProfit(view)
	caTotal := sumSales(view)

	categories := make([]models.WaterfallEntry, 0, len(catAggs))
	for _, agg := range catAggs {
		categories = append(categories, models.WaterfallEntry{
			Label:    agg.categorie,
			Value:    round2(agg.profit),
			Type:     models.WaterfallCategory,
			CA:       round2(agg.sales),
			MargePct: round2(marginPct(agg.profit, agg.sales)),
		})
	}
	slices.SortFunc(categories, func(a, b models.WaterfallEntry) int {
		if a.Value != b.Value {
			if a.Value > b.Value {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Label, b.Label)
	})

	var cumul float64
	for i := range categories {
		cumul += categories[i].Value
		categories[i].Cumul = round2(cumul)
	}

	categories = append(categories, models.WaterfallEntry{
		Label: "Total",
		Value: round2(cumul),
		Cumul: round2(cumul),
		Type:  models.WaterfallTotal,
	})

	details := make([]models.SubCategoryDetail, 0, len(subAggs))
	for _, agg := range subAggs {
		details = append(details, models.SubCategoryDetail{
			Categorie:       agg.categorie,
			SousCategorie:   agg.sousCategorie,
			Profit:          round2(agg.profit),
			CA:              round2(agg.sales),
			MargePct:        round2(marginPct(agg.profit, agg.sales)),
			ContributionPct: round2(safeRatio(agg.profit, profitTotal) * 100),
		})
	}
	slices.SortFunc(details, func(a, b models.SubCategoryDetail) int {
		if a.Profit != b.Profit {
			if a.Profit > b.Profit {
				return -1
			}
			return 1
		}
		return strings.Compare(a.SousCategorie, b.SousCategorie)
	})

	// The reported total is the sum of the rounded category values, so
	// the cascade always adds up exactly to ProfitTotal.
	return models.WaterfallResult{
		Waterfall:            categories,
		DetailSousCategories: details,
		ProfitTotal:          round2(cumul),
		CATotal:              round2(caTotal),
	}
}

// CategoryMatrix classifies sub-categories into four quadrants by CA
// and margin against the medians of the group population: high/high is
// a priority, high CA with weak margin needs optimizing, strong margin
// on low CA is worth developing, and low/low is an abandon candidate.
func CategoryMatrix(view []models.Transaction) models.MatrixResult {
	subAggs := aggregateSubCategories(view)

	type scored struct {
		entry models.MatrixEntry
		ca    float64
		marge float64
	}

	entries := make([]scored, 0, len(subAggs))
	cas := make([]float64, 0, len(subAggs))
	marges := make([]float64, 0, len(subAggs))
	for _, agg := range subAggs {
		marge := marginPct(agg.profit, agg.sales)
		entries = append(entries, scored{
			entry: models.MatrixEntry{
				Categorie:     agg.categorie,
				SousCategorie: agg.sousCategorie,
				CA:            round2(agg.sales),
				Profit:        round2(agg.profit),
				MargePct:      round2(marge),
				Quantite:      agg.quantity,
				NbCommandes:   len(agg.orders),
			},
			ca:    agg.sales,
			marge: marge,
		})
		cas = append(cas, agg.sales)
		marges = append(marges, marge)
	}

	caMedian := Median(cas)
	margeMedian := Median(marges)

	result := models.MatrixResult{
		Data: make([]models.MatrixEntry, 0, len(entries)),
		Seuils: models.MatrixThresholds{
			CAMedian:    round2(caMedian),
			MargeMedian: round2(margeMedian),
		},
	}

	for _, s := range entries {
		switch {
		case s.ca >= caMedian && s.marge >= margeMedian:
			s.entry.Quadrant = models.QuadrantPriority
			result.Repartition.Priorite++
		case s.ca >= caMedian:
			s.entry.Quadrant = models.QuadrantOptimize
			result.Repartition.Optimiser++
		case s.marge >= margeMedian:
			s.entry.Quadrant = models.QuadrantDevelop
			result.Repartition.Developper++
		default:
			s.entry.Quadrant = models.QuadrantAbandon
			result.Repartition.Abandonner++
		}
		result.Data = append(result.Data, s.entry)
	}

	slices.SortFunc(result.Data, func(a, b models.MatrixEntry) int {
		if a.CA != b.CA {
			if a.CA > b.CA {
				return -1
			}
			return 1
		}
		return strings.Compare(a.SousCategorie, b.SousCategorie)
	})
	return result
}

func aggregateCategories(view []models.Transaction) map[string]*categoryAgg {
	aggs := make(map[string]*categoryAgg)
	for _, tx := range view {
		agg := aggs[tx.Category]
		if agg == nil {
			agg = &categoryAgg{categorie: tx.Category, orders: make(map[string]struct{})}
			aggs[tx.Category] = agg
		}
		agg.sales += tx.Sales
		agg.profit += tx.Profit
		agg.quantity += tx.Quantity
		agg.orders[tx.OrderID] = struct{}{}
	}
	return aggs
}

func aggregateSubCategories(view []models.Transaction) map[string]*subCategoryAgg {
	aggs := make(map[string]*subCategoryAgg)
	for _, tx := range view {
		key := tx.Category + "|" + tx.SubCategory
		agg := aggs[key]
		if agg == nil {
			agg = &subCategoryAgg{
				categorie:     tx.Category,
				sousCategorie: tx.SubCategory,
				orders:        make(map[string]struct{}),
			}
			aggs[key] = agg
		}
		agg.sales += tx.Sales
		agg.profit += tx.Profit
		agg.quantity += tx.Quantity
		agg.orders[tx.OrderID] = struct{}{}
	}
	return aggs
}
