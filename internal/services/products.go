package services

import (
	"slices"
	"strings"

	"superstore-bi/internal/models"
)

// DefaultMarginThreshold is the margin percentage below which a
// product is reported as low margin.
const DefaultMarginThreshold = 5.0

type productAgg struct {
	produit       string
	categorie     string
	sousCategorie string
	caLast        float64
	caPrev        float64
	profitLast    float64
	sales         float64
	profit        float64
	quantity      int
	discountSum   float64
	lines         int
}

// BCGMatrix positions every product by market share (current-year CA
// over current-year total) and YoY growth, then classifies it against
// the median share and median growth of the whole population. Medians
// and quadrant counts are computed before truncation so the thresholds
// do not drift with limite.
func BCGMatrix(view []models.Transaction, limite int) models.BCGResult {
	result := models.BCGResult{Data: []models.BCGProduct{}}

	years := yearsPresent(view)
	if len(years) < 2 {
		// Growth needs a prior-year baseline.
		return result
	}
	lastYear := years[len(years)-1]
	prevYear := years[len(years)-2]

	aggs := make(map[string]*productAgg)
	var caTotalLastYear float64
	for _, tx := range view {
		key := tx.ProductName + "|" + tx.Category + "|" + tx.SubCategory
		agg := aggs[key]
		if agg == nil {
			agg = &productAgg{
				produit:       tx.ProductName,
				categorie:     tx.Category,
				sousCategorie: tx.SubCategory,
			}
			aggs[key] = agg
		}
		switch tx.OrderDate.Year() {
		case lastYear:
			agg.caLast += tx.Sales
			agg.profitLast += tx.Profit
			caTotalLastYear += tx.Sales
		case prevYear:
			agg.caPrev += tx.Sales
		}
	}

	rows := make([]models.BCGProduct, 0, len(aggs))
	var shares, growths []float64
	for _, agg := range aggs {
		row := models.BCGProduct{
			Produit:       agg.produit,
			Categorie:     agg.categorie,
			SousCategorie: agg.sousCategorie,
			CAActuel:      round2(agg.caLast),
			CAPrecedent:   round2(agg.caPrev),
			PartMarche:    round4(safeRatio(agg.caLast, caTotalLastYear) * 100),
			Profit:        round2(agg.profitLast),
			MargePct:      round2(marginPct(agg.profitLast, agg.caLast)),
		}

		switch {
		case agg.caPrev > 0:
			row.Croissance = round2((agg.caLast - agg.caPrev) / agg.caPrev * 100)
		case agg.caLast > 0:
			// No prior-year baseline: tagged as new, not a growth rate.
			row.Nouveau = true
		}

		if row.CAActuel > 0 {
			shares = append(shares, row.PartMarche)
			if !row.Nouveau {
				growths = append(growths, row.Croissance)
			}
		}
		rows = append(rows, row)
	}

	medianShare := round4(Median(shares))
	medianGrowth := round2(Median(growths))

	for i := range rows {
		rows[i].Quadrant = bcgQuadrant(rows[i], medianShare, medianGrowth)
		switch rows[i].Quadrant {
		case models.QuadrantStar:
			result.Repartition.Etoiles++
		case models.QuadrantCashCow:
			result.Repartition.Vaches++
		case models.QuadrantQuestionMark:
			result.Repartition.Dilemmes++
		case models.QuadrantDog:
			result.Repartition.PoidsMorts++
		}
	}

	slices.SortFunc(rows, func(a, b models.BCGProduct) int {
		if a.CAActuel != b.CAActuel {
			if a.CAActuel > b.CAActuel {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Produit, b.Produit)
	})
	if limite > 0 && len(rows) > limite {
		rows = rows[:limite]
	}

	result.Data = rows
	result.Seuils = models.BCGThresholds{
		PartMarcheMediane: medianShare,
		CroissanceMediane: medianGrowth,
		AnneeActuelle:     lastYear,
		AnneePrecedente:   prevYear,
	}
	return result
}

func bcgQuadrant(row models.BCGProduct, medianShare, medianGrowth float64) string {
	highShare := row.PartMarche >= medianShare
	highGrowth := row.Croissance >= medianGrowth || row.Nouveau

	switch {
	case highShare && highGrowth:
		return models.QuadrantStar
	case highShare:
		return models.QuadrantCashCow
	case highGrowth:
		return models.QuadrantQuestionMark
	default:
		return models.QuadrantDog
	}
}

// LowMarginProducts lists products whose margin sits below the
// threshold, ordered by CA descending so the biggest business impact
// comes first. Zero-sales products are excluded as noise.
func LowMarginProducts(view []models.Transaction, seuilMarge float64, limite int) models.LowMarginResult {
	aggs := aggregateProducts(view)

	rows := make([]models.LowMarginProduct, 0)
	for _, agg := range aggs {
		marge := marginPct(agg.profit, agg.sales)
		if agg.sales <= 0 || marge >= seuilMarge {
			continue
		}
		alerte := "faible"
		if agg.profit < 0 {
			alerte = "perte"
		}
		rows = append(rows, models.LowMarginProduct{
			Produit:       agg.produit,
			Categorie:     agg.categorie,
			SousCategorie: agg.sousCategorie,
			CA:            round2(agg.sales),
			Profit:        round2(agg.profit),
			MargePct:      round2(marge),
			Quantite:      agg.quantity,
			DiscountMoyen: round2(safeRatio(agg.discountSum, float64(agg.lines)) * 100),
			Alerte:        alerte,
		})
	}

	slices.SortFunc(rows, func(a, b models.LowMarginProduct) int {
		if a.CA != b.CA {
			if a.CA > b.CA {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Produit, b.Produit)
	})
	if limite > 0 && len(rows) > limite {
		rows = rows[:limite]
	}

	stats := models.LowMarginStats{
		NbProduits:   len(rows),
		SeuilUtilise: seuilMarge,
	}
	for _, row := range rows {
		stats.CATotal += row.CA
		stats.ProfitTotal += row.Profit
		if row.Profit < 0 {
			stats.NbPertes++
		}
	}
	stats.CATotal = round2(stats.CATotal)
	stats.ProfitTotal = round2(stats.ProfitTotal)
	stats.PctCATotal = round2(safeRatio(stats.CATotal, sumSales(view)) * 100)

	return models.LowMarginResult{Data: rows, Statistiques: stats}
}

// TopProducts ranks products by the chosen measure (ca, profit or
// quantite), descending, ties broken by product name ascending so the
// ranking is stable under input reordering.
func TopProducts(view []models.Transaction, limite int, triPar string) []models.TopProduct {
	aggs := aggregateProducts(view)

	rows := make([]models.TopProduct, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, models.TopProduct{
			Produit:   agg.produit,
			Categorie: agg.categorie,
			CA:        round2(agg.sales),
			Quantite:  agg.quantity,
			Profit:    round2(agg.profit),
		})
	}

	measure := func(p models.TopProduct) float64 {
		switch triPar {
		case "profit":
			return p.Profit
		case "quantite":
			return float64(p.Quantite)
		default:
			return p.CA
		}
	}

	slices.SortFunc(rows, func(a, b models.TopProduct) int {
		va, vb := measure(a), measure(b)
		if va != vb {
			if va > vb {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Produit, b.Produit)
	})
	if limite > 0 && len(rows) > limite {
		rows = rows[:limite]
	}
	return rows
}

func aggregateProducts(view []models.Transaction) map[string]*productAgg {
	aggs := make(map[string]*productAgg)
	for _, tx := range view {
		key := tx.ProductName + "|" + tx.Category + "|" + tx.SubCategory
		agg := aggs[key]
		if agg == nil {
			agg = &productAgg{
				produit:       tx.ProductName,
				categorie:     tx.Category,
				sousCategorie: tx.SubCategory,
			}
			aggs[key] = agg
		}
		agg.sales += tx.Sales
		agg.profit += tx.Profit
		agg.quantity += tx.Quantity
		agg.discountSum += tx.Discount
		agg.lines++
	}
	return aggs
}
