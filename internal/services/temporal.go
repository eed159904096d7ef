package services

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"superstore-bi/internal/models"
)

const movingAverageWindow = 3

// MonthlyTrend builds the advanced temporal series: monthly CA and
// profit in chronological order, a 3-month trailing moving average
// (null for the first two periods, never a silently shortened window),
// period-over-period growth (null for the first period) and a
// year-over-year overlay (null for months with no prior-year
// counterpart).
func MonthlyTrend(view []models.Transaction) models.MonthlyTrendResult {
	buckets := bucketByMonth(view)
	keys := sortedMonthKeys(buckets)

	result := models.MonthlyTrendResult{
		Data:              make([]models.MonthlyPoint, 0, len(keys)),
		AnneesDisponibles: yearsPresent(view),
	}
	if len(keys) == 0 {
		return result
	}

	for i, key := range keys {
		b := buckets[key]
		point := models.MonthlyPoint{
			Periode:     fmt.Sprintf("%04d-%02d", key.Year, int(key.Month)),
			Year:        key.Year,
			Month:       int(key.Month),
			CA:          round2(b.Sales),
			Profit:      round2(b.Profit),
			NbCommandes: len(b.Orders),
			Quantite:    b.Quantity,
		}

		if i >= movingAverageWindow-1 {
			var caSum, profitSum float64
			for j := i - movingAverageWindow + 1; j <= i; j++ {
				caSum += buckets[keys[j]].Sales
				profitSum += buckets[keys[j]].Profit
			}
			point.CAMM3 = ptr(caSum / movingAverageWindow)
			point.ProfitMM3 = ptr(profitSum / movingAverageWindow)
		}

		if i > 0 {
			prev := buckets[keys[i-1]].Sales
			if prev > 0 {
				point.CroissancePct = ptr((b.Sales - prev) / prev * 100)
			} else {
				// Zero prior baseline resolves to 0, not an error.
				point.CroissancePct = ptr(0)
			}
		}

		if prevBucket, ok := buckets[monthKey{Year: key.Year - 1, Month: key.Month}]; ok {
			point.CAN1 = ptr(prevBucket.Sales)
			point.ProfitN1 = ptr(prevBucket.Profit)
			if prevBucket.Sales > 0 {
				point.VariationYoY = ptr((b.Sales - prevBucket.Sales) / prevBucket.Sales * 100)
			}
		}

		result.Data = append(result.Data, point)
	}

	var caSum float64
	best, worst := result.Data[0], result.Data[0]
	for _, p := range result.Data {
		caSum += p.CA
		if p.CA > best.CA {
			best = p
		}
		if p.CA < worst.CA {
			worst = p
		}
	}
	result.Statistiques = models.TrendStats{
		CAMoyenMensuel: round2(caSum / float64(len(result.Data))),
		MeilleurMois:   best.Periode,
		PireMois:       worst.Periode,
	}
	return result
}

// Seasonality computes a per-calendar-month index: the mean monthly CA
// across years, over the baseline (mean of the 12 monthly averages),
// times 100. Index 100 is an average month; the 12 indices always
// average to 100. Months absent from the data still appear with
// ca_moyen 0. Volatility is the coefficient of variation across years,
// null when fewer than 2 years of data exist for that month.
func Seasonality(view []models.Transaction) models.SeasonalityResult {
	buckets := bucketByMonth(view)

	// Per calendar month, the CA of each year that has data for it.
	perMonth := make(map[time.Month][]float64)
	for key, b := range buckets {
		perMonth[key.Month] = append(perMonth[key.Month], b.Sales)
	}

	averages := make([]float64, 13)
	var baseline float64
	for m := time.January; m <= time.December; m++ {
		values := perMonth[m]
		if len(values) > 0 {
			var sum float64
			for _, v := range values {
				sum += v
			}
			averages[m] = sum / float64(len(values))
		}
		baseline += averages[m]
	}
	baseline /= 12

	result := models.SeasonalityResult{Data: make([]models.SeasonalityRow, 0, 12)}
	for m := time.January; m <= time.December; m++ {
		row := models.SeasonalityRow{
			Month:     int(m),
			MonthName: m.String(),
			CAMoyen:   round2(averages[m]),
			Indice:    round2(safeRatio(averages[m], baseline) * 100),
		}

		if values := perMonth[m]; len(values) >= 2 {
			mean := averages[m]
			if mean > 0 {
				row.Volatilite = ptr(stddev(values) / mean * 100)
			}
		}

		result.Data = append(result.Data, row)

		if row.Indice > result.Statistiques.IndicePic || result.Statistiques.MoisPic == "" {
			result.Statistiques.MoisPic = row.MonthName
			result.Statistiques.IndicePic = row.Indice
		}
		if row.Indice < result.Statistiques.IndiceCreux || result.Statistiques.MoisCreux == "" {
			result.Statistiques.MoisCreux = row.MonthName
			result.Statistiques.IndiceCreux = row.Indice
		}
	}
	return result
}

// Evolution aggregates the view at the requested granularity (jour,
// mois or annee), chronologically.
func Evolution(view []models.Transaction, periode string) []models.EvolutionPoint {
	layout := "2006-01"
	switch periode {
	case "jour":
		layout = "2006-01-02"
	case "annee":
		layout = "2006"
	}

	type evoAgg struct {
		sales    float64
		profit   float64
		quantity int
		orders   map[string]struct{}
	}

	aggs := make(map[string]*evoAgg)
	order := make([]string, 0)
	for _, tx := range view {
		key := tx.OrderDate.Format(layout)
		agg := aggs[key]
		if agg == nil {
			agg = &evoAgg{orders: make(map[string]struct{})}
			aggs[key] = agg
			order = append(order, key)
		}
		agg.sales += tx.Sales
		agg.profit += tx.Profit
		agg.quantity += tx.Quantity
		agg.orders[tx.OrderID] = struct{}{}
	}

	points := make([]models.EvolutionPoint, 0, len(order))
	for _, key := range order {
		agg := aggs[key]
		points = append(points, models.EvolutionPoint{
			Periode:     key,
			CA:          round2(agg.sales),
			Profit:      round2(agg.profit),
			NbCommandes: len(agg.orders),
			Quantite:    agg.quantity,
		})
	}
	// Period strings are zero-padded, so lexical order is chronological.
	slices.SortFunc(points, func(a, b models.EvolutionPoint) int {
		return strings.Compare(a.Periode, b.Periode)
	})
	return points
}
