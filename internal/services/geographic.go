package services

import (
	"slices"
	"strings"

	"superstore-bi/internal/models"
)

// State performance classes for heatmap coloring.
const (
	PerfHigh    = "HighPerformance"
	PerfMargin  = "GoodMargin"
	PerfVolume  = "HighVolume"
	PerfDevelop = "Develop"
)

type geoAgg struct {
	name      string
	parent    string
	region    string
	sales     float64
	profit    float64
	quantity  int
	orders    map[string]struct{}
	customers map[string]struct{}
}

// RegionPerformance rolls the view up per region, sorted by CA
// descending.
func RegionPerformance(view []models.Transaction) []models.RegionPerformance {
	aggs := rollup(view, func(tx models.Transaction) (string, string, string) {
		return tx.Region, "", tx.Region
	})

	rows := make([]models.RegionPerformance, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, models.RegionPerformance{
			Region:      agg.name,
			CA:          round2(agg.sales),
			Profit:      round2(agg.profit),
			NbClients:   len(agg.customers),
			NbCommandes: len(agg.orders),
		})
	}

	slices.SortFunc(rows, func(a, b models.RegionPerformance) int {
		if a.CA != b.CA {
			if a.CA > b.CA {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Region, b.Region)
	})
	return rows
}

// StatePerformance rolls the view up per state with margin and
// per-customer ratios, and classifies each state against the median
// margin and median CA of the state population.
func StatePerformance(view []models.Transaction) models.StateResult {
	aggs := rollup(view, func(tx models.Transaction) (string, string, string) {
		return tx.State, "", tx.Region
	})

	type scored struct {
		row   models.StatePerformance
		ca    float64
		marge float64
	}

	entries := make([]scored, 0, len(aggs))
	cas := make([]float64, 0, len(aggs))
	marges := make([]float64, 0, len(aggs))
	for _, agg := range aggs {
		marge := marginPct(agg.profit, agg.sales)
		entries = append(entries, scored{
			row: models.StatePerformance{
				Etat:               agg.name,
				Region:             agg.region,
				CA:                 round2(agg.sales),
				Profit:             round2(agg.profit),
				MargePct:           round2(marge),
				NbClients:          len(agg.customers),
				NbCommandes:        len(agg.orders),
				CAParClient:        round2(safeRatio(agg.sales, float64(len(agg.customers)))),
				CommandesParClient: round2(safeRatio(float64(len(agg.orders)), float64(len(agg.customers)))),
				Quantite:           agg.quantity,
			},
			ca:    agg.sales,
			marge: marge,
		})
		cas = append(cas, agg.sales)
		marges = append(marges, marge)
	}

	caMedian := Median(cas)
	margeMedian := Median(marges)

	result := models.StateResult{
		Data: make([]models.StatePerformance, 0, len(entries)),
		Seuils: models.StateThresholds{
			MargeMedian: round2(margeMedian),
			CAMedian:    round2(caMedian),
		},
	}

	for _, s := range entries {
		switch {
		case s.marge >= margeMedian && s.ca >= caMedian:
			s.row.Performance = PerfHigh
		case s.marge >= margeMedian:
			s.row.Performance = PerfMargin
		case s.ca >= caMedian:
			s.row.Performance = PerfVolume
		default:
			s.row.Performance = PerfDevelop
		}
		result.Data = append(result.Data, s.row)
	}

	slices.SortFunc(result.Data, func(a, b models.StatePerformance) int {
		if a.CA != b.CA {
			if a.CA > b.CA {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Etat, b.Etat)
	})
	return result
}

// CityRankings produces three independent city rankings: by CA, by
// margin and by CA per customer. Each is truncated to limite and ties
// break on city name ascending, so the rankings are stable under input
// reordering.
func CityRankings(view []models.Transaction, limite int) models.CityRankings {
	aggs := rollup(view, func(tx models.Transaction) (string, string, string) {
		return tx.City + "|" + tx.State, tx.State, tx.Region
	})

	rows := make([]models.CityRow, 0, len(aggs))
	var caSum, clientSum float64
	for _, agg := range aggs {
		name, _, _ := strings.Cut(agg.name, "|")
		rows = append(rows, models.CityRow{
			Ville:       name,
			Etat:        agg.parent,
			Region:      agg.region,
			CA:          round2(agg.sales),
			Profit:      round2(agg.profit),
			MargePct:    round2(marginPct(agg.profit, agg.sales)),
			NbClients:   len(agg.customers),
			CAParClient: round2(safeRatio(agg.sales, float64(len(agg.customers)))),
		})
		caSum += agg.sales
		clientSum += float64(len(agg.customers))
	}

	rankBy := func(measure func(models.CityRow) float64) []models.CityRow {
		ranked := make([]models.CityRow, len(rows))
		copy(ranked, rows)
		slices.SortFunc(ranked, func(a, b models.CityRow) int {
			va, vb := measure(a), measure(b)
			if va != vb {
				if va > vb {
					return -1
				}
				return 1
			}
			return strings.Compare(a.Ville, b.Ville)
		})
		if limite > 0 && len(ranked) > limite {
			ranked = ranked[:limite]
		}
		return ranked
	}

	return models.CityRankings{
		TopCA:          rankBy(func(r models.CityRow) float64 { return r.CA }),
		TopMarge:       rankBy(func(r models.CityRow) float64 { return r.MargePct }),
		TopCAParClient: rankBy(func(r models.CityRow) float64 { return r.CAParClient }),
		Statistiques: models.CityStats{
			NbVillesTotal:     len(rows),
			CAMoyenVille:      round2(safeRatio(caSum, float64(len(rows)))),
			ClientsMoyenVille: round2(safeRatio(clientSum, float64(len(rows)))),
		},
	}
}

func rollup(view []models.Transaction, key func(models.Transaction) (name, parent, region string)) map[string]*geoAgg {
	aggs := make(map[string]*geoAgg)
	for _, tx := range view {
		name, parent, region := key(tx)
		agg := aggs[name]
		if agg == nil {
			agg = &geoAgg{
				name:      name,
				parent:    parent,
				region:    region,
				orders:    make(map[string]struct{}),
				customers: make(map[string]struct{}),
			}
			aggs[name] = agg
		}
		agg.sales += tx.Sales
		agg.profit += tx.Profit
		agg.quantity += tx.Quantity
		agg.orders[tx.OrderID] = struct{}{}
		agg.customers[tx.CustomerID] = struct{}{}
	}
	return aggs
}
