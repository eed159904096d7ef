package services

import (
	"math"
	"sort"
	"time"

	"superstore-bi/internal/models"
)

// Median returns the standard median; even-length inputs average the
// two middle values. Empty input yields 0.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// marginPct is profit over sales as a percentage. Zero-sales groups
// report 0, never NaN or Inf.
func marginPct(profit, sales float64) float64 {
	if sales == 0 {
		return 0
	}
	return profit / sales * 100
}

func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func ptr(v float64) *float64 {
	r := round2(v)
	return &r
}

// monthKey identifies a (year, calendar month) period bucket.
type monthKey struct {
	Year  int
	Month time.Month
}

func (k monthKey) before(other monthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// monthBucket accumulates the per-month measures every temporal
// analysis starts from.
type monthBucket struct {
	Sales    float64
	Profit   float64
	Quantity int
	Orders   map[string]struct{}
}

// bucketByMonth groups a view into (year, month) buckets. Months with
// no matching records are omitted; placeholder months are a concern of
// the seasonality analyzer only.
func bucketByMonth(view []models.Transaction) map[monthKey]*monthBucket {
	buckets := make(map[monthKey]*monthBucket)
	for _, tx := range view {
		key := monthKey{Year: tx.OrderDate.Year(), Month: tx.OrderDate.Month()}
		b := buckets[key]
		if b == nil {
			b = &monthBucket{Orders: make(map[string]struct{})}
			buckets[key] = b
		}
		b.Sales += tx.Sales
		b.Profit += tx.Profit
		b.Quantity += tx.Quantity
		b.Orders[tx.OrderID] = struct{}{}
	}
	return buckets
}

func sortedMonthKeys(buckets map[monthKey]*monthBucket) []monthKey {
	keys := make([]monthKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].before(keys[j]) })
	return keys
}

// yearsPresent lists the distinct order years in a view, ascending.
func yearsPresent(view []models.Transaction) []int {
	set := make(map[int]struct{})
	for _, tx := range view {
		set[tx.OrderDate.Year()] = struct{}{}
	}
	years := make([]int, 0, len(set))
	for y := range set {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

func sumSales(view []models.Transaction) float64 {
	var total float64
	for _, tx := range view {
		total += tx.Sales
	}
	return total
}

func sumProfit(view []models.Transaction) float64 {
	var total float64
	for _, tx := range view {
		total += tx.Profit
	}
	return total
}

func stddev(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(n)
	return math.Sqrt(variance)
}
