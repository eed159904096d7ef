package services

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"superstore-bi/internal/dataset"
	"superstore-bi/internal/models"
)

// Analytics owns the current dataset snapshot and the loader. All
// analyzer functions are pure over a view; Analytics only provides the
// snapshot handle and the summary queries that need no grouping layer.
type Analytics struct {
	store  *dataset.Store
	loader *dataset.Loader
	logger *slog.Logger
}

func NewAnalytics(logger *slog.Logger) *Analytics {
	return &Analytics{
		store:  dataset.NewStore(),
		loader: dataset.NewLoader(logger),
		logger: logger,
	}
}

// Load reads the source and swaps in the new snapshot atomically;
// in-flight readers keep the previous one.
func (a *Analytics) Load(ctx context.Context, source string) error {
	snap, err := a.loader.Load(ctx, source)
	if err != nil {
		return err
	}
	a.store.Replace(snap)
	return nil
}

// SetData installs an in-memory snapshot directly (tests, fixtures).
func (a *Analytics) SetData(txs []models.Transaction) {
	a.store.Replace(dataset.NewSnapshot(txs))
}

func (a *Analytics) Snapshot() *dataset.Snapshot {
	return a.store.Snapshot()
}

// GlobalKPIs computes the headline figures over a view.
func GlobalKPIs(view []models.Transaction) models.GlobalKPI {
	orders := make(map[string]struct{})
	customers := make(map[string]struct{})
	kpi := models.GlobalKPI{}

	for _, tx := range view {
		kpi.CATotal += tx.Sales
		kpi.ProfitTotal += tx.Profit
		kpi.QuantiteVendue += tx.Quantity
		orders[tx.OrderID] = struct{}{}
		customers[tx.CustomerID] = struct{}{}
	}

	kpi.NbCommandes = len(orders)
	kpi.NbClients = len(customers)
	kpi.PanierMoyen = round2(safeRatio(kpi.CATotal, float64(kpi.NbCommandes)))
	kpi.MargeMoyenne = round2(marginPct(kpi.ProfitTotal, kpi.CATotal))
	kpi.CATotal = round2(kpi.CATotal)
	kpi.ProfitTotal = round2(kpi.ProfitTotal)
	return kpi
}

// Customers ranks clients by total CA and summarizes purchase
// recurrence and segment performance.
func Customers(view []models.Transaction, limite int) models.CustomerResult {
	type clientAgg struct {
		id     string
		nom    string
		sales  float64
		profit float64
		orders map[string]struct{}
	}

	clients := make(map[string]*clientAgg)
	segments := make(map[string]*geoAgg)
	for _, tx := range view {
		c := clients[tx.CustomerID]
		if c == nil {
			c = &clientAgg{id: tx.CustomerID, nom: tx.CustomerName, orders: make(map[string]struct{})}
			clients[tx.CustomerID] = c
		}
		c.sales += tx.Sales
		c.profit += tx.Profit
		c.orders[tx.OrderID] = struct{}{}

		s := segments[tx.Segment]
		if s == nil {
			s = &geoAgg{name: tx.Segment, orders: make(map[string]struct{}), customers: make(map[string]struct{})}
			segments[tx.Segment] = s
		}
		s.sales += tx.Sales
		s.profit += tx.Profit
		s.customers[tx.CustomerID] = struct{}{}
	}

	top := make([]models.TopClient, 0, len(clients))
	rec := models.Recurrence{TotalClients: len(clients)}
	var orderSum int
	for _, c := range clients {
		nbCommandes := len(c.orders)
		orderSum += nbCommandes
		if nbCommandes == 1 {
			rec.ClientsUnAchat++
		} else {
			rec.ClientsRecurrents++
		}
		top = append(top, models.TopClient{
			CustomerID:        c.id,
			Nom:               c.nom,
			CATotal:           round2(c.sales),
			ProfitTotal:       round2(c.profit),
			NbCommandes:       nbCommandes,
			ValeurCommandeMoy: round2(safeRatio(c.sales, float64(nbCommandes))),
		})
	}
	rec.NbCommandesMoyen = round2(safeRatio(float64(orderSum), float64(len(clients))))

	slices.SortFunc(top, func(a, b models.TopClient) int {
		if a.CATotal != b.CATotal {
			if a.CATotal > b.CATotal {
				return -1
			}
			return 1
		}
		return strings.Compare(a.CustomerID, b.CustomerID)
	})
	if limite > 0 && len(top) > limite {
		top = top[:limite]
	}

	segRows := make([]models.SegmentPerformance, 0, len(segments))
	for _, s := range segments {
		segRows = append(segRows, models.SegmentPerformance{
			Segment:   s.name,
			CA:        round2(s.sales),
			Profit:    round2(s.profit),
			NbClients: len(s.customers),
		})
	}
	slices.SortFunc(segRows, func(a, b models.SegmentPerformance) int {
		if a.CA != b.CA {
			if a.CA > b.CA {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Segment, b.Segment)
	})

	return models.CustomerResult{
		TopClients: top,
		Recurrence: rec,
		Segments:   segRows,
	}
}

// Orders returns a raw page of the snapshot for the data-table view.
func (a *Analytics) Orders(limite, offset int) (total int, page []models.Transaction) {
	snap := a.Snapshot()
	total = snap.Len()

	if offset >= total {
		return total, []models.Transaction{}
	}
	end := min(offset+limite, total)
	return total, snap.Transactions[offset:end]
}

// Stats reports snapshot metadata for the admin endpoint.
func (a *Analytics) Stats() map[string]any {
	snap := a.Snapshot()
	return map[string]any{
		"record_count": snap.Len(),
		"skipped_rows": snap.SkippedRows,
		"years":        snap.Years,
		"loaded_at":    snap.LoadedAt,
		"min_date":     snap.MinDate,
		"max_date":     snap.MaxDate,
	}
}
