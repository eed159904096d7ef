package dataset

import (
	"sort"
	"sync"
	"time"

	"superstore-bi/internal/models"
)

// Snapshot is the immutable in-memory table plus metadata derived at
// load time. Analyzers only ever read it; a reload builds a fresh
// Snapshot and swaps it into the Store so in-flight calls keep a
// consistent view.
type Snapshot struct {
	Transactions []models.Transaction
	Years        []int // ascending
	MinDate      time.Time
	MaxDate      time.Time
	SkippedRows  int
	LoadedAt     time.Time
}

func NewSnapshot(txs []models.Transaction) *Snapshot {
	snap := &Snapshot{
		Transactions: txs,
		LoadedAt:     time.Now(),
	}

	yearSet := make(map[int]struct{})
	for i, tx := range txs {
		yearSet[tx.OrderDate.Year()] = struct{}{}
		if i == 0 || tx.OrderDate.Before(snap.MinDate) {
			snap.MinDate = tx.OrderDate
		}
		if i == 0 || tx.OrderDate.After(snap.MaxDate) {
			snap.MaxDate = tx.OrderDate
		}
	}

	snap.Years = make([]int, 0, len(yearSet))
	for y := range yearSet {
		snap.Years = append(snap.Years, y)
	}
	sort.Ints(snap.Years)

	return snap
}

func (s *Snapshot) Len() int {
	return len(s.Transactions)
}

// FilterValues lists the distinct values a dashboard can filter on.
func (s *Snapshot) FilterValues() models.FilterValues {
	fv := models.FilterValues{
		Categories: distinct(s.Transactions, func(tx models.Transaction) string { return tx.Category }),
		Regions:    distinct(s.Transactions, func(tx models.Transaction) string { return tx.Region }),
		Segments:   distinct(s.Transactions, func(tx models.Transaction) string { return tx.Segment }),
		Etats:      distinct(s.Transactions, func(tx models.Transaction) string { return tx.State }),
	}
	if s.Len() > 0 {
		fv.PlageDates = models.DateRange{
			Min: s.MinDate.Format("2006-01-02"),
			Max: s.MaxDate.Format("2006-01-02"),
		}
	}
	return fv
}

func distinct(txs []models.Transaction, key func(models.Transaction) string) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, tx := range txs {
		v := key(tx)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return values
}

// Store holds the current snapshot. Replace swaps the whole snapshot
// atomically; there is no in-place mutation after load.
type Store struct {
	mu   sync.RWMutex
	snap *Snapshot
}

func NewStore() *Store {
	return &Store{snap: NewSnapshot(nil)}
}

func (s *Store) Replace(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
}

func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
