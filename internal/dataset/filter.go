package dataset

import (
	"fmt"
	"net/url"
	"time"

	"superstore-bi/internal/errors"
	"superstore-bi/internal/models"
)

const dateLayout = "2006-01-02"

// Filter is the set of optional conjunctive predicates applied before
// any analyzer runs. Zero-value fields pass everything through.
// Applying a filter is stateless and idempotent.
type Filter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Category string
	Region   string
	Segment  string
}

func (f Filter) IsEmpty() bool {
	return f.DateFrom == nil && f.DateTo == nil &&
		f.Category == "" && f.Region == "" && f.Segment == ""
}

func (f Filter) Validate() error {
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return errors.InvalidFilter(fmt.Sprintf(
			"date_from (%s) must not be after date_to (%s)",
			f.DateFrom.Format(dateLayout), f.DateTo.Format(dateLayout)))
	}
	return nil
}

// Apply returns the ordered subset of the snapshot matching every
// predicate. Both date bounds are inclusive.
func (f Filter) Apply(snap *Snapshot) ([]models.Transaction, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if f.IsEmpty() {
		return snap.Transactions, nil
	}

	view := make([]models.Transaction, 0, snap.Len())
	for _, tx := range snap.Transactions {
		if f.matches(tx) {
			view = append(view, tx)
		}
	}
	return view, nil
}

func (f Filter) matches(tx models.Transaction) bool {
	if f.DateFrom != nil && tx.OrderDate.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && tx.OrderDate.After(*f.DateTo) {
		return false
	}
	if f.Category != "" && tx.Category != f.Category {
		return false
	}
	if f.Region != "" && tx.Region != f.Region {
		return false
	}
	if f.Segment != "" && tx.Segment != f.Segment {
		return false
	}
	return true
}

// ParseFilter reads the shared filter query parameters. Dates use the
// YYYY-MM-DD layout.
func ParseFilter(q url.Values) (Filter, error) {
	f := Filter{
		Category: q.Get("categorie"),
		Region:   q.Get("region"),
		Segment:  q.Get("segment"),
	}

	if v := q.Get("date_debut"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return Filter{}, errors.InvalidFilterWrap(err, "date_debut must be formatted YYYY-MM-DD")
		}
		f.DateFrom = &t
	}

	if v := q.Get("date_fin"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return Filter{}, errors.InvalidFilterWrap(err, "date_fin must be formatted YYYY-MM-DD")
		}
		f.DateTo = &t
	}

	if err := f.Validate(); err != nil {
		return Filter{}, err
	}
	return f, nil
}
