package dataset

import (
	"net/url"
	"testing"
	"time"

	"superstore-bi/internal/errors"
	"superstore-bi/internal/models"
)

func testSnapshot() *Snapshot {
	return NewSnapshot([]models.Transaction{
		{OrderID: "O1", OrderDate: time.Date(2022, 3, 10, 0, 0, 0, 0, time.UTC), CustomerID: "C1", Category: "Technology", Region: "West", Segment: "Consumer", State: "California", Sales: 100},
		{OrderID: "O2", OrderDate: time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), CustomerID: "C2", Category: "Furniture", Region: "East", Segment: "Corporate", State: "New York", Sales: 200},
		{OrderID: "O3", OrderDate: time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC), CustomerID: "C3", Category: "Technology", Region: "East", Segment: "Consumer", State: "New York", Sales: 300},
	})
}

func TestFilter_Apply_Empty(t *testing.T) {
	snap := testSnapshot()

	view, err := Filter{}.Apply(snap)
	if err != nil {
		t.Fatalf("empty filter should not error: %v", err)
	}
	if len(view) != snap.Len() {
		t.Errorf("empty filter should pass everything, got %d of %d", len(view), snap.Len())
	}
}

func TestFilter_Apply_Conjunctive(t *testing.T) {
	snap := testSnapshot()

	view, err := Filter{Category: "Technology", Region: "East"}.Apply(snap)
	if err != nil {
		t.Fatal(err)
	}
	if len(view) != 1 || view[0].OrderID != "O3" {
		t.Errorf("expected only O3, got %v", view)
	}
}

func TestFilter_Apply_DateBoundsInclusive(t *testing.T) {
	snap := testSnapshot()

	from := time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)

	view, err := Filter{DateFrom: &from, DateTo: &to}.Apply(snap)
	if err != nil {
		t.Fatal(err)
	}
	if len(view) != 2 {
		t.Errorf("both boundary dates should be included, got %d records", len(view))
	}
}

func TestFilter_Apply_Idempotent(t *testing.T) {
	snap := testSnapshot()
	f := Filter{Region: "East"}

	first, err := f.Apply(snap)
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.Apply(NewSnapshot(first))
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != len(second) {
		t.Errorf("applying the same filter twice changed the view: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].OrderID != second[i].OrderID {
			t.Errorf("record %d differs after second application", i)
		}
	}
}

func TestFilter_Validate_InvertedDates(t *testing.T) {
	from := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	err := Filter{DateFrom: &from, DateTo: &to}.Validate()
	if err == nil {
		t.Fatal("date_from after date_to should be rejected")
	}

	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.CodeInvalidFilter {
		t.Errorf("expected INVALID_FILTER, got %v", err)
	}
}

func TestParseFilter(t *testing.T) {
	q := url.Values{}
	q.Set("categorie", "Technology")
	q.Set("region", "West")
	q.Set("segment", "Consumer")
	q.Set("date_debut", "2023-01-01")
	q.Set("date_fin", "2023-12-31")

	f, err := ParseFilter(q)
	if err != nil {
		t.Fatalf("ParseFilter() should succeed: %v", err)
	}
	if f.Category != "Technology" || f.Region != "West" || f.Segment != "Consumer" {
		t.Errorf("unexpected filter fields: %+v", f)
	}
	if f.DateFrom == nil || f.DateTo == nil {
		t.Fatal("date bounds should be set")
	}
	if got := f.DateFrom.Format("2006-01-02"); got != "2023-01-01" {
		t.Errorf("DateFrom = %s", got)
	}
}

func TestParseFilter_BadDate(t *testing.T) {
	for _, param := range []string{"date_debut", "date_fin"} {
		q := url.Values{}
		q.Set(param, "15/01/2023")

		_, err := ParseFilter(q)
		if err == nil {
			t.Errorf("%s with wrong layout should be rejected", param)
			continue
		}
		appErr, ok := err.(*errors.AppError)
		if !ok || appErr.Code != errors.CodeInvalidFilter {
			t.Errorf("expected INVALID_FILTER for %s, got %v", param, err)
		}
	}
}

func TestParseFilter_InvertedDates(t *testing.T) {
	q := url.Values{}
	q.Set("date_debut", "2023-12-01")
	q.Set("date_fin", "2023-01-01")

	if _, err := ParseFilter(q); err == nil {
		t.Error("inverted date range should be rejected at parse time")
	}
}

func TestSnapshot_FilterValues(t *testing.T) {
	fv := testSnapshot().FilterValues()

	if len(fv.Categories) != 2 || fv.Categories[0] != "Furniture" {
		t.Errorf("categories should be distinct and sorted, got %v", fv.Categories)
	}
	if len(fv.Regions) != 2 {
		t.Errorf("expected 2 regions, got %v", fv.Regions)
	}
	if fv.PlageDates.Min != "2022-03-10" || fv.PlageDates.Max != "2023-09-01" {
		t.Errorf("unexpected date range: %+v", fv.PlageDates)
	}
}

func TestStore_Replace(t *testing.T) {
	store := NewStore()
	if store.Snapshot().Len() != 0 {
		t.Error("fresh store should hold an empty snapshot")
	}

	snap := testSnapshot()
	store.Replace(snap)

	if store.Snapshot() != snap {
		t.Error("Replace should swap in the new snapshot")
	}
}
