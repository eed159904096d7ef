package services

import (
	"testing"
	"time"

	"superstore-bi/internal/models"
)

func categoryFixture() []models.Transaction {
	d := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	return []models.Transaction{
		makeTx("O1", "C1", "Laptop", "Technology", "Machines", d, 200, 30.30),
		makeTx("O2", "C1", "Chair", "Furniture", "Chairs", d, 100, 10.10),
		makeTx("O3", "C2", "Binder", "Office Supplies", "Binders", d, 50, -5.15),
	}
}

func TestCategoryPerformance(t *testing.T) {
	rows := CategoryPerformance(categoryFixture())

	if len(rows) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(rows))
	}
	if rows[0].Categorie != "Technology" || rows[0].CA != 200 {
		t.Errorf("first row should be Technology at 200, got %s at %f", rows[0].Categorie, rows[0].CA)
	}
	if rows[0].MargePct != 15.15 {
		t.Errorf("Technology margin = %f, want 15.15", rows[0].MargePct)
	}
	if rows[2].Categorie != "Office Supplies" {
		t.Errorf("rows must be sorted by CA descending, got %s last", rows[2].Categorie)
	}
}

func TestWaterfall(t *testing.T) {
	result := Waterfall(categoryFixture())

	// 3 category entries plus the terminal total row.
	if len(result.Waterfall) != 4 {
		t.Fatalf("expected 4 waterfall entries, got %d", len(result.Waterfall))
	}

	entries := result.Waterfall
	if entries[0].Label != "Technology" || entries[1].Label != "Furniture" || entries[2].Label != "Office Supplies" {
		t.Errorf("categories must be ordered by profit descending: %s, %s, %s",
			entries[0].Label, entries[1].Label, entries[2].Label)
	}

	// Running cumul: 30.30, 40.40, 35.25.
	if entries[0].Cumul != 30.30 || entries[1].Cumul != 40.40 || entries[2].Cumul != 35.25 {
		t.Errorf("unexpected cumul sequence: %f, %f, %f", entries[0].Cumul, entries[1].Cumul, entries[2].Cumul)
	}

	last := entries[len(entries)-1]
	if last.Type != models.WaterfallTotal || last.Label != "Total" {
		t.Errorf("last entry must be the total row, got %+v", last)
	}

	var sum float64
	for _, e := range entries[:len(entries)-1] {
		if e.Type != models.WaterfallCategory {
			t.Errorf("entry %s has type %s, want category", e.Label, e.Type)
		}
		sum += e.Value
	}
	if round2(sum) != result.ProfitTotal {
		t.Errorf("category values sum to %f, profit_total is %f; the cascade must add up exactly", sum, result.ProfitTotal)
	}
	if last.Value != result.ProfitTotal || last.Cumul != result.ProfitTotal {
		t.Errorf("total row must equal profit_total %f, got value %f cumul %f", result.ProfitTotal, last.Value, last.Cumul)
	}

	if result.CATotal != 350 {
		t.Errorf("CATotal = %f, want 350", result.CATotal)
	}
	if len(result.DetailSousCategories) != 3 {
		t.Errorf("expected 3 sub-category details, got %d", len(result.DetailSousCategories))
	}
	if result.DetailSousCategories[0].SousCategorie != "Machines" {
		t.Errorf("details must be sorted by profit descending, got %s first", result.DetailSousCategories[0].SousCategorie)
	}
}

func TestWaterfall_EmptyView(t *testing.T) {
	result := Waterfall(nil)

	if len(result.Waterfall) != 1 {
		t.Fatalf("empty view should still produce the total row, got %d entries", len(result.Waterfall))
	}
	if result.Waterfall[0].Type != models.WaterfallTotal || result.ProfitTotal != 0 {
		t.Errorf("unexpected empty waterfall: %+v", result)
	}
}

func TestCategoryMatrix(t *testing.T) {
	d := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	view := []models.Transaction{
		makeTx("O1", "C1", "P1", "Technology", "Machines", d, 1000, 500), // margin 50
		makeTx("O2", "C1", "P2", "Technology", "Phones", d, 900, 9),      // margin 1
		makeTx("O3", "C2", "P3", "Furniture", "Chairs", d, 100, 40),      // margin 40
		makeTx("O4", "C2", "P4", "Furniture", "Tables", d, 50, 1),        // margin 2
	}

	result := CategoryMatrix(view)

	if len(result.Data) != 4 {
		t.Fatalf("expected 4 sub-categories, got %d", len(result.Data))
	}
	// CA median 500, margin median 21.
	if result.Seuils.CAMedian != 500 || result.Seuils.MargeMedian != 21 {
		t.Errorf("unexpected thresholds: %+v", result.Seuils)
	}

	quadrants := make(map[string]string)
	for _, e := range result.Data {
		quadrants[e.SousCategorie] = e.Quadrant
	}
	want := map[string]string{
		"Machines": models.QuadrantPriority,
		"Phones":   models.QuadrantOptimize,
		"Chairs":   models.QuadrantDevelop,
		"Tables":   models.QuadrantAbandon,
	}
	for sub, q := range want {
		if quadrants[sub] != q {
			t.Errorf("%s quadrant = %s, want %s", sub, quadrants[sub], q)
		}
	}

	rep := result.Repartition
	if rep.Priorite != 1 || rep.Optimiser != 1 || rep.Developper != 1 || rep.Abandonner != 1 {
		t.Errorf("unexpected repartition: %+v", rep)
	}
	if rep.Priorite+rep.Optimiser+rep.Developper+rep.Abandonner != len(result.Data) {
		t.Error("repartition counts must cover every sub-category")
	}
}
