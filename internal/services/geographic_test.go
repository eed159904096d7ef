package services

import (
	"testing"
	"time"

	"superstore-bi/internal/models"
)

func geoTx(order, customer, region, state, city string, sales, profit float64) models.Transaction {
	return models.Transaction{
		OrderID:     order,
		OrderDate:   time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		CustomerID:  customer,
		Segment:     "Consumer",
		ProductName: "P",
		Category:    "Technology",
		SubCategory: "Machines",
		Sales:       sales,
		Quantity:    1,
		Profit:      profit,
		Region:      region,
		State:       state,
		City:        city,
	}
}

func TestRegionPerformance(t *testing.T) {
	view := []models.Transaction{
		geoTx("O1", "C1", "West", "California", "Los Angeles", 100, 10),
		geoTx("O2", "C1", "West", "California", "San Diego", 200, 20),
		geoTx("O3", "C2", "East", "New York", "New York City", 500, 50),
	}

	rows := RegionPerformance(view)

	if len(rows) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(rows))
	}
	if rows[0].Region != "East" || rows[0].CA != 500 {
		t.Errorf("first region should be East at 500, got %s at %f", rows[0].Region, rows[0].CA)
	}
	if rows[1].NbClients != 1 || rows[1].NbCommandes != 2 {
		t.Errorf("West should have 1 client and 2 orders, got %+v", rows[1])
	}
}

func TestStatePerformance(t *testing.T) {
	view := []models.Transaction{
		geoTx("O1", "C1", "West", "California", "Los Angeles", 1000, 300), // margin 30
		geoTx("O2", "C2", "Central", "Texas", "Austin", 900, 9),           // margin 1
		geoTx("O3", "C3", "East", "Vermont", "Burlington", 100, 40),       // margin 40
		geoTx("O4", "C4", "East", "Ohio", "Columbus", 50, 1),              // margin 2
	}

	result := StatePerformance(view)

	if len(result.Data) != 4 {
		t.Fatalf("expected 4 states, got %d", len(result.Data))
	}
	// CA median 500, margin median 16.
	if result.Seuils.CAMedian != 500 || result.Seuils.MargeMedian != 16 {
		t.Errorf("unexpected thresholds: %+v", result.Seuils)
	}

	classes := make(map[string]string)
	for _, s := range result.Data {
		classes[s.Etat] = s.Performance
	}
	want := map[string]string{
		"California": PerfHigh,
		"Texas":      PerfVolume,
		"Vermont":    PerfMargin,
		"Ohio":       PerfDevelop,
	}
	for state, class := range want {
		if classes[state] != class {
			t.Errorf("%s class = %s, want %s", state, classes[state], class)
		}
	}

	if result.Data[0].Etat != "California" {
		t.Errorf("states must be sorted by CA descending, got %s first", result.Data[0].Etat)
	}
	if result.Data[0].CAParClient != 1000 {
		t.Errorf("California CA per client = %f, want 1000", result.Data[0].CAParClient)
	}
}

func TestCityRankings(t *testing.T) {
	view := []models.Transaction{
		geoTx("O1", "C1", "West", "California", "Los Angeles", 1000, 100),
		geoTx("O2", "C2", "Central", "Texas", "Austin", 500, 250),
		geoTx("O3", "C3", "East", "Massachusetts", "Boston", 500, 50),
		geoTx("O4", "C4", "East", "New York", "New York City", 200, 20),
	}

	result := CityRankings(view, 3)

	if len(result.TopCA) != 3 {
		t.Fatalf("expected 3 cities per ranking, got %d", len(result.TopCA))
	}
	if result.TopCA[0].Ville != "Los Angeles" {
		t.Errorf("top city by CA should be Los Angeles, got %s", result.TopCA[0].Ville)
	}
	// Austin and Boston tie at 500; ties break on city name.
	if result.TopCA[1].Ville != "Austin" || result.TopCA[2].Ville != "Boston" {
		t.Errorf("tied cities must be ordered by name: %s, %s", result.TopCA[1].Ville, result.TopCA[2].Ville)
	}

	if result.TopMarge[0].Ville != "Austin" {
		t.Errorf("top city by margin should be Austin (50%%), got %s", result.TopMarge[0].Ville)
	}

	stats := result.Statistiques
	if stats.NbVillesTotal != 4 {
		t.Errorf("NbVillesTotal = %d, want 4 (full population, not the truncated list)", stats.NbVillesTotal)
	}
	if stats.CAMoyenVille != 550 {
		t.Errorf("CAMoyenVille = %f, want 550", stats.CAMoyenVille)
	}
}

func TestCityRankings_SameCityNameDifferentStates(t *testing.T) {
	view := []models.Transaction{
		geoTx("O1", "C1", "East", "New York", "Springfield", 100, 10),
		geoTx("O2", "C2", "Central", "Illinois", "Springfield", 200, 20),
	}

	result := CityRankings(view, 10)
	if result.Statistiques.NbVillesTotal != 2 {
		t.Errorf("cities are keyed per state, expected 2 entries, got %d", result.Statistiques.NbVillesTotal)
	}
	if result.TopCA[0].Etat != "Illinois" {
		t.Errorf("top Springfield should be the Illinois one, got %s", result.TopCA[0].Etat)
	}
}
