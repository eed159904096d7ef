package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"superstore-bi/internal/models"
	"superstore-bi/internal/services"
)

func testTx(order, customer, product, category, subCategory, region, segment string, date time.Time, sales, profit float64) models.Transaction {
	return models.Transaction{
		OrderID:     order,
		OrderDate:   date,
		CustomerID:  customer,
		Segment:     segment,
		ProductName: product,
		Category:    category,
		SubCategory: subCategory,
		Sales:       sales,
		Quantity:    1,
		Profit:      profit,
		Region:      region,
		State:       "California",
		City:        "Los Angeles",
	}
}

func createTestAnalytics() *services.Analytics {
	a := services.NewAnalytics(slog.Default())
	a.SetData([]models.Transaction{
		testTx("O1", "C1", "Laptop", "Technology", "Machines", "West", "Consumer",
			time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC), 500, 100),
		testTx("O2", "C1", "Laptop", "Technology", "Machines", "West", "Consumer",
			time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), 800, 160),
		testTx("O3", "C2", "Chair", "Furniture", "Chairs", "East", "Corporate",
			time.Date(2023, 6, 10, 0, 0, 0, 0, time.UTC), 300, 30),
	})
	return a
}

func newTestHandlers() *APIHandlers {
	return NewAPIHandlers(createTestAnalytics(), slog.Default())
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	return response
}

func TestAPIHandlers_HandleGlobalKPIs(t *testing.T) {
	h := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/kpi/globaux", nil)
	w := httptest.NewRecorder()

	h.HandleGlobalKPIs(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q", ct)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=300" {
		t.Errorf("cache-control = %q", cc)
	}

	response := decodeEnvelope(t, w)
	if success, ok := response["success"].(bool); !ok || !success {
		t.Error("expected success=true")
	}

	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatal("expected data object")
	}
	if data["ca_total"].(float64) != 1600 {
		t.Errorf("ca_total = %v, want 1600", data["ca_total"])
	}
	if data["nb_commandes"].(float64) != 3 {
		t.Errorf("nb_commandes = %v, want 3", data["nb_commandes"])
	}
}

func TestAPIHandlers_HandleGlobalKPIs_Filtered(t *testing.T) {
	h := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/kpi/globaux?categorie=Furniture", nil)
	w := httptest.NewRecorder()

	h.HandleGlobalKPIs(w, req)

	response := decodeEnvelope(t, w)
	data := response["data"].(map[string]interface{})
	if data["ca_total"].(float64) != 300 {
		t.Errorf("filtered ca_total = %v, want 300", data["ca_total"])
	}
}

func TestAPIHandlers_InvalidFilterDates(t *testing.T) {
	h := newTestHandlers()

	tests := []struct {
		name string
		url  string
	}{
		{"bad layout", "/api/kpi/globaux?date_debut=15/03/2023"},
		{"inverted range", "/api/kpi/globaux?date_debut=2023-12-01&date_fin=2023-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()

			h.HandleGlobalKPIs(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}

			response := decodeEnvelope(t, w)
			if success, ok := response["success"].(bool); !ok || success {
				t.Error("expected success=false")
			}
			errObj, ok := response["error"].(map[string]interface{})
			if !ok {
				t.Fatal("expected error object")
			}
			if errObj["code"] != "INVALID_FILTER" {
				t.Errorf("error code = %v, want INVALID_FILTER", errObj["code"])
			}
		})
	}
}

func TestAPIHandlers_HandleTopProducts_Params(t *testing.T) {
	h := newTestHandlers()

	tests := []struct {
		name   string
		url    string
		status int
	}{
		{"defaults", "/api/kpi/produits/top", http.StatusOK},
		{"valid tri_par", "/api/kpi/produits/top?tri_par=profit", http.StatusOK},
		{"invalid tri_par", "/api/kpi/produits/top?tri_par=price", http.StatusBadRequest},
		{"non-integer limite", "/api/kpi/produits/top?limite=abc", http.StatusBadRequest},
		{"out-of-range limite clamps", "/api/kpi/produits/top?limite=500", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()

			h.HandleTopProducts(w, req)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

func TestAPIHandlers_HandleBCGMatrix(t *testing.T) {
	h := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/kpi/produits/bcg", nil)
	w := httptest.NewRecorder()

	h.HandleBCGMatrix(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	response := decodeEnvelope(t, w)
	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatal("expected data object")
	}
	for _, field := range []string{"data", "seuils", "repartition"} {
		if _, ok := data[field]; !ok {
			t.Errorf("BCG payload missing %q", field)
		}
	}
}

func TestAPIHandlers_HandleEvolution_InvalidPeriode(t *testing.T) {
	h := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/kpi/temporel?periode=semaine", nil)
	w := httptest.NewRecorder()

	h.HandleEvolution(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAPIHandlers_HandleOrders(t *testing.T) {
	h := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/data/commandes?limite=2&offset=1", nil)
	w := httptest.NewRecorder()

	h.HandleOrders(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	response := decodeEnvelope(t, w)
	data := response["data"].(map[string]interface{})
	if data["total"].(float64) != 3 {
		t.Errorf("total = %v, want 3", data["total"])
	}
	if data["offset"].(float64) != 1 {
		t.Errorf("offset = %v, want 1", data["offset"])
	}
	page, ok := data["data"].([]interface{})
	if !ok || len(page) != 2 {
		t.Errorf("expected a page of 2 records, got %v", data["data"])
	}
}

func TestAPIHandlers_HandleFilterValues(t *testing.T) {
	h := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/filters/valeurs", nil)
	w := httptest.NewRecorder()

	h.HandleFilterValues(w, req)

	response := decodeEnvelope(t, w)
	data := response["data"].(map[string]interface{})
	categories, ok := data["categories"].([]interface{})
	if !ok || len(categories) != 2 {
		t.Errorf("expected 2 categories, got %v", data["categories"])
	}
	if _, ok := data["plage_dates"]; !ok {
		t.Error("expected plage_dates in filter values")
	}
}

func TestAPIHandlers_HandleExport(t *testing.T) {
	h := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/export", nil)
	w := httptest.NewRecorder()

	h.HandleExport(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("content-type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Error("expected a Content-Disposition attachment header")
	}
	if w.Body.Len() == 0 {
		t.Error("expected a non-empty workbook body")
	}
}

func TestAPIHandlers_HandleHealth(t *testing.T) {
	h := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	h.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "" {
		t.Errorf("health endpoint should not set cache-control, got %q", cc)
	}

	response := decodeEnvelope(t, w)
	data := response["data"].(map[string]interface{})
	if data["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", data["status"])
	}
	if ts, ok := data["timestamp"].(string); !ok || ts == "" {
		t.Error("expected a timestamp")
	} else if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("invalid timestamp format: %v", err)
	}
}

func TestAPIHandlers_HandleStats(t *testing.T) {
	h := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	w := httptest.NewRecorder()

	h.HandleStats(w, req)

	response := decodeEnvelope(t, w)
	data := response["data"].(map[string]interface{})
	if data["record_count"].(float64) != 3 {
		t.Errorf("record_count = %v, want 3", data["record_count"])
	}
}
