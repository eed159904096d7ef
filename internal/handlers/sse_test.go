package handlers

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"superstore-bi/internal/models"
	"superstore-bi/internal/services"
)

func TestNewSSEHandlers(t *testing.T) {
	analytics := createTestAnalytics()
	logger := slog.Default()

	handlers := NewSSEHandlers(analytics, logger)

	if handlers == nil {
		t.Fatal("NewSSEHandlers() returned nil")
	}
	if handlers.analytics != analytics {
		t.Error("NewSSEHandlers() should set analytics field")
	}
}

func TestSSEHandlers_renderKPICards(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), slog.Default())

	kpi := models.GlobalKPI{
		CATotal:      1600,
		ProfitTotal:  290,
		MargeMoyenne: 18.13,
		NbCommandes:  3,
		NbClients:    2,
		PanierMoyen:  533.33,
	}

	html, err := handlers.renderKPICards(kpi)
	if err != nil {
		t.Fatalf("renderKPICards() failed: %v", err)
	}

	expectedContent := []string{
		`id="kpi-content"`,
		"1600.00",
		"290.00",
		"18.13%",
		"533.33",
	}
	for _, content := range expectedContent {
		if !strings.Contains(html, content) {
			t.Errorf("expected HTML to contain %q", content)
		}
	}
}

func TestSSEHandlers_HandleKPI(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/sse/kpi", nil)
	w := httptest.NewRecorder()

	handlers.HandleKPI(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("content-type = %q, should contain 'text/event-stream'", ct)
	}

	body := w.Body.String()
	if !strings.Contains(body, "kpi-content") {
		t.Error("response should contain the KPI fragment")
	}
}

func TestSSEHandlers_HandleCharts(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/sse/charts", nil)
	w := httptest.NewRecorder()

	handlers.HandleCharts(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	body := w.Body.String()
	for _, signal := range []string{"bcgData", "monthlyData", "statesData"} {
		if !strings.Contains(body, signal) {
			t.Errorf("response should contain %q signal", signal)
		}
	}
}

func TestSSEHandlers_HandleRefreshAll(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/sse/refresh-all", nil)
	w := httptest.NewRecorder()

	handlers.HandleRefreshAll(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	body := w.Body.String()
	for _, signal := range []string{"bcgData", "monthlyData", "statesData", "productsData"} {
		if !strings.Contains(body, signal) {
			t.Errorf("response should contain %q signal", signal)
		}
	}
	if !strings.Contains(body, "kpi-content") {
		t.Error("response should contain the KPI fragment")
	}
}

func TestSSEHandlers_HeaderConsistency(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), slog.Default())

	endpoints := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"kpi", handlers.HandleKPI},
		{"charts", handlers.HandleCharts},
		{"refresh-all", handlers.HandleRefreshAll},
	}

	for _, endpoint := range endpoints {
		t.Run(endpoint.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			w := httptest.NewRecorder()

			endpoint.handler(w, req)

			if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
				t.Errorf("content-type = %q, should contain 'text/event-stream'", ct)
			}

			body := w.Body.String()
			if !strings.Contains(body, "data:") {
				t.Error("response should contain SSE event format")
			}
		})
	}
}

func TestSSEHandlers_EmptySnapshot(t *testing.T) {
	analytics := services.NewAnalytics(slog.Default())
	handlers := NewSSEHandlers(analytics, slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/sse/refresh-all", nil)
	w := httptest.NewRecorder()

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("handler panicked on empty snapshot: %v", r)
		}
	}()

	handlers.HandleRefreshAll(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
