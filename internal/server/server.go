package server

import (
	"log/slog"
	"net/http"

	"superstore-bi/internal/handlers"
	"superstore-bi/internal/services"
)

type Server struct {
	analytics   *services.Analytics
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(analytics *services.Analytics, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		analytics:   analytics,
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(analytics, logger),
		sseHandlers: handlers.NewSSEHandlers(analytics, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.HandleFunc("GET /", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// Global and product KPIs
	s.mux.HandleFunc("GET /api/kpi/globaux", s.apiHandlers.HandleGlobalKPIs)
	s.mux.HandleFunc("GET /api/kpi/produits/top", s.apiHandlers.HandleTopProducts)
	s.mux.HandleFunc("GET /api/kpi/produits/bcg", s.apiHandlers.HandleBCGMatrix)
	s.mux.HandleFunc("GET /api/kpi/produits/faible-marge", s.apiHandlers.HandleLowMargin)

	// Category KPIs
	s.mux.HandleFunc("GET /api/kpi/categories", s.apiHandlers.HandleCategories)
	s.mux.HandleFunc("GET /api/kpi/categories/waterfall", s.apiHandlers.HandleWaterfall)
	s.mux.HandleFunc("GET /api/kpi/categories/matrix", s.apiHandlers.HandleCategoryMatrix)

	// Temporal KPIs
	s.mux.HandleFunc("GET /api/kpi/temporel", s.apiHandlers.HandleEvolution)
	s.mux.HandleFunc("GET /api/kpi/temporel/avance", s.apiHandlers.HandleMonthlyTrend)
	s.mux.HandleFunc("GET /api/kpi/temporel/saisonnalite", s.apiHandlers.HandleSeasonality)

	// Geographic KPIs
	s.mux.HandleFunc("GET /api/kpi/geographique", s.apiHandlers.HandleRegions)
	s.mux.HandleFunc("GET /api/kpi/geographique/etats", s.apiHandlers.HandleStates)
	s.mux.HandleFunc("GET /api/kpi/geographique/villes", s.apiHandlers.HandleCities)

	// Customer KPIs
	s.mux.HandleFunc("GET /api/kpi/clients", s.apiHandlers.HandleCustomers)

	// Data access
	s.mux.HandleFunc("GET /api/filters/valeurs", s.apiHandlers.HandleFilterValues)
	s.mux.HandleFunc("GET /api/data/commandes", s.apiHandlers.HandleOrders)
	s.mux.HandleFunc("GET /api/export", s.apiHandlers.HandleExport)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/kpi", s.sseHandlers.HandleKPI)
	s.mux.HandleFunc("GET /sse/charts", s.sseHandlers.HandleCharts)
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
