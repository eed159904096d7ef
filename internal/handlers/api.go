package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"superstore-bi/internal/dataset"
	"superstore-bi/internal/errors"
	"superstore-bi/internal/models"
	"superstore-bi/internal/observability"
	"superstore-bi/internal/report"
	"superstore-bi/internal/services"
)

const cacheControl = "public, max-age=300"

var cacheHeaders = map[string]string{"Cache-Control": cacheControl}

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// view resolves the filtered view shared by every KPI endpoint.
func (h *APIHandlers) view(r *http.Request) ([]models.Transaction, error) {
	f, err := dataset.ParseFilter(r.URL.Query())
	if err != nil {
		return nil, err
	}
	return f.Apply(h.analytics.Snapshot())
}

func (h *APIHandlers) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
}

func (h *APIHandlers) HandleGlobalKPIs(w http.ResponseWriter, r *http.Request) {
	view, err := h.view(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, services.GlobalKPIs(view), cacheHeaders)
}

func (h *APIHandlers) HandleTopProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limite, err := intParam(q, "limite", 10, 1, 50)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	triPar := q.Get("tri_par")
	if triPar == "" {
		triPar = "ca"
	}
	if triPar != "ca" && triPar != "profit" && triPar != "quantite" {
		h.writeErr(w, r, errors.BadRequest("tri_par must be one of: ca, profit, quantite"))
		return
	}

	view, err := h.view(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, services.TopProducts(view, limite, triPar), cacheHeaders)
}

func (h *APIHandlers) HandleBCGMatrix(w http.ResponseWriter, r *http.Request) {
	limite, err := intParam(r.URL.Query(), "limite", 50, 10, 200)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	view, err := h.view(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, services.BCGMatrix(view, limite), cacheHeaders)
}

func (h *APIHandlers) HandleLowMargin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limite, err := intParam(q, "limite", 20, 5, 100)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	seuil, err := floatParam(q, "seuil_marge", services.DefaultMarginThreshold)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	view, err := h.view(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, services.LowMarginProducts(view, seuil, limite), cacheHeaders)
}

func (h *APIHandlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	view, err := h.view(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, services.CategoryPerformance(view), cacheHeaders)
}

func (h *APIHandlers) HandleWaterfall(w http.ResponseWriter, r *http.Request) {
	view, err := h.view(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, services.Waterfall(view), cacheHeaders)
}

func (h *APIHandlers) HandleCategoryMatrix(w http.ResponseWriter, r *http.Request) {
	view, err := h.view(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, services.CategoryMatrix(view), cacheHeaders)
}

func (h *APIHandlers) HandleEvolution(w http.ResponseWriter, r *http.Request) {
	periode := r.URL.Query().Get("periode")
	if periode == "" {
		periode = "mois"
	}
	if periode != "jour" && periode != "mois" && periode != "annee" {
		h.writeErr(w, r, errors.BadRequest("periode must be one of: jour, mois, annee"))
		return
	}

	view, err := h.view(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, services.Evolution(view, periode), cacheHeaders)
}

func (h *APIHandlers) HandleMonthlyTrend(w http.ResponseWriter, r *http.Request) {
	view, err := h.view(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, services.MonthlyTrend(view), cacheHeaders)
}

func (h *APIHandlers) HandleSeasonality(w http.ResponseWriter, r *http.Request) {
	view, err := h.view(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, services.Seasonality(view), cacheHeaders)
}

func (h *APIHandlers) HandleRegions(w http.ResponseWriter, r *http.Request) {
	view, err := h.view(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, services.RegionPerformance(view), cacheHeaders)
}

func (h *APIHandlers) HandleStates(w http.ResponseWriter, r *http.Request) {
	view, err := h.view(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, services.StatePerformance(view), cacheHeaders)
}

func (h *APIHandlers) HandleCities(w http.ResponseWriter, r *http.Request) {
	limite, err := intParam(r.URL.Query(), "limite", 20, 5, 100)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	view, err := h.view(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, services.CityRankings(view, limite), cacheHeaders)
}

func (h *APIHandlers) HandleCustomers(w http.ResponseWriter, r *http.Request) {
	limite, err := intParam(r.URL.Query(), "limite", 10, 1, 100)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	view, err := h.view(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, services.Customers(view, limite), cacheHeaders)
}

func (h *APIHandlers) HandleFilterValues(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.Snapshot().FilterValues(), cacheHeaders)
}

func (h *APIHandlers) HandleOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limite, err := intParam(q, "limite", 100, 1, 1000)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	offset, err := intParam(q, "offset", 0, 0, 1<<30)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	total, page := h.analytics.Orders(limite, offset)
	errors.WriteSuccess(w, map[string]any{
		"total":  total,
		"limite": limite,
		"offset": offset,
		"data":   page,
	})
}

// HandleExport streams an Excel workbook of the filtered KPIs.
func (h *APIHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	view, err := h.view(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	workbook, err := report.BuildWorkbook(
		services.GlobalKPIs(view),
		services.CategoryPerformance(view),
		services.StatePerformance(view).Data,
	)
	if err != nil {
		h.writeErr(w, r, errors.InternalWrap(err, "failed to build export workbook"))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=superstore-kpi-%s.xlsx", time.Now().Format("2006-01-02")))
	if err := workbook.Write(w); err != nil {
		h.logger.Error("failed to stream export workbook", "error", err)
	}
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}

// intParam parses an integer query parameter, clamping it into
// [lo, hi]. A value that is not an integer is a bad request.
func intParam(q url.Values, name string, def, lo, hi int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.BadRequest(fmt.Sprintf("%s must be an integer", name))
	}
	if v < lo {
		return lo, nil
	}
	if v > hi {
		return hi, nil
	}
	return v, nil
}

func floatParam(q url.Values, name string, def float64) (float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.BadRequest(fmt.Sprintf("%s must be a number", name))
	}
	return v, nil
}
