package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"superstore-bi/internal/models"
	"superstore-bi/internal/services"
)

const (
	sseBCGLimit     = 50
	sseProductLimit = 10
)

var kpiCardsTemplate = template.Must(template.New("kpiCards").Parse(`
<div id="kpi-content">
<div class="kpi-grid">
<div class="kpi-card"><span class="kpi-label">CA total</span><strong>${{printf "%.2f" .CATotal}}</strong></div>
<div class="kpi-card"><span class="kpi-label">Profit</span><strong>${{printf "%.2f" .ProfitTotal}}</strong></div>
<div class="kpi-card"><span class="kpi-label">Marge</span><strong>{{printf "%.2f" .MargeMoyenne}}%</strong></div>
<div class="kpi-card"><span class="kpi-label">Commandes</span><strong>{{.NbCommandes}}</strong></div>
<div class="kpi-card"><span class="kpi-label">Clients</span><strong>{{.NbClients}}</strong></div>
<div class="kpi-card"><span class="kpi-label">Panier moyen</span><strong>${{printf "%.2f" .PanierMoyen}}</strong></div>
</div>
</div>`))

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *SSEHandlers) renderKPICards(kpi models.GlobalKPI) (string, error) {
	var buf strings.Builder
	err := kpiCardsTemplate.Execute(&buf, kpi)
	return buf.String(), err
}

// HandleKPI pushes the headline KPI cards fragment.
func (h *SSEHandlers) HandleKPI(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	view := h.analytics.Snapshot().Transactions
	html, err := h.renderKPICards(services.GlobalKPIs(view))
	if err != nil {
		h.logger.Error("render kpi cards", "error", err)
		return
	}
	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleCharts pushes the chart datasets (BCG scatter, monthly trend,
// state heatmap) as datastar signals.
func (h *SSEHandlers) HandleCharts(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	view := h.analytics.Snapshot().Transactions
	signals, err := json.Marshal(map[string]any{
		"bcgData":     services.BCGMatrix(view, sseBCGLimit),
		"monthlyData": services.MonthlyTrend(view).Data,
		"statesData":  services.StatePerformance(view).Data,
	})
	if err != nil {
		h.logger.Error("marshal chart signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	sse.PatchElements(`<div id="charts-content">Chart data loaded</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleRefreshAll recomputes and pushes every dashboard block in one
// stream.
func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	view := h.analytics.Snapshot().Transactions

	html, err := h.renderKPICards(services.GlobalKPIs(view))
	if err != nil {
		h.logger.Error("render kpi cards", "error", err)
		return
	}
	sse.PatchElements(html)

	signals, err := json.Marshal(map[string]any{
		"bcgData":      services.BCGMatrix(view, sseBCGLimit),
		"monthlyData":  services.MonthlyTrend(view).Data,
		"statesData":   services.StatePerformance(view).Data,
		"productsData": services.TopProducts(view, sseProductLimit, "ca"),
	})
	if err != nil {
		h.logger.Error("marshal refresh signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
