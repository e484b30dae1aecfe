// Package http exposes the analytics over a JSON API: the dashboard view,
// the spending reports and the cashback analysis.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"cardstats/internal/services"
	"cardstats/internal/views"
)

type handlers struct {
	dashboard *views.Assembler
	reports   *services.ReportService
	log       *slog.Logger
	started   time.Time
}

// NewServer builds the API server. Callers own the returned http.Server
// and may tune its timeouts before serving.
func NewServer(addr string, dashboard *views.Assembler, reports *services.ReportService, logger *slog.Logger) *http.Server {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handlers{
		dashboard: dashboard,
		reports:   reports,
		log:       logger,
		started:   time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("GET /api/dashboard", h.handleDashboard)
	mux.HandleFunc("GET /api/reports/category", h.handleCategoryReport)
	mux.HandleFunc("GET /api/reports/category/summary", h.handleCategorySummary)
	mux.HandleFunc("GET /api/reports/weekday", h.handleWeekdayReport)
	mux.HandleFunc("GET /api/reports/workday", h.handleWorkdayReport)
	mux.HandleFunc("GET /api/cashback", h.handleCashback)

	return &http.Server{
		Addr:    addr,
		Handler: h.withRequestLog(mux),
	}
}

// withRequestLog logs method, path and duration for every request.
func (h *handlers) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.log.Info("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).String())
	})
}
