package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"cardstats/internal/core"
	"cardstats/internal/report"
	"cardstats/internal/views"
)

// handleHealth performs basic liveness check
func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(h.started).String(),
	})
}

// handleDashboard serves the home page view for the requested timestamp.
// A missing date means "now".
func (h *handlers) handleDashboard(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		date = time.Now().Format(views.AsOfLayout)
	}

	dashboard, err := h.dashboard.HomePage(r.Context(), date)
	if err != nil {
		h.log.Error("dashboard assembly failed", "date", date, "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (h *handlers) handleCategoryReport(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if category == "" {
		writeError(w, http.StatusBadRequest, "category parameter is required")
		return
	}

	result, err := h.reports.SpendingByCategory(r.Context(), category, r.URL.Query().Get("date"))
	if err != nil {
		h.log.Error("category report failed", "category", category, "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result.Records())
}

func (h *handlers) handleCategorySummary(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if category == "" {
		writeError(w, http.StatusBadRequest, "category parameter is required")
		return
	}

	summary, err := h.reports.CategorySummary(r.Context(), category, r.URL.Query().Get("date"))
	if err != nil {
		h.log.Error("category summary failed", "category", category, "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *handlers) handleWeekdayReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reports.SpendingByWeekday(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.log.Error("weekday report failed", "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	if result == nil {
		result = []report.WeekdaySpend{}
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handlers) handleWorkdayReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reports.SpendingByWorkday(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.log.Error("workday report failed", "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handlers) handleCashback(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)
	if month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}

	result, err := h.reports.CashbackByCategory(r.Context(), year, month)
	if err != nil {
		h.log.Error("cashback analysis failed", "year", year, "month", month, "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// statusFor maps pipeline errors to HTTP statuses: caller mistakes are 4xx,
// data problems are 422, everything else is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrMissingColumn):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrNoTransactions):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
