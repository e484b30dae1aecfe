package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"cardstats/internal/core"
	"cardstats/internal/ledger/memory"
	"cardstats/internal/report"
	"cardstats/internal/services"
	"cardstats/internal/views"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testHandler(store *memory.Store) http.Handler {
	logger := discardLogger()
	assembler := views.NewAssembler(store, nil, nil, nil, logger)
	reports := services.NewReportService(store, report.NewGenerator(logger), nil, logger)
	return NewServer(":0", assembler, reports, logger).Handler
}

func seededHandler() http.Handler {
	return testHandler(memory.Seeded())
}

func do(t *testing.T, h http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, url, nil))
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("response is not valid JSON: %v\n%s", err, rr.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	rr := do(t, seededHandler(), "/healthz")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var body map[string]string
	decode(t, rr, &body)
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	rr := do(t, seededHandler(), "/api/dashboard?date=2024-01-31+12:00:00")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	var body struct {
		Greeting string        `json:"greeting"`
		Cards    []views.Card  `json:"cards"`
		Rates    []interface{} `json:"currency_rates"`
	}
	decode(t, rr, &body)
	if body.Greeting != "Добрый день" {
		t.Fatalf("greeting = %q", body.Greeting)
	}
	if len(body.Cards) == 0 {
		t.Fatalf("expected cards, got %s", rr.Body.String())
	}
	if body.Rates == nil {
		t.Fatalf("currency_rates must be an empty list, not null: %s", rr.Body.String())
	}
}

func TestDashboardInvalidDate(t *testing.T) {
	rr := do(t, seededHandler(), "/api/dashboard?date=31.01.2024")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	var body map[string]string
	decode(t, rr, &body)
	if body["error"] == "" {
		t.Fatalf("expected error payload, got %s", rr.Body.String())
	}
}

func TestDashboardEmptyLedger(t *testing.T) {
	h := testHandler(memory.New(core.LedgerColumns, nil))
	rr := do(t, h, "/api/dashboard?date=2024-01-31+12:00:00")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestCategoryReportEndpoint(t *testing.T) {
	h := seededHandler()

	rr := do(t, h, "/api/reports/category")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing category: status = %d", rr.Code)
	}

	rr = do(t, h, "/api/reports/category?category=Супермаркеты&date=31.01.2024")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	var rows []map[string]string
	decode(t, rr, &rows)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["Дата операции"] != "15.01.2024" {
		t.Fatalf("date not formatted: %v", rows[0])
	}
}

func TestCategorySummaryEndpoint(t *testing.T) {
	h := seededHandler()

	rr := do(t, h, "/api/reports/category/summary")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing category: status = %d", rr.Code)
	}

	rr = do(t, h, "/api/reports/category/summary?category=Супермаркеты&date=31.01.2024")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	var body services.CategorySummary
	decode(t, rr, &body)
	if body.Category != "Супермаркеты" || body.TransactionsCount != 2 {
		t.Fatalf("summary = %+v", body)
	}
}

func TestWeekdayReportEndpoint(t *testing.T) {
	rr := do(t, seededHandler(), "/api/reports/weekday?date=31.01.2024")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	var rows []report.WeekdaySpend
	decode(t, rr, &rows)
	if len(rows) == 0 {
		t.Fatalf("expected weekday rows, got %s", rr.Body.String())
	}

	// A window with no expenses still answers with a list.
	rr = do(t, seededHandler(), "/api/reports/weekday?date=31.01.2030")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := rr.Body.String(); got[0] != '[' {
		t.Fatalf("empty report must render as a list, got %s", got)
	}
}

func TestWorkdayReportEndpoint(t *testing.T) {
	rr := do(t, seededHandler(), "/api/reports/workday?date=31.01.2024")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	var body report.WorkdayReport
	decode(t, rr, &body)
	if body.Workday.TransactionCount == 0 && body.Weekend.TransactionCount == 0 {
		t.Fatalf("expected transactions in the report: %s", rr.Body.String())
	}
}

func TestCashbackEndpoint(t *testing.T) {
	h := seededHandler()

	rr := do(t, h, "/api/cashback?year=2024&month=13")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad month: status = %d", rr.Code)
	}

	rr = do(t, h, "/api/cashback?year=2024&month=1")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	var body map[string]float64
	decode(t, rr, &body)
	if body["Путешествия"] != 25.00 {
		t.Fatalf("cashback = %v", body)
	}
}

func TestCashbackMissingColumns(t *testing.T) {
	h := testHandler(memory.New([]string{core.ColOperationDate}, nil))
	rr := do(t, h, "/api/cashback?year=2024&month=1")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", rr.Code, rr.Body.String())
	}
}
