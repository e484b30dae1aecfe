package report

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

type recordingNotifier struct {
	operation string
	file      string
	calls     int
}

func (n *recordingNotifier) ReportSaved(_ context.Context, operation, file string) {
	n.operation = operation
	n.file = file
	n.calls++
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTabular struct{ records []map[string]string }

func (f fakeTabular) Records() []map[string]string { return f.records }

func TestPersistDerivedName(t *testing.T) {
	dir := t.TempDir()
	notifier := &recordingNotifier{}
	saver := NewSaver(dir, discardLogger(), notifier).WithClock(fixedNow)

	result := Persist(context.Background(), saver, "spending_by_weekday", func() []WeekdaySpend {
		return []WeekdaySpend{{Index: 0, Name: "Понедельник", Average: 10, Total: 10, Count: 1}}
	})
	if len(result) != 1 {
		t.Fatalf("result must pass through, got %+v", result)
	}

	wantPath := filepath.Join(dir, "report_spending_by_weekday_20240131_120000.json")
	body, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("artifact is not valid JSON: %v", err)
	}
	if decoded[0]["название_дня"] != "Понедельник" {
		t.Fatalf("unexpected artifact content: %s", body)
	}

	if notifier.calls != 1 || notifier.operation != "spending_by_weekday" || notifier.file != wantPath {
		t.Fatalf("notifier not told about the artifact: %+v", notifier)
	}
}

func TestPersistAsExplicitName(t *testing.T) {
	dir := t.TempDir()
	saver := NewSaver(dir, discardLogger(), nil).WithClock(fixedNow)

	PersistAs(context.Background(), saver, "spending_by_workday", "custom", func() WorkdayReport {
		return WorkdayReport{}
	})
	if _, err := os.Stat(filepath.Join(dir, "custom.json")); err != nil {
		t.Fatalf(".json suffix not appended: %v", err)
	}

	PersistAs(context.Background(), saver, "spending_by_workday", "named.json", func() WorkdayReport {
		return WorkdayReport{}
	})
	if _, err := os.Stat(filepath.Join(dir, "named.json")); err != nil {
		t.Fatalf("explicit name not honored: %v", err)
	}
}

func TestPersistNilSaver(t *testing.T) {
	got := Persist[int](context.Background(), nil, "op", func() int { return 42 })
	if got != 42 {
		t.Fatalf("nil saver must still return the result, got %d", got)
	}
}

func TestPersistTabularResult(t *testing.T) {
	dir := t.TempDir()
	saver := NewSaver(dir, discardLogger(), nil).WithClock(fixedNow)

	Persist(context.Background(), saver, "spending_by_category", func() Tabular {
		return fakeTabular{records: []map[string]string{{"Категория": "Супермаркеты"}}}
	})

	body, err := os.ReadFile(filepath.Join(dir, "report_spending_by_category_20240131_120000.json"))
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	var decoded []map[string]string
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("tabular artifact is not a record list: %v", err)
	}
	if decoded[0]["Категория"] != "Супермаркеты" {
		t.Fatalf("unexpected records: %s", body)
	}
}

func TestPersistNilSliceSerializesAsEmptyList(t *testing.T) {
	dir := t.TempDir()
	saver := NewSaver(dir, discardLogger(), nil).WithClock(fixedNow)

	Persist(context.Background(), saver, "spending_by_weekday", func() []WeekdaySpend {
		return nil
	})

	body, err := os.ReadFile(filepath.Join(dir, "report_spending_by_weekday_20240131_120000.json"))
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	if string(body) != "[]" {
		t.Fatalf("nil slice expected [], got %s", body)
	}
}

func TestPersistWriteFailureDoesNotChangeResult(t *testing.T) {
	// A regular file in place of the reports directory makes every save fail.
	dir := t.TempDir()
	blocked := filepath.Join(dir, "reports")
	if err := os.WriteFile(blocked, []byte("x"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	notifier := &recordingNotifier{}
	saver := NewSaver(blocked, discardLogger(), notifier).WithClock(fixedNow)

	got := Persist(context.Background(), saver, "spending_by_workday", func() WorkdayReport {
		return WorkdayReport{Workday: DayPartSummary{TotalSpent: 5}}
	})
	if got.Workday.TotalSpent != 5 {
		t.Fatalf("failed save must not change the result, got %+v", got)
	}
	if notifier.calls != 0 {
		t.Fatalf("notifier must not fire on a failed save")
	}
}
