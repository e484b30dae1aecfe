package amqp

import (
	"testing"
	"time"
)

func TestReportSavedMessageRoundTrip(t *testing.T) {
	msg := NewReportSavedMessage("spending_by_weekday", "/reports/report_spending_by_weekday_20240131_120000.json")
	if msg.SavedAt.IsZero() {
		t.Fatalf("SavedAt must be set")
	}
	msg.SavedAt = time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := ReportSavedMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if decoded.Operation != msg.Operation || decoded.File != msg.File || !decoded.SavedAt.Equal(msg.SavedAt) {
		t.Fatalf("round trip mismatch: %+v vs %+v", decoded, msg)
	}
}

func TestReportSavedMessageFromJSONInvalid(t *testing.T) {
	if _, err := ReportSavedMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	// Publishing through an absent client must be a no-op, not a panic.
	c.ReportSaved(nil, "spending_by_weekday", "file.json")
	if err := c.Close(); err != nil {
		t.Fatalf("Close on nil client: %v", err)
	}
}
