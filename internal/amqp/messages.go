package amqp

import (
	"encoding/json"
	"time"
)

// ReportSavedMessage announces a report artifact written to disk. Consumers
// pick the file up from the shared reports directory; the payload carries
// only the pointer to it.
type ReportSavedMessage struct {
	Operation string    `json:"operation"`
	File      string    `json:"file"`
	SavedAt   time.Time `json:"saved_at"`
}

// NewReportSavedMessage creates a message for the given operation and file.
func NewReportSavedMessage(operation, file string) *ReportSavedMessage {
	return &ReportSavedMessage{
		Operation: operation,
		File:      file,
		SavedAt:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ReportSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportSavedMessageFromJSON creates a message from JSON bytes.
func ReportSavedMessageFromJSON(data []byte) (*ReportSavedMessage, error) {
	var m ReportSavedMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
