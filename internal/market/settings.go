// Package market loads user enrichment settings and fetches currency
// rates and stock prices from external providers. Lookups are best-effort:
// a failed call means "no data", never a failed run.
package market

import (
	"encoding/json"
	"log/slog"
	"os"
)

// UserSettings lists the symbols the dashboard enriches.
type UserSettings struct {
	UserCurrencies []string `json:"user_currencies"`
	UserStocks     []string `json:"user_stocks"`
}

// DefaultSettings is used when the settings file is missing or unreadable.
func DefaultSettings() UserSettings {
	return UserSettings{
		UserCurrencies: []string{"USD"},
		UserStocks:     []string{"AAPL"},
	}
}

// LoadSettings reads the settings file. Any failure degrades to the
// documented defaults with a logged diagnostic.
func LoadSettings(path string, logger *slog.Logger) UserSettings {
	if logger == nil {
		logger = slog.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("user settings not readable, using defaults", "path", path, "error", err)
		return DefaultSettings()
	}
	var settings UserSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		logger.Warn("user settings not valid JSON, using defaults", "path", path, "error", err)
		return DefaultSettings()
	}
	return settings
}
