package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldBackend   = "backend"
	FieldCategory  = "category"
	FieldWindow    = "window"
	FieldFile      = "file"
	FieldYear      = "year"
	FieldMonth     = "month"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentReport  = "report"
	ComponentMarket  = "market"
	ComponentViews   = "views"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
)
