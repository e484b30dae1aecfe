package core

// Column names as they appear in the source ledger. The ledger is exported
// by the bank with Russian headers; they are treated as opaque keys here.
const (
	ColOperationDate = "Дата операции"
	ColPaymentDate   = "Дата платежа"
	ColPaymentAmount = "Сумма платежа"
	ColOperationSum  = "Сумма операции"
	ColCategory      = "Категория"
	ColDescription   = "Описание"
	ColCardNumber    = "Номер карты"
	ColMCC           = "MCC"
	ColCashback      = "Кешбэк"
)

// LedgerColumns is the canonical header order used by the CSV and SQLite
// backends when materializing a table.
var LedgerColumns = []string{
	ColOperationDate,
	ColPaymentDate,
	ColPaymentAmount,
	ColOperationSum,
	ColCategory,
	ColDescription,
	ColCardNumber,
	ColMCC,
	ColCashback,
}
