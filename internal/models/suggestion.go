package models

// AISuggestion is the ai_suggestions row shape.
type AISuggestion struct {
	SuggestionID         string  `db:"suggestion_id"`
	TransactionID        string  `db:"transaction_id"`
	PharmacyID           string  `db:"pharmacy_id"`
	SuggestedAccountCode int     `db:"suggested_account_code"`
	SuggestedDescription string  `db:"suggested_description"`
	Confidence           float64 `db:"confidence"`
	Status               string  `db:"status"`
	AuditFields
}
