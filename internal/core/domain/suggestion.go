package domain

// SuggestionStatus tracks the human decision on an AI suggestion.
type SuggestionStatus string

const (
	SuggestionPending  SuggestionStatus = "pending"
	SuggestionAccepted SuggestionStatus = "accepted"
	SuggestionRejected SuggestionStatus = "rejected"
)

// AISuggestion is an advisory classification proposal for a bank transaction.
// It never produces a ledger entry until a human accepts it.
type AISuggestion struct {
	SuggestionID         string           `json:"suggestionID"` // Primary key (UUID)
	TransactionID        string           `json:"transactionID"`
	PharmacyID           string           `json:"pharmacyID"`
	SuggestedAccountCode int              `json:"suggestedAccountCode"`
	SuggestedDescription string           `json:"suggestedDescription"`
	Confidence           float64          `json:"confidence"`
	Status               SuggestionStatus `json:"status"`
	AuditFields
}
