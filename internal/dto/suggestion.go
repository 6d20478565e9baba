package dto

import "github.com/pharbooks/pharma_books_app/internal/core/domain"

// SuggestionResponse is the API shape of an AI classification suggestion.
// Suggestions are advisory; nothing is posted until a human accepts one.
type SuggestionResponse struct {
	SuggestionID         string  `json:"suggestionID"`
	TransactionID        string  `json:"transactionID"`
	SuggestedAccountCode int     `json:"suggestedAccountCode"`
	SuggestedDescription string  `json:"suggestedDescription"`
	Confidence           float64 `json:"confidence"`
	Status               string  `json:"status"`
}

// ToSuggestionResponse converts a domain suggestion to its API shape.
func ToSuggestionResponse(s *domain.AISuggestion) SuggestionResponse {
	return SuggestionResponse{
		SuggestionID:         s.SuggestionID,
		TransactionID:        s.TransactionID,
		SuggestedAccountCode: s.SuggestedAccountCode,
		SuggestedDescription: s.SuggestedDescription,
		Confidence:           s.Confidence,
		Status:               string(s.Status),
	}
}
