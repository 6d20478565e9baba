package services

import (
	"context"

	"github.com/pharbooks/pharma_books_app/internal/core/domain"
)

// SuggestionSvcFacade wraps the external text-classification call. Its output
// is untrusted: a suggestion has no ledger effect until a human accepts it.
type SuggestionSvcFacade interface {
	// SuggestForTransaction asks the external classifier for a proposal and
	// stores it. Adapter failure degrades to (nil, nil): no suggestion.
	SuggestForTransaction(ctx context.Context, pharmacyID, transactionID, userID string) (*domain.AISuggestion, error)

	// AcceptSuggestion posts the ledger entry for the suggested account and
	// moves the transaction to user_override.
	AcceptSuggestion(ctx context.Context, pharmacyID, transactionID, userID string) (*domain.LedgerEntry, error)

	// RejectSuggestion discards the suggestion and returns the transaction
	// to unclassified.
	RejectSuggestion(ctx context.Context, pharmacyID, transactionID, userID string) error
}
