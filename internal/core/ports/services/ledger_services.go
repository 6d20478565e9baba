package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/pharbooks/pharma_books_app/internal/core/domain"
	"github.com/pharbooks/pharma_books_app/internal/dto"
)

// PostBankTransactionRequest instructs the ledger poster to create one
// balanced entry for a bank transaction and mark it classified, atomically.
type PostBankTransactionRequest struct {
	Transaction     domain.BankTransaction
	TargetAccountID string
	Description     string
	// Amount overrides the posted amount for allocation splits.
	// Nil means the absolute transaction amount.
	Amount       *decimal.Decimal
	Status       domain.ClassificationStatus
	RuleID       *string
	SuggestionID *string
}

// LedgerSvcFacade creates balanced double-entry ledger records.
type LedgerSvcFacade interface {
	// PostForTransaction posts one entry for a bank transaction. Fails with
	// apperrors.ErrConflict when the transaction already has a linked entry
	// and apperrors.ErrConfiguration when no bank ledger account exists.
	PostForTransaction(ctx context.Context, req PostBankTransactionRequest, userID string) (string, error)

	// ClassifyManually is the direct unclassified -> user_override path.
	ClassifyManually(ctx context.Context, pharmacyID, transactionID string, req dto.ManualClassifyRequest, userID string) (*domain.LedgerEntry, error)

	// PostManual creates a standalone MANUAL-source entry.
	PostManual(ctx context.Context, pharmacyID string, req dto.CreateLedgerEntryRequest, userID string) (*domain.LedgerEntry, error)

	GetLedgerEntryByID(ctx context.Context, pharmacyID, ledgerEntryID string) (*domain.LedgerEntry, error)
}
