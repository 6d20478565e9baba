package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharbooks/pharma_books_app/internal/core/domain"
)

// CreateLedgerEntryRequest creates a manual double-entry posting.
type CreateLedgerEntryRequest struct {
	Date            time.Time       `json:"date" binding:"required"`
	Description     string          `json:"description" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	DebitAccountID  string          `json:"debitAccountID" binding:"required"`
	CreditAccountID string          `json:"creditAccountID" binding:"required"`
}

// LedgerEntryResponse is the API shape of a ledger entry.
type LedgerEntryResponse struct {
	LedgerEntryID     string          `json:"ledgerEntryID"`
	PharmacyID        string          `json:"pharmacyID"`
	Date              time.Time       `json:"date"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	DebitAccountID    string          `json:"debitAccountID"`
	CreditAccountID   string          `json:"creditAccountID"`
	Source            string          `json:"source"`
	BankTransactionID *string         `json:"bankTransactionID,omitempty"`
}

// ToLedgerEntryResponse converts a domain ledger entry to its API shape.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		LedgerEntryID:     e.LedgerEntryID,
		PharmacyID:        e.PharmacyID,
		Date:              e.Date,
		Description:       e.Description,
		Amount:            e.Amount,
		DebitAccountID:    e.DebitAccountID,
		CreditAccountID:   e.CreditAccountID,
		Source:            string(e.Source),
		BankTransactionID: e.BankTransactionID,
	}
}
