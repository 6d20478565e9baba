package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharbooks/pharma_books_app/internal/core/domain"
)

// BankTransactionResponse is the API shape of a bank transaction.
type BankTransactionResponse struct {
	TransactionID        string           `json:"transactionID"`
	BatchID              string           `json:"batchID"`
	BankAccountID        string           `json:"bankAccountID"`
	PharmacyID           string           `json:"pharmacyID"`
	Date                 time.Time        `json:"date"`
	Description          string           `json:"description"`
	RawDescription       string           `json:"rawDescription"`
	Reference            string           `json:"reference,omitempty"`
	Amount               decimal.Decimal  `json:"amount"`
	Balance              *decimal.Decimal `json:"balance,omitempty"`
	ExternalID           string           `json:"externalID"`
	ClassificationStatus string           `json:"classificationStatus"`
	SuspectedDuplicate   bool             `json:"suspectedDuplicate"`
	ClassifiedAt         *time.Time       `json:"classifiedAt,omitempty"`
	ClassifiedByRuleID   *string          `json:"classifiedByRuleID,omitempty"`
	AISuggestionID       *string          `json:"aiSuggestionID,omitempty"`
	LedgerEntryID        *string          `json:"ledgerEntryID,omitempty"`
}

// ToBankTransactionResponse converts a domain transaction to its API shape.
func ToBankTransactionResponse(t *domain.BankTransaction) BankTransactionResponse {
	return BankTransactionResponse{
		TransactionID:        t.TransactionID,
		BatchID:              t.BatchID,
		BankAccountID:        t.BankAccountID,
		PharmacyID:           t.PharmacyID,
		Date:                 t.Date,
		Description:          t.Description,
		RawDescription:       t.RawDescription,
		Reference:            t.Reference,
		Amount:               t.Amount,
		Balance:              t.Balance,
		ExternalID:           t.ExternalID,
		ClassificationStatus: string(t.Status),
		SuspectedDuplicate:   t.SuspectedDup,
		ClassifiedAt:         t.ClassifiedAt,
		ClassifiedByRuleID:   t.ClassifiedByRule,
		AISuggestionID:       t.AISuggestionID,
		LedgerEntryID:        t.LedgerEntryID,
	}
}

// ToBankTransactionResponses converts a slice of domain transactions.
func ToBankTransactionResponses(ts []domain.BankTransaction) []BankTransactionResponse {
	out := make([]BankTransactionResponse, len(ts))
	for i := range ts {
		out[i] = ToBankTransactionResponse(&ts[i])
	}
	return out
}

// ManualClassifyRequest classifies a transaction directly against an account,
// bypassing rules and suggestions.
type ManualClassifyRequest struct {
	AccountID   string `json:"accountID" binding:"required"`
	Description string `json:"description"`
}
