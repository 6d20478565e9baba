package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerSource identifies what produced a ledger entry.
type LedgerSource string

const (
	SourceBank   LedgerSource = "BANK"
	SourceManual LedgerSource = "MANUAL"
)

// LedgerEntry is one balanced double-entry posting.
// Invariants: Amount > 0 and DebitAccountID != CreditAccountID.
// At most one ledger entry may link back to a given bank transaction.
type LedgerEntry struct {
	LedgerEntryID     string          `json:"ledgerEntryID"` // Primary key (UUID)
	PharmacyID        string          `json:"pharmacyID"`
	Date              time.Time       `json:"date"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"` // Always positive
	DebitAccountID    string          `json:"debitAccountID"`
	CreditAccountID   string          `json:"creditAccountID"`
	Source            LedgerSource    `json:"source"`
	BankTransactionID *string         `json:"bankTransactionID"`
	AuditFields
}
