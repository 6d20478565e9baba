package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is the ledger_entries row shape.
type LedgerEntry struct {
	LedgerEntryID     string          `db:"ledger_entry_id"`
	PharmacyID        string          `db:"pharmacy_id"`
	EntryDate         time.Time       `db:"entry_date"`
	Description       string          `db:"description"`
	Amount            decimal.Decimal `db:"amount"`
	DebitAccountID    string          `db:"debit_account_id"`
	CreditAccountID   string          `db:"credit_account_id"`
	Source            string          `db:"source"`
	BankTransactionID *string         `db:"bank_transaction_id"`
	AuditFields
}
