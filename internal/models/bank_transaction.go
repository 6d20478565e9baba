package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankTransaction is the bank_transactions row shape.
type BankTransaction struct {
	TransactionID    string           `db:"transaction_id"`
	BatchID          string           `db:"batch_id"`
	BankAccountID    string           `db:"bank_account_id"`
	PharmacyID       string           `db:"pharmacy_id"`
	Date             time.Time        `db:"txn_date"`
	Description      string           `db:"description"`
	RawDescription   string           `db:"raw_description"`
	Reference        string           `db:"reference"`
	Amount           decimal.Decimal  `db:"amount"`
	Balance          *decimal.Decimal `db:"balance"`
	RawFields        string           `db:"raw_fields"`
	ExternalID       string           `db:"external_id"`
	Status           string           `db:"classification_status"`
	SuspectedDup     bool             `db:"suspected_duplicate"`
	ClassifiedAt     *time.Time       `db:"classified_at"`
	ClassifiedByRule *string          `db:"classified_by_rule_id"`
	AISuggestionID   *string          `db:"ai_suggestion_id"`
	LedgerEntryID    *string          `db:"ledger_entry_id"`
	AuditFields
}
