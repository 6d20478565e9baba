package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClassificationStatus is the lifecycle state of a bank transaction with
// respect to having been assigned a ledger account.
type ClassificationStatus string

const (
	// Unclassified transactions are eligible for rule and AI classification.
	Unclassified ClassificationStatus = "unclassified"
	// RuleClassified is terminal: the rule engine posted a ledger entry.
	RuleClassified ClassificationStatus = "rule_classified"
	// AIClassified is advisory only; a human must accept or reject it.
	AIClassified ClassificationStatus = "ai_classified"
	// UserOverride is terminal: a human classified the transaction.
	UserOverride ClassificationStatus = "user_override"
)

// BankTransaction is one bank statement line.
// Created at import time; mutated only by the classification step.
type BankTransaction struct {
	TransactionID    string               `json:"transactionID"` // Primary key (UUID)
	BatchID          string               `json:"batchID"`
	BankAccountID    string               `json:"bankAccountID"`
	PharmacyID       string               `json:"pharmacyID"`
	Date             time.Time            `json:"date"`
	Description      string               `json:"description"`    // Normalized for rule matching
	RawDescription   string               `json:"rawDescription"` // As read from the statement
	Reference        string               `json:"reference"`
	Amount           decimal.Decimal      `json:"amount"`  // Signed: positive inflow, negative outflow
	Balance          *decimal.Decimal     `json:"balance"` // Running balance if the statement carries one
	RawFields        string               `json:"rawFields"` // Opaque source fields, JSON-encoded
	ExternalID       string               `json:"externalID"` // Deterministic fingerprint, unique per bank account
	Status           ClassificationStatus `json:"classificationStatus"`
	SuspectedDup     bool                 `json:"suspectedDuplicate"` // Imported but flagged for review
	ClassifiedAt     *time.Time           `json:"classifiedAt"`
	ClassifiedByRule *string              `json:"classifiedByRuleID"`
	AISuggestionID   *string              `json:"aiSuggestionID"`
	LedgerEntryID    *string              `json:"ledgerEntryID"`
	AuditFields
}

// Inflow reports whether the transaction is money coming into the bank account.
func (t BankTransaction) Inflow() bool {
	return t.Amount.Sign() > 0
}
