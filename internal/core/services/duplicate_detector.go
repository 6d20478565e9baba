package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharbooks/pharma_books_app/internal/core/domain"
	portsrepo "github.com/pharbooks/pharma_books_app/internal/core/ports/repositories"
	"github.com/pharbooks/pharma_books_app/internal/statement"
)

// DupOutcome classifies a parsed row against already-stored transactions.
type DupOutcome string

const (
	// DupNew rows are inserted normally.
	DupNew DupOutcome = "new"
	// DupExact rows are skipped silently.
	DupExact DupOutcome = "exact"
	// DupSuspected rows are inserted but flagged for human review.
	// False negatives beat silently dropping legitimate transactions.
	DupSuspected DupOutcome = "suspected"
)

// RowVerdict pairs a parsed row with its duplicate classification and the
// deterministic fingerprint it will be stored under.
type RowVerdict struct {
	Row        statement.ParsedRow
	Outcome    DupOutcome
	ExternalID string
}

// DuplicateDetector classifies parsed rows in three tiers, first match wins:
// external-id fingerprint, exact field match from a prior batch, and
// same-date-same-amount similarity.
type DuplicateDetector struct {
	txnRepo portsrepo.BankTransactionReader
}

// NewDuplicateDetector creates a detector backed by stored transactions.
func NewDuplicateDetector(txnRepo portsrepo.BankTransactionReader) *DuplicateDetector {
	return &DuplicateDetector{txnRepo: txnRepo}
}

// Fingerprint computes the external id for a statement line:
// SHA-256 over bank account, date, amount and normalized description.
func Fingerprint(bankAccountID string, date time.Time, amount decimal.Decimal, description string) string {
	payload := fmt.Sprintf("%s|%s|%s|%s",
		bankAccountID,
		date.Format("2006-01-02"),
		amount.String(),
		statement.NormalizeDescription(description),
	)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Classify evaluates the full parsed set against stored transactions for the
// bank account. It sees every row before any insert happens, so duplicates
// inside the uploaded file itself are also caught.
func (d *DuplicateDetector) Classify(ctx context.Context, bankAccountID string, rows []statement.ParsedRow) ([]RowVerdict, error) {
	verdicts := make([]RowVerdict, 0, len(rows))
	if len(rows) == 0 {
		return verdicts, nil
	}

	from, to := rows[0].Date, rows[0].Date
	for _, row := range rows[1:] {
		if row.Date.Before(from) {
			from = row.Date
		}
		if row.Date.After(to) {
			to = row.Date
		}
	}

	existing, err := d.txnRepo.FindByBankAccountAndPeriod(ctx, bankAccountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing transactions for duplicate detection: %w", err)
	}

	byExternalID := make(map[string]struct{}, len(existing))
	byDateAmount := make(map[string][]int, len(existing))
	for i, txn := range existing {
		byExternalID[txn.ExternalID] = struct{}{}
		key := dateAmountKey(txn.Date, txn.Amount)
		byDateAmount[key] = append(byDateAmount[key], i)
	}

	seenInFile := make(map[string]struct{}, len(rows))

	for _, row := range rows {
		extID := Fingerprint(bankAccountID, row.Date, row.Amount, row.Description)
		verdict := RowVerdict{Row: row, ExternalID: extID, Outcome: DupNew}

		_, storedMatch := byExternalID[extID]
		_, fileMatch := seenInFile[extID]

		switch {
		case storedMatch || fileMatch:
			// Tier 1: fingerprint match, high confidence.
			verdict.Outcome = DupExact
		default:
			verdict.Outcome = d.classifyByFields(row, existing, byDateAmount)
		}

		seenInFile[extID] = struct{}{}
		verdicts = append(verdicts, verdict)
	}

	return verdicts, nil
}

// classifyByFields runs tiers 2 and 3: an exact field match against a row
// from a prior batch is a duplicate; a same-date same-amount row with a
// different description is only a suspect.
func (d *DuplicateDetector) classifyByFields(row statement.ParsedRow, existing []domain.BankTransaction, byDateAmount map[string][]int) DupOutcome {
	key := dateAmountKey(row.Date, row.Amount)
	candidates, ok := byDateAmount[key]
	if !ok {
		return DupNew
	}

	suspected := false
	for _, idx := range candidates {
		txn := existing[idx]
		if txn.Description == row.Description {
			// Tier 2: identical fields stored by an earlier batch.
			return DupExact
		}
		suspected = true
	}
	if suspected {
		return DupSuspected
	}
	return DupNew
}

func dateAmountKey(date time.Time, amount decimal.Decimal) string {
	return date.Format("2006-01-02") + "|" + amount.String()
}
