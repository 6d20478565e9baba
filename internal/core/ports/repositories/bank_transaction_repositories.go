package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pharbooks/pharma_books_app/internal/core/domain"
)

// BankTransactionReader defines read operations for bank transactions.
type BankTransactionReader interface {
	// FindTransactionByID retrieves a transaction by its ID.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.BankTransaction, error)

	// FindByBankAccountAndPeriod retrieves all stored transactions for a bank
	// account with dates in [from, to]. The duplicate detector loads the full
	// candidate set this way before any insert happens.
	FindByBankAccountAndPeriod(ctx context.Context, bankAccountID string, from, to time.Time) ([]domain.BankTransaction, error)

	// ListTransactionsByBatch retrieves all transactions in an import batch.
	ListTransactionsByBatch(ctx context.Context, batchID string) ([]domain.BankTransaction, error)
}

// BankTransactionWriter defines write operations for bank transactions.
type BankTransactionWriter interface {
	// InsertTransactionsInTx bulk-inserts transactions within tx using a
	// single batch round trip. The whole batch fails together.
	InsertTransactionsInTx(ctx context.Context, tx pgx.Tx, txns []domain.BankTransaction) error

	// InsertTransactionInTx inserts a single transaction within tx. Used as
	// the row-by-row fallback when a bulk chunk fails.
	InsertTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.BankTransaction) error

	// MarkClassifiedInTx updates classification status, timestamps and
	// linkage for a transaction within tx.
	MarkClassifiedInTx(ctx context.Context, tx pgx.Tx, transactionID string, status domain.ClassificationStatus, ruleID *string, suggestionID *string, ledgerEntryID *string, userID string, now time.Time) error

	// UpdateSuggestionState sets the advisory suggestion linkage and status
	// outside any posting transaction (ai_classified / back to unclassified).
	UpdateSuggestionState(ctx context.Context, transactionID string, status domain.ClassificationStatus, suggestionID *string, userID string, now time.Time) error
}

// BankTransactionRepositoryFacade combines reader and writer.
type BankTransactionRepositoryFacade interface {
	BankTransactionReader
	BankTransactionWriter
}

// BankTransactionRepositoryWithTx adds transaction control.
type BankTransactionRepositoryWithTx interface {
	BankTransactionRepositoryFacade
	TransactionManager
}
