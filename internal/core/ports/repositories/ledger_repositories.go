package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/pharbooks/pharma_books_app/internal/core/domain"
)

// LedgerRepositoryFacade defines persistence operations for ledger entries.
type LedgerRepositoryFacade interface {
	// InsertLedgerEntryInTx persists a ledger entry within tx so that the
	// insert and the transaction's classification update commit together.
	InsertLedgerEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error

	// SaveLedgerEntry persists a standalone (manual) ledger entry.
	SaveLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error

	// FindLedgerEntryByID retrieves a ledger entry by its ID.
	FindLedgerEntryByID(ctx context.Context, ledgerEntryID string) (*domain.LedgerEntry, error)

	// FindByBankTransactionID retrieves the ledger entry linked to a bank
	// transaction, or apperrors.ErrNotFound when none exists.
	FindByBankTransactionID(ctx context.Context, transactionID string) (*domain.LedgerEntry, error)
}

// LedgerRepositoryWithTx adds transaction control for atomic posting.
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	TransactionManager
}
