package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharbooks/pharma_books_app/internal/apperrors"
	"github.com/pharbooks/pharma_books_app/internal/core/domain"
	portsrepo "github.com/pharbooks/pharma_books_app/internal/core/ports/repositories"
	"github.com/pharbooks/pharma_books_app/internal/models"
	"github.com/pharbooks/pharma_books_app/internal/utils/mapping"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger entry data.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryWithTx {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryWithTx
var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

const ledgerColumns = `ledger_entry_id, pharmacy_id, entry_date, description, amount, debit_account_id, credit_account_id, source, bank_transaction_id, created_at, created_by, last_updated_at, last_updated_by`

const insertLedgerEntryQuery = `
	INSERT INTO ledger_entries (` + ledgerColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
`

func ledgerEntryArgs(m models.LedgerEntry) []any {
	return []any{
		m.LedgerEntryID,
		m.PharmacyID,
		m.EntryDate,
		m.Description,
		m.Amount,
		m.DebitAccountID,
		m.CreditAccountID,
		m.Source,
		m.BankTransactionID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

// InsertLedgerEntryInTx persists a ledger entry within tx.
func (r *PgxLedgerRepository) InsertLedgerEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	_, err := tx.Exec(ctx, insertLedgerEntryQuery, ledgerEntryArgs(mapping.ToModelLedgerEntry(entry))...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ledger entry for bank transaction already exists", apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to insert ledger entry %s: %w", entry.LedgerEntryID, err)
	}
	return nil
}

// SaveLedgerEntry persists a standalone (manual) ledger entry.
func (r *PgxLedgerRepository) SaveLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error {
	_, err := r.Pool.Exec(ctx, insertLedgerEntryQuery, ledgerEntryArgs(mapping.ToModelLedgerEntry(entry))...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ledger entry %s already exists", apperrors.ErrDuplicate, entry.LedgerEntryID)
		}
		return fmt.Errorf("failed to save ledger entry %s: %w", entry.LedgerEntryID, err)
	}
	return nil
}

// FindLedgerEntryByID retrieves a ledger entry by its ID.
func (r *PgxLedgerRepository) FindLedgerEntryByID(ctx context.Context, ledgerEntryID string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE ledger_entry_id = $1;`

	m, err := scanLedgerEntry(r.Pool.QueryRow(ctx, query, ledgerEntryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ledger entry %s: %w", ledgerEntryID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find ledger entry %s: %w", ledgerEntryID, err)
	}
	entry := mapping.ToDomainLedgerEntry(m)
	return &entry, nil
}

// FindByBankTransactionID retrieves the ledger entry linked to a bank
// transaction, or apperrors.ErrNotFound when none exists.
func (r *PgxLedgerRepository) FindByBankTransactionID(ctx context.Context, transactionID string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE bank_transaction_id = $1;`

	m, err := scanLedgerEntry(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ledger entry for transaction %s: %w", transactionID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find ledger entry for transaction %s: %w", transactionID, err)
	}
	entry := mapping.ToDomainLedgerEntry(m)
	return &entry, nil
}

func scanLedgerEntry(row pgx.Row) (models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.LedgerEntryID,
		&m.PharmacyID,
		&m.EntryDate,
		&m.Description,
		&m.Amount,
		&m.DebitAccountID,
		&m.CreditAccountID,
		&m.Source,
		&m.BankTransactionID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}
