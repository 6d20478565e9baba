package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharbooks/pharma_books_app/internal/apperrors"
	"github.com/pharbooks/pharma_books_app/internal/core/domain"
	portsrepo "github.com/pharbooks/pharma_books_app/internal/core/ports/repositories"
	"github.com/pharbooks/pharma_books_app/internal/models"
	"github.com/pharbooks/pharma_books_app/internal/utils/mapping"
)

type PgxBankTransactionRepository struct {
	BaseRepository
}

// newPgxBankTransactionRepository creates a new repository for bank transaction data.
func newPgxBankTransactionRepository(pool *pgxpool.Pool) portsrepo.BankTransactionRepositoryWithTx {
	return &PgxBankTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxBankTransactionRepository implements portsrepo.BankTransactionRepositoryWithTx
var _ portsrepo.BankTransactionRepositoryWithTx = (*PgxBankTransactionRepository)(nil)

const bankTransactionColumns = `transaction_id, batch_id, bank_account_id, pharmacy_id, txn_date, description, raw_description, reference, amount, balance, raw_fields, external_id, classification_status, suspected_duplicate, classified_at, classified_by_rule_id, ai_suggestion_id, ledger_entry_id, created_at, created_by, last_updated_at, last_updated_by`

const insertBankTransactionQuery = `
	INSERT INTO bank_transactions (` + bankTransactionColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
`

func bankTransactionArgs(m models.BankTransaction) []any {
	return []any{
		m.TransactionID,
		m.BatchID,
		m.BankAccountID,
		m.PharmacyID,
		m.Date,
		m.Description,
		m.RawDescription,
		m.Reference,
		m.Amount,
		m.Balance,
		m.RawFields,
		m.ExternalID,
		m.Status,
		m.SuspectedDup,
		m.ClassifiedAt,
		m.ClassifiedByRule,
		m.AISuggestionID,
		m.LedgerEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

// InsertTransactionsInTx bulk-inserts transactions within tx using a single
// batch round trip. The whole batch fails together.
func (r *PgxBankTransactionRepository) InsertTransactionsInTx(ctx context.Context, tx pgx.Tx, txns []domain.BankTransaction) error {
	if len(txns) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, txn := range txns {
		batch.Queue(insertBankTransactionQuery, bankTransactionArgs(mapping.ToModelBankTransaction(txn))...)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for i := range txns {
		if _, err := br.Exec(); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: transaction %s already imported", apperrors.ErrDuplicate, txns[i].ExternalID)
			}
			return fmt.Errorf("failed to insert transaction %s: %w", txns[i].TransactionID, err)
		}
	}
	return nil
}

// InsertTransactionInTx inserts a single transaction within tx.
func (r *PgxBankTransactionRepository) InsertTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.BankTransaction) error {
	_, err := tx.Exec(ctx, insertBankTransactionQuery, bankTransactionArgs(mapping.ToModelBankTransaction(txn))...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transaction %s already imported", apperrors.ErrDuplicate, txn.ExternalID)
		}
		return fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, err)
	}
	return nil
}

// MarkClassifiedInTx updates classification status, timestamps and linkage
// for a transaction within tx.
func (r *PgxBankTransactionRepository) MarkClassifiedInTx(ctx context.Context, tx pgx.Tx, transactionID string, status domain.ClassificationStatus, ruleID *string, suggestionID *string, ledgerEntryID *string, userID string, now time.Time) error {
	query := `
		UPDATE bank_transactions
		SET classification_status = $2,
		    classified_at = $3,
		    classified_by_rule_id = $4,
		    ai_suggestion_id = COALESCE($5, ai_suggestion_id),
		    ledger_entry_id = $6,
		    last_updated_at = $3,
		    last_updated_by = $7
		WHERE transaction_id = $1;
	`
	tag, err := tx.Exec(ctx, query, transactionID, string(status), now, ruleID, suggestionID, ledgerEntryID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark transaction %s classified: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
	}
	return nil
}

// UpdateSuggestionState sets the advisory suggestion linkage and status
// outside any posting transaction.
func (r *PgxBankTransactionRepository) UpdateSuggestionState(ctx context.Context, transactionID string, status domain.ClassificationStatus, suggestionID *string, userID string, now time.Time) error {
	query := `
		UPDATE bank_transactions
		SET classification_status = $2,
		    ai_suggestion_id = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE transaction_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, transactionID, string(status), suggestionID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update suggestion state for transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
	}
	return nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxBankTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.BankTransaction, error) {
	query := `SELECT ` + bankTransactionColumns + ` FROM bank_transactions WHERE transaction_id = $1;`

	m, err := scanBankTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	txn := mapping.ToDomainBankTransaction(m)
	return &txn, nil
}

// FindByBankAccountAndPeriod retrieves all stored transactions for a bank
// account with dates in [from, to].
func (r *PgxBankTransactionRepository) FindByBankAccountAndPeriod(ctx context.Context, bankAccountID string, from, to time.Time) ([]domain.BankTransaction, error) {
	query := `
		SELECT ` + bankTransactionColumns + `
		FROM bank_transactions
		WHERE bank_account_id = $1 AND txn_date BETWEEN $2 AND $3
		ORDER BY txn_date ASC, created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, bankAccountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for bank account %s: %w", bankAccountID, err)
	}
	defer rows.Close()

	return collectBankTransactions(rows)
}

// ListTransactionsByBatch retrieves all transactions in an import batch.
func (r *PgxBankTransactionRepository) ListTransactionsByBatch(ctx context.Context, batchID string) ([]domain.BankTransaction, error) {
	query := `
		SELECT ` + bankTransactionColumns + `
		FROM bank_transactions
		WHERE batch_id = $1
		ORDER BY txn_date ASC, created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for batch %s: %w", batchID, err)
	}
	defer rows.Close()

	return collectBankTransactions(rows)
}

func collectBankTransactions(rows pgx.Rows) ([]domain.BankTransaction, error) {
	var ms []models.BankTransaction
	for rows.Next() {
		m, err := scanBankTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return mapping.ToDomainBankTransactionSlice(ms), nil
}

func scanBankTransaction(row pgx.Row) (models.BankTransaction, error) {
	var m models.BankTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.BatchID,
		&m.BankAccountID,
		&m.PharmacyID,
		&m.Date,
		&m.Description,
		&m.RawDescription,
		&m.Reference,
		&m.Amount,
		&m.Balance,
		&m.RawFields,
		&m.ExternalID,
		&m.Status,
		&m.SuspectedDup,
		&m.ClassifiedAt,
		&m.ClassifiedByRule,
		&m.AISuggestionID,
		&m.LedgerEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}
