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

type PgxImportBatchRepository struct {
	BaseRepository
}

// newPgxImportBatchRepository creates a new repository for import batch data.
func newPgxImportBatchRepository(pool *pgxpool.Pool) portsrepo.ImportBatchRepositoryWithTx {
	return &PgxImportBatchRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxImportBatchRepository implements portsrepo.ImportBatchRepositoryWithTx
var _ portsrepo.ImportBatchRepositoryWithTx = (*PgxImportBatchRepository)(nil)

// InsertBatchInTx persists the batch row within tx.
func (r *PgxImportBatchRepository) InsertBatchInTx(ctx context.Context, tx pgx.Tx, batch domain.ImportBatch) error {
	m := mapping.ToModelImportBatch(batch)

	query := `
		INSERT INTO import_batches (batch_id, bank_account_id, pharmacy_id, file_name, period_start, period_end, status, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := tx.Exec(ctx, query,
		m.BatchID,
		m.BankAccountID,
		m.PharmacyID,
		m.FileName,
		m.PeriodStart,
		m.PeriodEnd,
		m.Status,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert import batch %s: %w", m.BatchID, err)
	}
	return nil
}

// InsertImportErrorsInTx persists row-level parse errors within tx using a
// single batch round trip.
func (r *PgxImportBatchRepository) InsertImportErrorsInTx(ctx context.Context, tx pgx.Tx, errs []domain.ImportError) error {
	if len(errs) == 0 {
		return nil
	}

	query := `
		INSERT INTO import_errors (import_error_id, batch_id, row_number, reason, raw_row, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	batch := &pgx.Batch{}
	for _, e := range errs {
		m := mapping.ToModelImportError(e)
		batch.Queue(query,
			m.ImportErrorID,
			m.BatchID,
			m.RowNumber,
			m.Reason,
			m.RawRow,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for range errs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert import error: %w", err)
		}
	}
	return nil
}

// FindBatchByID retrieves a batch by its ID.
func (r *PgxImportBatchRepository) FindBatchByID(ctx context.Context, batchID string) (*domain.ImportBatch, error) {
	query := `
		SELECT batch_id, bank_account_id, pharmacy_id, file_name, period_start, period_end, status, notes, created_at, created_by, last_updated_at, last_updated_by
		FROM import_batches WHERE batch_id = $1;
	`
	var m models.ImportBatch
	err := r.Pool.QueryRow(ctx, query, batchID).Scan(
		&m.BatchID,
		&m.BankAccountID,
		&m.PharmacyID,
		&m.FileName,
		&m.PeriodStart,
		&m.PeriodEnd,
		&m.Status,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("import batch %s: %w", batchID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find import batch %s: %w", batchID, err)
	}

	batch := mapping.ToDomainImportBatch(m)
	return &batch, nil
}

// ListImportErrorsByBatch retrieves the persisted parse errors for a batch.
func (r *PgxImportBatchRepository) ListImportErrorsByBatch(ctx context.Context, batchID string) ([]domain.ImportError, error) {
	query := `
		SELECT import_error_id, batch_id, row_number, reason, raw_row, created_at, created_by, last_updated_at, last_updated_by
		FROM import_errors WHERE batch_id = $1 ORDER BY row_number ASC;
	`
	rows, err := r.Pool.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list import errors for batch %s: %w", batchID, err)
	}
	defer rows.Close()

	var out []domain.ImportError
	for rows.Next() {
		var m models.ImportError
		if err := rows.Scan(
			&m.ImportErrorID,
			&m.BatchID,
			&m.RowNumber,
			&m.Reason,
			&m.RawRow,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan import error row: %w", err)
		}
		out = append(out, domain.ImportError{
			ImportErrorID: m.ImportErrorID,
			BatchID:       m.BatchID,
			RowNumber:     m.RowNumber,
			Reason:        m.Reason,
			RawRow:        m.RawRow,
			AuditFields:   mapping.ToDomainAuditFields(m.AuditFields),
		})
	}
	return out, rows.Err()
}
