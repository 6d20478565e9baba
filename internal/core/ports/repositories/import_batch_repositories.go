package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/pharbooks/pharma_books_app/internal/core/domain"
)

// ImportBatchRepositoryFacade defines persistence operations for import
// batches and their row-level error records.
type ImportBatchRepositoryFacade interface {
	// InsertBatchInTx persists the batch row within tx.
	InsertBatchInTx(ctx context.Context, tx pgx.Tx, batch domain.ImportBatch) error

	// InsertImportErrorsInTx persists row-level parse errors within tx.
	InsertImportErrorsInTx(ctx context.Context, tx pgx.Tx, errs []domain.ImportError) error

	// FindBatchByID retrieves a batch by its ID.
	FindBatchByID(ctx context.Context, batchID string) (*domain.ImportBatch, error)

	// ListImportErrorsByBatch retrieves the persisted parse errors for a batch.
	ListImportErrorsByBatch(ctx context.Context, batchID string) ([]domain.ImportError, error)
}

// ImportBatchRepositoryWithTx adds transaction control for the importer's
// single atomic unit of work.
type ImportBatchRepositoryWithTx interface {
	ImportBatchRepositoryFacade
	TransactionManager
}
