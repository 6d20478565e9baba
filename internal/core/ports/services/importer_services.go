package services

import (
	"context"

	"github.com/pharbooks/pharma_books_app/internal/dto"
)

// ImporterSvcFacade orchestrates statement imports: parse, duplicate
// detection, and atomic persistence of the batch with its transactions.
type ImporterSvcFacade interface {
	// ImportStatement imports one uploaded CSV for a bank account. The whole
	// import commits or rolls back as a single unit.
	ImportStatement(ctx context.Context, pharmacyID, bankAccountID string, fileBytes []byte, fileName string, opts dto.ImportStatementRequest, userID string) (*dto.ImportResult, error)

	// ListBatchTransactions returns the transactions of an import batch.
	ListBatchTransactions(ctx context.Context, pharmacyID, batchID string) ([]dto.BankTransactionResponse, error)
}
