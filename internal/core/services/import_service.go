package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pharbooks/pharma_books_app/internal/apperrors"
	"github.com/pharbooks/pharma_books_app/internal/core/domain"
	portsrepo "github.com/pharbooks/pharma_books_app/internal/core/ports/repositories"
	portssvc "github.com/pharbooks/pharma_books_app/internal/core/ports/services"
	"github.com/pharbooks/pharma_books_app/internal/dto"
	"github.com/pharbooks/pharma_books_app/internal/middleware"
	"github.com/pharbooks/pharma_books_app/internal/statement"
)

// importService implements portssvc.ImporterSvcFacade.
type importService struct {
	batchRepo      portsrepo.ImportBatchRepositoryWithTx
	txnRepo        portsrepo.BankTransactionRepositoryFacade
	bankAccountSvc portssvc.BankAccountSvcFacade
	detector       *DuplicateDetector
	chunkSize      int
}

// NewImportService creates a new statement import service.
func NewImportService(
	batchRepo portsrepo.ImportBatchRepositoryWithTx,
	txnRepo portsrepo.BankTransactionRepositoryFacade,
	bankAccountSvc portssvc.BankAccountSvcFacade,
	detector *DuplicateDetector,
	chunkSize int,
) portssvc.ImporterSvcFacade {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	return &importService{
		batchRepo:      batchRepo,
		txnRepo:        txnRepo,
		bankAccountSvc: bankAccountSvc,
		detector:       detector,
		chunkSize:      chunkSize,
	}
}

// ImportStatement runs the full pipeline for one uploaded CSV: resolve the
// bank account, parse, detect duplicates, then persist batch, transactions
// and row errors inside a single database transaction.
func (s *importService) ImportStatement(ctx context.Context, pharmacyID, bankAccountID string, fileBytes []byte, fileName string, opts dto.ImportStatementRequest, userID string) (*dto.ImportResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Fail fast before touching the file: the bank account must exist,
	// belong to the pharmacy and be active.
	bankAccount, err := s.bankAccountSvc.GetActiveBankAccount(ctx, pharmacyID, bankAccountID)
	if err != nil {
		return nil, err
	}

	parser := statement.NewParser(bankAccount.StatementFormat)
	parsed, err := parser.Parse(fileBytes)
	if err != nil {
		return nil, err
	}
	if len(parsed.Rows) == 0 && len(parsed.Errors) == 0 {
		return nil, apperrors.NewValidationError("statement file contains no data rows")
	}

	verdicts, err := s.detector.Classify(ctx, bankAccountID, parsed.Rows)
	if err != nil {
		logger.Error("Duplicate detection failed", slog.String("bankAccountID", bankAccountID), slog.String("error", err.Error()))
		return nil, apperrors.NewInternalServerError("failed to run duplicate detection")
	}

	now := time.Now()
	batch := domain.ImportBatch{
		BatchID:       uuid.New().String(),
		BankAccountID: bankAccountID,
		PharmacyID:    pharmacyID,
		FileName:      fileName,
		PeriodStart:   parsed.Summary.MinDate,
		PeriodEnd:     parsed.Summary.MaxDate,
		Status:        domain.BatchImported,
		Notes:         opts.Notes,
		AuditFields:   newAuditFields(userID, now),
	}

	result := &dto.ImportResult{BatchID: batch.BatchID}
	for _, rowErr := range parsed.Errors {
		result.Errors = append(result.Errors, dto.ImportRowError{RowNumber: rowErr.RowNumber, Reason: rowErr.Reason})
	}

	toInsert := make([]insertItem, 0, len(verdicts))
	for _, v := range verdicts {
		if v.Outcome == DupExact && opts.SkipDuplicates {
			result.SkippedDuplicates++
			continue
		}
		if v.Outcome == DupSuspected {
			result.SuspectedDuplicates++
		}
		toInsert = append(toInsert, insertItem{
			txn:       s.buildTransaction(batch, v, userID, now),
			rowNumber: v.Row.RowNumber,
		})
	}

	tx, err := s.batchRepo.Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin import transaction", slog.String("error", err.Error()))
		return nil, apperrors.NewInternalServerError("failed to begin import transaction")
	}
	defer func() { _ = s.batchRepo.Rollback(ctx, tx) }()

	if err := s.batchRepo.InsertBatchInTx(ctx, tx, batch); err != nil {
		logger.Error("Failed to insert import batch", slog.String("batchID", batch.BatchID), slog.String("error", err.Error()))
		return nil, apperrors.NewInternalServerError("failed to persist import batch")
	}

	inserted, insertErrs, err := s.insertChunked(ctx, tx, toInsert)
	if err != nil {
		logger.Error("Failed to insert transactions", slog.String("batchID", batch.BatchID), slog.String("error", err.Error()))
		return nil, apperrors.NewInternalServerError("failed to persist transactions")
	}
	result.Inserted = inserted
	result.Errors = append(result.Errors, insertErrs...)

	importErrs := s.buildImportErrors(batch.BatchID, parsed.Errors, insertErrs, userID, now)
	if len(importErrs) > 0 {
		if err := s.batchRepo.InsertImportErrorsInTx(ctx, tx, importErrs); err != nil {
			logger.Error("Failed to insert import errors", slog.String("batchID", batch.BatchID), slog.String("error", err.Error()))
			return nil, apperrors.NewInternalServerError("failed to persist import errors")
		}
	}

	if err := s.batchRepo.Commit(ctx, tx); err != nil {
		logger.Error("Failed to commit import", slog.String("batchID", batch.BatchID), slog.String("error", err.Error()))
		return nil, apperrors.NewInternalServerError("failed to commit import")
	}

	logger.Info("Statement imported",
		slog.String("batchID", batch.BatchID),
		slog.String("bankAccountID", bankAccountID),
		slog.Int("inserted", result.Inserted),
		slog.Int("skippedDuplicates", result.SkippedDuplicates),
		slog.Int("suspectedDuplicates", result.SuspectedDuplicates),
		slog.Int("rowErrors", len(result.Errors)))
	return result, nil
}

// insertItem pairs a transaction with the statement row it came from so
// insert failures can be reported against the original row number.
type insertItem struct {
	txn       domain.BankTransaction
	rowNumber int
}

// insertChunked bulk-inserts in chunks under savepoints. A failed chunk is
// retried row by row so that one bad row (typically an external-id collision
// when duplicates are not skipped) costs only itself, not its neighbours.
func (s *importService) insertChunked(ctx context.Context, tx pgx.Tx, items []insertItem) (int, []dto.ImportRowError, error) {
	inserted := 0
	var rowErrs []dto.ImportRowError

	for start := 0; start < len(items); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(items) {
			end = len(items)
		}
		chunk := items[start:end]

		txns := make([]domain.BankTransaction, len(chunk))
		for i, item := range chunk {
			txns[i] = item.txn
		}

		sub, err := tx.Begin(ctx)
		if err != nil {
			return inserted, rowErrs, fmt.Errorf("failed to open savepoint: %w", err)
		}
		if err := s.txnRepo.InsertTransactionsInTx(ctx, sub, txns); err == nil {
			if err := sub.Commit(ctx); err != nil {
				return inserted, rowErrs, fmt.Errorf("failed to release savepoint: %w", err)
			}
			inserted += len(chunk)
			continue
		}
		_ = sub.Rollback(ctx)

		for _, item := range chunk {
			rowTx, err := tx.Begin(ctx)
			if err != nil {
				return inserted, rowErrs, fmt.Errorf("failed to open savepoint: %w", err)
			}
			if err := s.txnRepo.InsertTransactionInTx(ctx, rowTx, item.txn); err != nil {
				_ = rowTx.Rollback(ctx)
				rowErrs = append(rowErrs, dto.ImportRowError{
					RowNumber: item.rowNumber,
					Reason:    insertFailureReason(err),
				})
				continue
			}
			if err := rowTx.Commit(ctx); err != nil {
				return inserted, rowErrs, fmt.Errorf("failed to release savepoint: %w", err)
			}
			inserted++
		}
	}

	return inserted, rowErrs, nil
}

func (s *importService) buildTransaction(batch domain.ImportBatch, v RowVerdict, userID string, now time.Time) domain.BankTransaction {
	rawJSON, err := json.Marshal(v.Row.RawFields)
	if err != nil {
		rawJSON = []byte("{}")
	}
	return domain.BankTransaction{
		TransactionID:  uuid.New().String(),
		BatchID:        batch.BatchID,
		BankAccountID:  batch.BankAccountID,
		PharmacyID:     batch.PharmacyID,
		Date:           v.Row.Date,
		Description:    v.Row.Description,
		RawDescription: v.Row.RawDescription,
		Reference:      v.Row.Reference,
		Amount:         v.Row.Amount,
		Balance:        v.Row.Balance,
		RawFields:      string(rawJSON),
		ExternalID:     v.ExternalID,
		Status:         domain.Unclassified,
		SuspectedDup:   v.Outcome == DupSuspected,
		AuditFields:    newAuditFields(userID, now),
	}
}

func (s *importService) buildImportErrors(batchID string, parseErrs []statement.RowError, insertErrs []dto.ImportRowError, userID string, now time.Time) []domain.ImportError {
	out := make([]domain.ImportError, 0, len(parseErrs)+len(insertErrs))
	for _, e := range parseErrs {
		rawJSON, err := json.Marshal(e.RawFields)
		if err != nil {
			rawJSON = []byte("{}")
		}
		out = append(out, domain.ImportError{
			ImportErrorID: uuid.New().String(),
			BatchID:       batchID,
			RowNumber:     e.RowNumber,
			Reason:        e.Reason,
			RawRow:        string(rawJSON),
			AuditFields:   newAuditFields(userID, now),
		})
	}
	for _, e := range insertErrs {
		out = append(out, domain.ImportError{
			ImportErrorID: uuid.New().String(),
			BatchID:       batchID,
			RowNumber:     e.RowNumber,
			Reason:        e.Reason,
			RawRow:        "{}",
			AuditFields:   newAuditFields(userID, now),
		})
	}
	return out
}

// ListBatchTransactions returns the transactions of an import batch after
// verifying the batch belongs to the pharmacy.
func (s *importService) ListBatchTransactions(ctx context.Context, pharmacyID, batchID string) ([]dto.BankTransactionResponse, error) {
	batch, err := s.batchRepo.FindBatchByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch.PharmacyID != pharmacyID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("import batch %s not found", batchID))
	}

	txns, err := s.txnRepo.ListTransactionsByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return dto.ToBankTransactionResponses(txns), nil
}

// insertFailureReason maps a database insert failure to a stable,
// user-facing reason string.
func insertFailureReason(err error) string {
	if errors.Is(err, apperrors.ErrDuplicate) {
		return "duplicate transaction already imported for this bank account"
	}
	return fmt.Sprintf("failed to store row: %v", err)
}

// newAuditFields stamps creation and update audit data with one timestamp.
func newAuditFields(userID string, now time.Time) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
}
