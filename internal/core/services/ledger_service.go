package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pharbooks/pharma_books_app/internal/apperrors"
	"github.com/pharbooks/pharma_books_app/internal/core/domain"
	portsrepo "github.com/pharbooks/pharma_books_app/internal/core/ports/repositories"
	portssvc "github.com/pharbooks/pharma_books_app/internal/core/ports/services"
	"github.com/pharbooks/pharma_books_app/internal/dto"
	"github.com/pharbooks/pharma_books_app/internal/middleware"
)

// ledgerService implements portssvc.LedgerSvcFacade.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepositoryWithTx
	txnRepo    portsrepo.BankTransactionRepositoryFacade
	accountSvc portssvc.AccountSvcFacade
}

// NewLedgerService creates a new ledger posting service.
func NewLedgerService(
	ledgerRepo portsrepo.LedgerRepositoryWithTx,
	txnRepo portsrepo.BankTransactionRepositoryFacade,
	accountSvc portssvc.AccountSvcFacade,
) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo, txnRepo: txnRepo, accountSvc: accountSvc}
}

// PostForTransaction creates one balanced ledger entry for a bank transaction
// and marks the transaction classified, in a single database transaction.
// The bank ledger account takes the side the money moved: debit on inflow,
// credit on outflow.
func (s *ledgerService) PostForTransaction(ctx context.Context, req portssvc.PostBankTransactionRequest, userID string) (string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	txn := req.Transaction

	// One ledger entry per bank transaction. Check before doing any work so
	// callers get a conflict instead of a unique-constraint failure.
	existing, err := s.ledgerRepo.FindByBankTransactionID(ctx, txn.TransactionID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return "", err
	}
	if existing != nil {
		return "", apperrors.NewConflictError(fmt.Sprintf("transaction %s already has ledger entry %s", txn.TransactionID, existing.LedgerEntryID))
	}

	bankLedgerAccount, err := s.accountSvc.FindBankLedgerAccount(ctx, txn.PharmacyID)
	if err != nil {
		return "", err
	}

	target, err := s.accountSvc.GetAccountByID(ctx, txn.PharmacyID, req.TargetAccountID)
	if err != nil {
		return "", err
	}
	if !target.IsActive {
		return "", apperrors.NewValidationError(fmt.Sprintf("account %s is inactive and cannot be posted to", target.AccountID))
	}
	if target.AccountID == bankLedgerAccount.AccountID {
		return "", apperrors.NewValidationError("target account cannot be the bank ledger account itself")
	}

	amount := txn.Amount.Abs()
	if req.Amount != nil {
		amount = req.Amount.Abs()
	}
	if !amount.IsPositive() {
		return "", apperrors.NewValidationError("ledger amount must be positive")
	}

	debitAccountID, creditAccountID := target.AccountID, bankLedgerAccount.AccountID
	if txn.Inflow() {
		debitAccountID, creditAccountID = bankLedgerAccount.AccountID, target.AccountID
	}

	description := req.Description
	if description == "" {
		description = txn.Description
	}

	now := time.Now()
	txnID := txn.TransactionID
	entry := domain.LedgerEntry{
		LedgerEntryID:     uuid.New().String(),
		PharmacyID:        txn.PharmacyID,
		Date:              txn.Date,
		Description:       description,
		Amount:            amount,
		DebitAccountID:    debitAccountID,
		CreditAccountID:   creditAccountID,
		Source:            domain.SourceBank,
		BankTransactionID: &txnID,
		AuditFields:       newAuditFields(userID, now),
	}

	tx, err := s.ledgerRepo.Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin posting transaction", slog.String("error", err.Error()))
		return "", apperrors.NewInternalServerError("failed to begin posting transaction")
	}
	defer func() { _ = s.ledgerRepo.Rollback(ctx, tx) }()

	if err := s.ledgerRepo.InsertLedgerEntryInTx(ctx, tx, entry); err != nil {
		// A concurrent writer can win between the pre-check and this insert;
		// the unique index surfaces that as a conflict, which callers count
		// as already-classified rather than a failure.
		if errors.Is(err, apperrors.ErrConflict) {
			return "", err
		}
		logger.Error("Failed to insert ledger entry", slog.String("transactionID", txnID), slog.String("error", err.Error()))
		return "", apperrors.NewInternalServerError("failed to persist ledger entry")
	}
	if err := s.txnRepo.MarkClassifiedInTx(ctx, tx, txnID, req.Status, req.RuleID, req.SuggestionID, &entry.LedgerEntryID, userID, now); err != nil {
		logger.Error("Failed to mark transaction classified", slog.String("transactionID", txnID), slog.String("error", err.Error()))
		return "", apperrors.NewInternalServerError("failed to update transaction classification")
	}
	if err := s.ledgerRepo.Commit(ctx, tx); err != nil {
		logger.Error("Failed to commit ledger posting", slog.String("transactionID", txnID), slog.String("error", err.Error()))
		return "", apperrors.NewInternalServerError("failed to commit ledger posting")
	}

	logger.Info("Ledger entry posted",
		slog.String("ledgerEntryID", entry.LedgerEntryID),
		slog.String("transactionID", txnID),
		slog.String("status", string(req.Status)))
	return entry.LedgerEntryID, nil
}

// ClassifyManually classifies one transaction straight to user_override.
// Only unclassified and ai_classified transactions are eligible.
func (s *ledgerService) ClassifyManually(ctx context.Context, pharmacyID, transactionID string, req dto.ManualClassifyRequest, userID string) (*domain.LedgerEntry, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.PharmacyID != pharmacyID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("transaction %s not found", transactionID))
	}
	if txn.Status != domain.Unclassified && txn.Status != domain.AIClassified {
		return nil, apperrors.NewConflictError(fmt.Sprintf("transaction %s is already classified (%s)", transactionID, txn.Status))
	}

	entryID, err := s.PostForTransaction(ctx, portssvc.PostBankTransactionRequest{
		Transaction:     *txn,
		TargetAccountID: req.AccountID,
		Description:     req.Description,
		Status:          domain.UserOverride,
	}, userID)
	if err != nil {
		return nil, err
	}
	return s.ledgerRepo.FindLedgerEntryByID(ctx, entryID)
}

// PostManual creates a standalone MANUAL-source entry with no bank linkage.
func (s *ledgerService) PostManual(ctx context.Context, pharmacyID string, req dto.CreateLedgerEntryRequest, userID string) (*domain.LedgerEntry, error) {
	if !req.Amount.IsPositive() {
		return nil, apperrors.NewValidationError("ledger amount must be positive")
	}
	if req.DebitAccountID == req.CreditAccountID {
		return nil, apperrors.NewValidationError("debit and credit accounts must differ")
	}

	for _, accountID := range []string{req.DebitAccountID, req.CreditAccountID} {
		account, err := s.accountSvc.GetAccountByID(ctx, pharmacyID, accountID)
		if err != nil {
			return nil, err
		}
		if !account.IsActive {
			return nil, apperrors.NewValidationError(fmt.Sprintf("account %s is inactive and cannot be posted to", accountID))
		}
	}

	entry := domain.LedgerEntry{
		LedgerEntryID:   uuid.New().String(),
		PharmacyID:      pharmacyID,
		Date:            req.Date,
		Description:     req.Description,
		Amount:          req.Amount,
		DebitAccountID:  req.DebitAccountID,
		CreditAccountID: req.CreditAccountID,
		Source:          domain.SourceManual,
		AuditFields:     newAuditFields(userID, time.Now()),
	}
	if err := s.ledgerRepo.SaveLedgerEntry(ctx, entry); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Manual ledger entry posted", slog.String("ledgerEntryID", entry.LedgerEntryID))
	return &entry, nil
}

// GetLedgerEntryByID retrieves one entry after verifying pharmacy ownership.
func (s *ledgerService) GetLedgerEntryByID(ctx context.Context, pharmacyID, ledgerEntryID string) (*domain.LedgerEntry, error) {
	entry, err := s.ledgerRepo.FindLedgerEntryByID(ctx, ledgerEntryID)
	if err != nil {
		return nil, err
	}
	if entry.PharmacyID != pharmacyID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("ledger entry %s not found", ledgerEntryID))
	}
	return entry, nil
}
