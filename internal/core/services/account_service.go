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

// accountService implements portssvc.AccountSvcFacade.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade

	// Chart code range holding the pharmacy's bank ledger account.
	bankCodeLow  int
	bankCodeHigh int
}

// NewAccountService creates a new chart-of-accounts service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, bankCodeLow, bankCodeHigh int) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo, bankCodeLow: bankCodeLow, bankCodeHigh: bankCodeHigh}
}

// CreateAccount seeds one chart-of-accounts entry. Codes are unique per
// pharmacy.
func (s *accountService) CreateAccount(ctx context.Context, pharmacyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	existing, err := s.accountRepo.FindAccountByCode(ctx, pharmacyID, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflictError(fmt.Sprintf("account code %d already exists", req.Code))
	}

	account := domain.Account{
		AccountID:   uuid.New().String(),
		PharmacyID:  pharmacyID,
		Code:        req.Code,
		Name:        req.Name,
		AccountType: domain.AccountType(req.AccountType),
		IsActive:    true,
		AuditFields: newAuditFields(userID, time.Now()),
	}
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Account created",
		slog.String("accountID", account.AccountID), slog.Int("code", account.Code))
	return &account, nil
}

// GetAccountByID retrieves one account after verifying pharmacy ownership.
func (s *accountService) GetAccountByID(ctx context.Context, pharmacyID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.PharmacyID != pharmacyID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", accountID))
	}
	return account, nil
}

// GetAccountByCode retrieves one account by its chart code.
func (s *accountService) GetAccountByCode(ctx context.Context, pharmacyID string, code int) (*domain.Account, error) {
	return s.accountRepo.FindAccountByCode(ctx, pharmacyID, code)
}

// ListAccounts retrieves all accounts for a pharmacy ordered by code.
func (s *accountService) ListAccounts(ctx context.Context, pharmacyID string) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, pharmacyID)
}

// FindBankLedgerAccount resolves the active ASSET account in the configured
// bank code range. Its absence is an administrative setup problem, reported
// as a configuration error rather than a not-found.
func (s *accountService) FindBankLedgerAccount(ctx context.Context, pharmacyID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindActiveAssetInCodeRange(ctx, pharmacyID, s.bankCodeLow, s.bankCodeHigh)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewConfigurationError(fmt.Sprintf(
				"no active bank ledger account in code range %d-%d; seed the chart of accounts first",
				s.bankCodeLow, s.bankCodeHigh))
		}
		return nil, err
	}
	return account, nil
}
