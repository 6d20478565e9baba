package services

import (
	"context"
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

// bankAccountService implements portssvc.BankAccountSvcFacade.
type bankAccountService struct {
	bankAccountRepo portsrepo.BankAccountRepositoryFacade
	pharmacyRepo    portsrepo.PharmacyRepositoryFacade
}

// NewBankAccountService creates a new bank account registry service.
func NewBankAccountService(bankAccountRepo portsrepo.BankAccountRepositoryFacade, pharmacyRepo portsrepo.PharmacyRepositoryFacade) portssvc.BankAccountSvcFacade {
	return &bankAccountService{bankAccountRepo: bankAccountRepo, pharmacyRepo: pharmacyRepo}
}

// CreateBankAccount registers a bank account under an active pharmacy.
func (s *bankAccountService) CreateBankAccount(ctx context.Context, pharmacyID string, req dto.CreateBankAccountRequest, userID string) (*domain.BankAccount, error) {
	pharmacy, err := s.pharmacyRepo.FindPharmacyByID(ctx, pharmacyID)
	if err != nil {
		return nil, err
	}
	if !pharmacy.IsActive {
		return nil, apperrors.NewValidationError(fmt.Sprintf("pharmacy %s is inactive", pharmacyID))
	}

	format := domain.FormatGeneric
	if req.StatementFormat != "" {
		format = domain.StatementFormat(req.StatementFormat)
	}

	account := domain.BankAccount{
		BankAccountID:   uuid.New().String(),
		PharmacyID:      pharmacyID,
		Name:            req.Name,
		Institution:     req.Institution,
		CurrencyCode:    req.CurrencyCode,
		StatementFormat: format,
		IsActive:        true,
		AuditFields:     newAuditFields(userID, time.Now()),
	}
	if err := s.bankAccountRepo.SaveBankAccount(ctx, account); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Bank account created",
		slog.String("bankAccountID", account.BankAccountID), slog.String("pharmacyID", pharmacyID))
	return &account, nil
}

// GetBankAccount retrieves one bank account after verifying ownership.
func (s *bankAccountService) GetBankAccount(ctx context.Context, pharmacyID, bankAccountID string) (*domain.BankAccount, error) {
	account, err := s.bankAccountRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		return nil, err
	}
	if account.PharmacyID != pharmacyID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("bank account %s not found", bankAccountID))
	}
	return account, nil
}

// GetActiveBankAccount verifies ownership and active state. Imports call
// this first so an upload against a closed account fails before parsing.
func (s *bankAccountService) GetActiveBankAccount(ctx context.Context, pharmacyID, bankAccountID string) (*domain.BankAccount, error) {
	account, err := s.GetBankAccount(ctx, pharmacyID, bankAccountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, apperrors.NewValidationError(fmt.Sprintf("bank account %s is inactive", bankAccountID))
	}
	return account, nil
}

// ListBankAccounts retrieves all bank accounts for a pharmacy.
func (s *bankAccountService) ListBankAccounts(ctx context.Context, pharmacyID string) ([]domain.BankAccount, error) {
	return s.bankAccountRepo.ListBankAccountsByPharmacy(ctx, pharmacyID)
}
