package services

import (
	"context"

	"github.com/pharbooks/pharma_books_app/internal/core/domain"
	"github.com/pharbooks/pharma_books_app/internal/dto"
)

// AccountSvcFacade exposes chart-of-accounts lookups. This subsystem reads
// accounts; creation exists for administrative seeding only.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, pharmacyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, pharmacyID, accountID string) (*domain.Account, error)
	GetAccountByCode(ctx context.Context, pharmacyID string, code int) (*domain.Account, error)
	ListAccounts(ctx context.Context, pharmacyID string) ([]domain.Account, error)

	// FindBankLedgerAccount resolves the active ASSET account in the
	// configured bank code range. apperrors.ErrConfiguration when absent.
	FindBankLedgerAccount(ctx context.Context, pharmacyID string) (*domain.Account, error)
}

// BankAccountSvcFacade exposes the pharmacy bank account registry.
type BankAccountSvcFacade interface {
	CreateBankAccount(ctx context.Context, pharmacyID string, req dto.CreateBankAccountRequest, userID string) (*domain.BankAccount, error)
	GetBankAccount(ctx context.Context, pharmacyID, bankAccountID string) (*domain.BankAccount, error)

	// GetActiveBankAccount verifies ownership and active state; used as the
	// fail-fast check before any import work begins.
	GetActiveBankAccount(ctx context.Context, pharmacyID, bankAccountID string) (*domain.BankAccount, error)

	ListBankAccounts(ctx context.Context, pharmacyID string) ([]domain.BankAccount, error)
}
