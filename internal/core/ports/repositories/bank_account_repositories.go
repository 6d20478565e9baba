package repositories

import (
	"context"

	"github.com/pharbooks/pharma_books_app/internal/core/domain"
)

// BankAccountRepositoryFacade defines persistence operations for bank accounts.
type BankAccountRepositoryFacade interface {
	// SaveBankAccount persists a new bank account.
	SaveBankAccount(ctx context.Context, account domain.BankAccount) error

	// FindBankAccountByID retrieves a bank account by its ID.
	FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)

	// ListBankAccountsByPharmacy retrieves all bank accounts for a pharmacy.
	ListBankAccountsByPharmacy(ctx context.Context, pharmacyID string) ([]domain.BankAccount, error)
}

// PharmacyRepositoryFacade defines persistence operations for pharmacies.
type PharmacyRepositoryFacade interface {
	// SavePharmacy persists a new pharmacy.
	SavePharmacy(ctx context.Context, pharmacy domain.Pharmacy) error

	// FindPharmacyByID retrieves a pharmacy by its ID.
	FindPharmacyByID(ctx context.Context, pharmacyID string) (*domain.Pharmacy, error)
}
