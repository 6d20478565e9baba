package repositories

import (
	"context"

	"github.com/pharbooks/pharma_books_app/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// FindAccountByCode retrieves an account by its chart code within a pharmacy.
	FindAccountByCode(ctx context.Context, pharmacyID string, code int) (*domain.Account, error)

	// FindActiveAssetInCodeRange locates the active ASSET account whose code
	// falls in [lowCode, highCode] for a pharmacy. Used to resolve the bank
	// ledger account. Returns apperrors.ErrNotFound when none exists.
	FindActiveAssetInCodeRange(ctx context.Context, pharmacyID string, lowCode, highCode int) (*domain.Account, error)

	// ListAccounts retrieves all accounts for a pharmacy ordered by code.
	ListAccounts(ctx context.Context, pharmacyID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
