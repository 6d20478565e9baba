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
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for chart-of-accounts data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// Helper to convert domain.Account to models.Account for DB storage
func toModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:   d.AccountID,
		PharmacyID:  d.PharmacyID,
		Code:        d.Code,
		Name:        d.Name,
		AccountType: string(d.AccountType),
		IsActive:    d.IsActive,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// Helper to convert models.Account from DB to domain.Account
func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:   m.AccountID,
		PharmacyID:  m.PharmacyID,
		Code:        m.Code,
		Name:        m.Name,
		AccountType: domain.AccountType(m.AccountType),
		IsActive:    m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const accountColumns = `account_id, pharmacy_id, code, name, account_type, is_active, created_at, created_by, last_updated_at, last_updated_by`

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := toModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.PharmacyID,
		m.Code,
		m.Name,
		m.AccountType,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account code %d already exists in pharmacy %s", apperrors.ErrDuplicate, m.Code, m.PharmacyID)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves a specific account by its unique identifier.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	account := toDomainAccount(m)
	return &account, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return result, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		result[m.AccountID] = toDomainAccount(m)
	}
	return result, rows.Err()
}

// FindAccountByCode retrieves an account by its chart code within a pharmacy.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, pharmacyID string, code int) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE pharmacy_id = $1 AND code = $2;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, pharmacyID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account code %d in pharmacy %s: %w", code, pharmacyID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find account by code %d: %w", code, err)
	}
	account := toDomainAccount(m)
	return &account, nil
}

// FindActiveAssetInCodeRange locates the active ASSET account whose code
// falls in [lowCode, highCode]. The lowest code wins when several exist.
func (r *PgxAccountRepository) FindActiveAssetInCodeRange(ctx context.Context, pharmacyID string, lowCode, highCode int) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE pharmacy_id = $1 AND account_type = $2 AND is_active = TRUE AND code BETWEEN $3 AND $4
		ORDER BY code ASC
		LIMIT 1;
	`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, pharmacyID, string(domain.Asset), lowCode, highCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no active asset account in code range %d-%d: %w", lowCode, highCode, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find asset account in code range: %w", err)
	}
	account := toDomainAccount(m)
	return &account, nil
}

// ListAccounts retrieves all accounts for a pharmacy ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, pharmacyID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE pharmacy_id = $1 ORDER BY code ASC;`

	rows, err := r.Pool.Query(ctx, query, pharmacyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for pharmacy %s: %w", pharmacyID, err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, toDomainAccount(m))
	}
	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.PharmacyID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}
