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

type PgxBankAccountRepository struct {
	BaseRepository
}

// newPgxBankAccountRepository creates a new repository for bank account data.
func newPgxBankAccountRepository(pool *pgxpool.Pool) portsrepo.BankAccountRepositoryFacade {
	return &PgxBankAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxBankAccountRepository implements portsrepo.BankAccountRepositoryFacade
var _ portsrepo.BankAccountRepositoryFacade = (*PgxBankAccountRepository)(nil)

func toModelBankAccount(d domain.BankAccount) models.BankAccount {
	return models.BankAccount{
		BankAccountID:   d.BankAccountID,
		PharmacyID:      d.PharmacyID,
		Name:            d.Name,
		Institution:     d.Institution,
		CurrencyCode:    d.CurrencyCode,
		StatementFormat: string(d.StatementFormat),
		IsActive:        d.IsActive,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainBankAccount(m models.BankAccount) domain.BankAccount {
	return domain.BankAccount{
		BankAccountID:   m.BankAccountID,
		PharmacyID:      m.PharmacyID,
		Name:            m.Name,
		Institution:     m.Institution,
		CurrencyCode:    m.CurrencyCode,
		StatementFormat: domain.StatementFormat(m.StatementFormat),
		IsActive:        m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const bankAccountColumns = `bank_account_id, pharmacy_id, name, institution, currency_code, statement_format, is_active, created_at, created_by, last_updated_at, last_updated_by`

// SaveBankAccount inserts a new bank account.
func (r *PgxBankAccountRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	m := toModelBankAccount(account)

	query := `
		INSERT INTO bank_accounts (` + bankAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BankAccountID,
		m.PharmacyID,
		m.Name,
		m.Institution,
		m.CurrencyCode,
		m.StatementFormat,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: bank account %s already exists", apperrors.ErrDuplicate, m.BankAccountID)
		}
		return fmt.Errorf("failed to save bank account %s: %w", m.BankAccountID, err)
	}
	return nil
}

// FindBankAccountByID retrieves a bank account by its ID.
func (r *PgxBankAccountRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE bank_account_id = $1;`

	m, err := scanBankAccount(r.Pool.QueryRow(ctx, query, bankAccountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("bank account %s: %w", bankAccountID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find bank account %s: %w", bankAccountID, err)
	}
	account := toDomainBankAccount(m)
	return &account, nil
}

// ListBankAccountsByPharmacy retrieves all bank accounts for a pharmacy.
func (r *PgxBankAccountRepository) ListBankAccountsByPharmacy(ctx context.Context, pharmacyID string) ([]domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE pharmacy_id = $1 ORDER BY name ASC;`

	rows, err := r.Pool.Query(ctx, query, pharmacyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank accounts for pharmacy %s: %w", pharmacyID, err)
	}
	defer rows.Close()

	var accounts []domain.BankAccount
	for rows.Next() {
		m, err := scanBankAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank account row: %w", err)
		}
		accounts = append(accounts, toDomainBankAccount(m))
	}
	return accounts, rows.Err()
}

func scanBankAccount(row pgx.Row) (models.BankAccount, error) {
	var m models.BankAccount
	err := row.Scan(
		&m.BankAccountID,
		&m.PharmacyID,
		&m.Name,
		&m.Institution,
		&m.CurrencyCode,
		&m.StatementFormat,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}
