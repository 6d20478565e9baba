package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/pharbooks/pharma_books_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:         newPgxAccountRepository(dbPool),
		BankAccountRepo:     newPgxBankAccountRepository(dbPool),
		PharmacyRepo:        newPgxPharmacyRepository(dbPool),
		BankTransactionRepo: newPgxBankTransactionRepository(dbPool),
		ImportBatchRepo:     newPgxImportBatchRepository(dbPool),
		BankRuleRepo:        newPgxBankRuleRepository(dbPool),
		LedgerRepo:          newPgxLedgerRepository(dbPool),
		SuggestionRepo:      newPgxSuggestionRepository(dbPool),
	}
}
