package services

import (
	portsrepo "github.com/pharbooks/pharma_books_app/internal/core/ports/repositories"
	portssvc "github.com/pharbooks/pharma_books_app/internal/core/ports/services"
	"github.com/pharbooks/pharma_books_app/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Pharmacy = NewPharmacyService(repos.PharmacyRepo)

	// Account resolution comes first since posting and rules depend on it.
	container.Account = NewAccountService(repos.AccountRepo, cfg.BankAccountCodeLow, cfg.BankAccountCodeHigh)
	container.BankAccount = NewBankAccountService(repos.BankAccountRepo, repos.PharmacyRepo)

	container.Ledger = NewLedgerService(repos.LedgerRepo, repos.BankTransactionRepo, container.Account)

	detector := NewDuplicateDetector(repos.BankTransactionRepo)
	container.Importer = NewImportService(repos.ImportBatchRepo, repos.BankTransactionRepo, container.BankAccount, detector, cfg.ImportChunkSize)

	container.Rule = NewRuleService(repos.BankRuleRepo, repos.BankTransactionRepo, repos.ImportBatchRepo, container.Account, container.Ledger)
	container.Suggestion = NewSuggestionService(repos.SuggestionRepo, repos.BankTransactionRepo, container.Account, container.Ledger, cfg.SuggestionURL, cfg.SuggestionTimeout)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.PharmacySvcFacade    = (*pharmacyService)(nil)
	_ portssvc.AccountSvcFacade     = (*accountService)(nil)
	_ portssvc.BankAccountSvcFacade = (*bankAccountService)(nil)
	_ portssvc.ImporterSvcFacade    = (*importService)(nil)
	_ portssvc.RuleSvcFacade        = (*ruleService)(nil)
	_ portssvc.LedgerSvcFacade      = (*ledgerService)(nil)
	_ portssvc.SuggestionSvcFacade  = (*suggestionService)(nil)
)
