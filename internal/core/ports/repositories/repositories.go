package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// It is built once at startup from the concrete database implementations.
type RepositoryProvider struct {
	AccountRepo         AccountRepositoryFacade
	BankAccountRepo     BankAccountRepositoryFacade
	PharmacyRepo        PharmacyRepositoryFacade
	BankTransactionRepo BankTransactionRepositoryWithTx
	ImportBatchRepo     ImportBatchRepositoryWithTx
	BankRuleRepo        BankRuleRepositoryFacade
	LedgerRepo          LedgerRepositoryWithTx
	SuggestionRepo      SuggestionRepositoryFacade
}
