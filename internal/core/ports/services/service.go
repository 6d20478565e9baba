package services

// ServiceContainer bundles the service facades for handler wiring.
type ServiceContainer struct {
	Pharmacy    PharmacySvcFacade
	Importer    ImporterSvcFacade
	Rule        RuleSvcFacade
	Ledger      LedgerSvcFacade
	Account     AccountSvcFacade
	BankAccount BankAccountSvcFacade
	Suggestion  SuggestionSvcFacade
}
