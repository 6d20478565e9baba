package domain

// AccountType defines the fundamental accounting type of a chart-of-accounts entry.
type AccountType string

const (
	Asset       AccountType = "ASSET"
	Liability   AccountType = "LIABILITY"
	Equity      AccountType = "EQUITY"
	Income      AccountType = "INCOME"
	COGS        AccountType = "COGS"
	Expense     AccountType = "EXPENSE"
	FinanceCost AccountType = "FINANCE_COST"
	OtherIncome AccountType = "OTHER_INCOME"
	Tax         AccountType = "TAX"
)

// Account represents one chart-of-accounts entry for a pharmacy.
// This subsystem reads accounts; it only creates them through admin seeding.
type Account struct {
	AccountID   string      `json:"accountID"`  // Primary key (UUID)
	PharmacyID  string      `json:"pharmacyID"` // FK -> pharmacies.pharmacy_id
	Code        int         `json:"code"`       // Numeric chart code, e.g. 6000
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	IsActive    bool        `json:"isActive"`
	AuditFields
}
