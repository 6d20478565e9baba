package domain

// StatementFormat selects the bank-specific statement parsing variant.
// The set is closed; new banks require a new constant and parser variant.
type StatementFormat string

const (
	FormatGeneric      StatementFormat = "GENERIC"
	FormatFNB          StatementFormat = "FNB"
	FormatStandardBank StatementFormat = "STANDARD_BANK"
)

// BankAccount is a pharmacy-scoped bank account identity. Every imported
// transaction references exactly one bank account.
type BankAccount struct {
	BankAccountID   string          `json:"bankAccountID"` // Primary key (UUID)
	PharmacyID      string          `json:"pharmacyID"`    // FK -> pharmacies.pharmacy_id
	Name            string          `json:"name"`
	Institution     string          `json:"institution"`
	CurrencyCode    string          `json:"currencyCode"`
	StatementFormat StatementFormat `json:"statementFormat"` // Default GENERIC
	IsActive        bool            `json:"isActive"`
	AuditFields
}
