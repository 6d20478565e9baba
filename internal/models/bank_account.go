package models

// BankAccount is the bank_accounts row shape.
type BankAccount struct {
	BankAccountID   string `db:"bank_account_id"`
	PharmacyID      string `db:"pharmacy_id"`
	Name            string `db:"name"`
	Institution     string `db:"institution"`
	CurrencyCode    string `db:"currency_code"`
	StatementFormat string `db:"statement_format"`
	IsActive        bool   `db:"is_active"`
	AuditFields
}

// Pharmacy is the pharmacies row shape.
type Pharmacy struct {
	PharmacyID string `db:"pharmacy_id"`
	Name       string `db:"name"`
	IsActive   bool   `db:"is_active"`
	AuditFields
}
