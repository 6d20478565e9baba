package models

// Account is the accounts row shape.
type Account struct {
	AccountID   string `db:"account_id"`
	PharmacyID  string `db:"pharmacy_id"`
	Code        int    `db:"code"`
	Name        string `db:"name"`
	AccountType string `db:"account_type"`
	IsActive    bool   `db:"is_active"`
	AuditFields
}
