package domain

// Pharmacy is the tenant boundary. Every bank account, rule, account and
// ledger entry is scoped to exactly one pharmacy.
type Pharmacy struct {
	PharmacyID string `json:"pharmacyID"` // Primary key (UUID)
	Name       string `json:"name"`
	IsActive   bool   `json:"isActive"`
	AuditFields
}
