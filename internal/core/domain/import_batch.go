package domain

import "time"

// ImportBatchStatus indicates the state of a statement import.
type ImportBatchStatus string

const (
	BatchImported ImportBatchStatus = "IMPORTED"
)

// ImportBatch records one CSV upload. Immutable after creation except status.
type ImportBatch struct {
	BatchID       string            `json:"batchID"` // Primary key (UUID)
	BankAccountID string            `json:"bankAccountID"`
	PharmacyID    string            `json:"pharmacyID"`
	FileName      string            `json:"fileName"`
	PeriodStart   *time.Time        `json:"periodStart"` // Min transaction date in the file
	PeriodEnd     *time.Time        `json:"periodEnd"`   // Max transaction date in the file
	Status        ImportBatchStatus `json:"status"`
	Notes         string            `json:"notes"`
	AuditFields
}

// ImportError is a persisted, auditable row-level parse failure linked to a batch.
type ImportError struct {
	ImportErrorID string `json:"importErrorID"`
	BatchID       string `json:"batchID"`
	RowNumber     int    `json:"rowNumber"`
	Reason        string `json:"reason"`
	RawRow        string `json:"rawRow"` // Raw field map, JSON-encoded for display
	AuditFields
}
