package models

import "time"

// ImportBatch is the import_batches row shape.
type ImportBatch struct {
	BatchID       string     `db:"batch_id"`
	BankAccountID string     `db:"bank_account_id"`
	PharmacyID    string     `db:"pharmacy_id"`
	FileName      string     `db:"file_name"`
	PeriodStart   *time.Time `db:"period_start"`
	PeriodEnd     *time.Time `db:"period_end"`
	Status        string     `db:"status"`
	Notes         string     `db:"notes"`
	AuditFields
}

// ImportError is the import_errors row shape.
type ImportError struct {
	ImportErrorID string `db:"import_error_id"`
	BatchID       string `db:"batch_id"`
	RowNumber     int    `db:"row_number"`
	Reason        string `db:"reason"`
	RawRow        string `db:"raw_row"`
	AuditFields
}
