package mapping

import (
	"github.com/pharbooks/pharma_books_app/internal/core/domain"
	"github.com/pharbooks/pharma_books_app/internal/models"
)

// ToModelImportBatch converts a domain import batch to its row shape.
func ToModelImportBatch(d domain.ImportBatch) models.ImportBatch {
	return models.ImportBatch{
		BatchID:       d.BatchID,
		BankAccountID: d.BankAccountID,
		PharmacyID:    d.PharmacyID,
		FileName:      d.FileName,
		PeriodStart:   d.PeriodStart,
		PeriodEnd:     d.PeriodEnd,
		Status:        string(d.Status),
		Notes:         d.Notes,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainImportBatch converts a row shape to the domain representation.
func ToDomainImportBatch(m models.ImportBatch) domain.ImportBatch {
	return domain.ImportBatch{
		BatchID:       m.BatchID,
		BankAccountID: m.BankAccountID,
		PharmacyID:    m.PharmacyID,
		FileName:      m.FileName,
		PeriodStart:   m.PeriodStart,
		PeriodEnd:     m.PeriodEnd,
		Status:        domain.ImportBatchStatus(m.Status),
		Notes:         m.Notes,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelImportError converts a domain import error to its row shape.
func ToModelImportError(d domain.ImportError) models.ImportError {
	return models.ImportError{
		ImportErrorID: d.ImportErrorID,
		BatchID:       d.BatchID,
		RowNumber:     d.RowNumber,
		Reason:        d.Reason,
		RawRow:        d.RawRow,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}
