package mapping

import (
	"github.com/pharbooks/pharma_books_app/internal/core/domain"
	"github.com/pharbooks/pharma_books_app/internal/models"
)

// ToModelBankTransaction converts a domain bank transaction to its row shape.
func ToModelBankTransaction(d domain.BankTransaction) models.BankTransaction {
	return models.BankTransaction{
		TransactionID:    d.TransactionID,
		BatchID:          d.BatchID,
		BankAccountID:    d.BankAccountID,
		PharmacyID:       d.PharmacyID,
		Date:             d.Date,
		Description:      d.Description,
		RawDescription:   d.RawDescription,
		Reference:        d.Reference,
		Amount:           d.Amount,
		Balance:          d.Balance,
		RawFields:        d.RawFields,
		ExternalID:       d.ExternalID,
		Status:           string(d.Status),
		SuspectedDup:     d.SuspectedDup,
		ClassifiedAt:     d.ClassifiedAt,
		ClassifiedByRule: d.ClassifiedByRule,
		AISuggestionID:   d.AISuggestionID,
		LedgerEntryID:    d.LedgerEntryID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankTransaction converts a row shape to the domain representation.
func ToDomainBankTransaction(m models.BankTransaction) domain.BankTransaction {
	return domain.BankTransaction{
		TransactionID:    m.TransactionID,
		BatchID:          m.BatchID,
		BankAccountID:    m.BankAccountID,
		PharmacyID:       m.PharmacyID,
		Date:             m.Date,
		Description:      m.Description,
		RawDescription:   m.RawDescription,
		Reference:        m.Reference,
		Amount:           m.Amount,
		Balance:          m.Balance,
		RawFields:        m.RawFields,
		ExternalID:       m.ExternalID,
		Status:           domain.ClassificationStatus(m.Status),
		SuspectedDup:     m.SuspectedDup,
		ClassifiedAt:     m.ClassifiedAt,
		ClassifiedByRule: m.ClassifiedByRule,
		AISuggestionID:   m.AISuggestionID,
		LedgerEntryID:    m.LedgerEntryID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBankTransactionSlice converts a slice of row shapes.
func ToDomainBankTransactionSlice(ms []models.BankTransaction) []domain.BankTransaction {
	out := make([]domain.BankTransaction, len(ms))
	for i, m := range ms {
		out[i] = ToDomainBankTransaction(m)
	}
	return out
}
