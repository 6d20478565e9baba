package mapping

import (
	"github.com/pharbooks/pharma_books_app/internal/core/domain"
	"github.com/pharbooks/pharma_books_app/internal/models"
)

// ToModelLedgerEntry converts a domain ledger entry to its row shape.
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		LedgerEntryID:     d.LedgerEntryID,
		PharmacyID:        d.PharmacyID,
		EntryDate:         d.Date,
		Description:       d.Description,
		Amount:            d.Amount,
		DebitAccountID:    d.DebitAccountID,
		CreditAccountID:   d.CreditAccountID,
		Source:            string(d.Source),
		BankTransactionID: d.BankTransactionID,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a row shape to the domain representation.
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		LedgerEntryID:     m.LedgerEntryID,
		PharmacyID:        m.PharmacyID,
		Date:              m.EntryDate,
		Description:       m.Description,
		Amount:            m.Amount,
		DebitAccountID:    m.DebitAccountID,
		CreditAccountID:   m.CreditAccountID,
		Source:            domain.LedgerSource(m.Source),
		BankTransactionID: m.BankTransactionID,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}
