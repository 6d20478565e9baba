package dto

import "github.com/pharbooks/pharma_books_app/internal/core/domain"

// CreateBankAccountRequest registers a bank account for a pharmacy.
type CreateBankAccountRequest struct {
	Name            string `json:"name" binding:"required"`
	Institution     string `json:"institution" binding:"required"`
	CurrencyCode    string `json:"currencyCode" binding:"required,len=3"`
	StatementFormat string `json:"statementFormat" binding:"omitempty,oneof=GENERIC FNB STANDARD_BANK"`
}

// BankAccountResponse is the API shape of a bank account.
type BankAccountResponse struct {
	BankAccountID   string `json:"bankAccountID"`
	PharmacyID      string `json:"pharmacyID"`
	Name            string `json:"name"`
	Institution     string `json:"institution"`
	CurrencyCode    string `json:"currencyCode"`
	StatementFormat string `json:"statementFormat"`
	IsActive        bool   `json:"isActive"`
}

// ToBankAccountResponse converts a domain bank account to its API shape.
func ToBankAccountResponse(b *domain.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		BankAccountID:   b.BankAccountID,
		PharmacyID:      b.PharmacyID,
		Name:            b.Name,
		Institution:     b.Institution,
		CurrencyCode:    b.CurrencyCode,
		StatementFormat: string(b.StatementFormat),
		IsActive:        b.IsActive,
	}
}
