package dto

import "github.com/pharbooks/pharma_books_app/internal/core/domain"

// CreateAccountRequest seeds one chart-of-accounts entry.
type CreateAccountRequest struct {
	Code        int    `json:"code" binding:"required,min=1"`
	Name        string `json:"name" binding:"required"`
	AccountType string `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME COGS EXPENSE FINANCE_COST OTHER_INCOME TAX"`
}

// AccountResponse is the API shape of a chart-of-accounts entry.
type AccountResponse struct {
	AccountID   string `json:"accountID"`
	PharmacyID  string `json:"pharmacyID"`
	Code        int    `json:"code"`
	Name        string `json:"name"`
	AccountType string `json:"accountType"`
	IsActive    bool   `json:"isActive"`
}

// ToAccountResponse converts a domain account to its API shape.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:   a.AccountID,
		PharmacyID:  a.PharmacyID,
		Code:        a.Code,
		Name:        a.Name,
		AccountType: string(a.AccountType),
		IsActive:    a.IsActive,
	}
}
