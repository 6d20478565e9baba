package dto

import "github.com/pharbooks/pharma_books_app/internal/core/domain"

// CreatePharmacyRequest registers a new pharmacy tenant.
type CreatePharmacyRequest struct {
	Name string `json:"name" binding:"required"`
}

// PharmacyResponse is the API shape of a pharmacy.
type PharmacyResponse struct {
	PharmacyID string `json:"pharmacyID"`
	Name       string `json:"name"`
	IsActive   bool   `json:"isActive"`
}

// ToPharmacyResponse converts a domain pharmacy to its API shape.
func ToPharmacyResponse(p *domain.Pharmacy) PharmacyResponse {
	return PharmacyResponse{
		PharmacyID: p.PharmacyID,
		Name:       p.Name,
		IsActive:   p.IsActive,
	}
}
