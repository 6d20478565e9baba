package services

import (
	"context"

	"github.com/pharbooks/pharma_books_app/internal/core/domain"
	"github.com/pharbooks/pharma_books_app/internal/dto"
)

// PharmacySvcFacade exposes the pharmacy tenant registry. Creation is an
// administrative seeding operation; everything else in the system only
// reads pharmacies for ownership and active checks.
type PharmacySvcFacade interface {
	CreatePharmacy(ctx context.Context, req dto.CreatePharmacyRequest, userID string) (*domain.Pharmacy, error)
	GetPharmacy(ctx context.Context, pharmacyID string) (*domain.Pharmacy, error)
}
