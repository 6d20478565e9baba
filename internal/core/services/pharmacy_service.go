package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pharbooks/pharma_books_app/internal/core/domain"
	portsrepo "github.com/pharbooks/pharma_books_app/internal/core/ports/repositories"
	portssvc "github.com/pharbooks/pharma_books_app/internal/core/ports/services"
	"github.com/pharbooks/pharma_books_app/internal/dto"
	"github.com/pharbooks/pharma_books_app/internal/middleware"
)

// pharmacyService implements portssvc.PharmacySvcFacade.
type pharmacyService struct {
	pharmacyRepo portsrepo.PharmacyRepositoryFacade
}

// NewPharmacyService creates a new pharmacy registry service.
func NewPharmacyService(pharmacyRepo portsrepo.PharmacyRepositoryFacade) portssvc.PharmacySvcFacade {
	return &pharmacyService{pharmacyRepo: pharmacyRepo}
}

// CreatePharmacy registers a new active pharmacy tenant.
func (s *pharmacyService) CreatePharmacy(ctx context.Context, req dto.CreatePharmacyRequest, userID string) (*domain.Pharmacy, error) {
	pharmacy := domain.Pharmacy{
		PharmacyID:  uuid.New().String(),
		Name:        req.Name,
		IsActive:    true,
		AuditFields: newAuditFields(userID, time.Now()),
	}
	if err := s.pharmacyRepo.SavePharmacy(ctx, pharmacy); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Pharmacy created",
		slog.String("pharmacyID", pharmacy.PharmacyID), slog.String("name", pharmacy.Name))
	return &pharmacy, nil
}

// GetPharmacy retrieves one pharmacy by ID.
func (s *pharmacyService) GetPharmacy(ctx context.Context, pharmacyID string) (*domain.Pharmacy, error) {
	return s.pharmacyRepo.FindPharmacyByID(ctx, pharmacyID)
}
