package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharbooks/pharma_books_app/internal/apperrors"
	"github.com/pharbooks/pharma_books_app/internal/core/domain"
	portsrepo "github.com/pharbooks/pharma_books_app/internal/core/ports/repositories"
	"github.com/pharbooks/pharma_books_app/internal/models"
)

type PgxPharmacyRepository struct {
	BaseRepository
}

// newPgxPharmacyRepository creates a new repository for pharmacy data.
func newPgxPharmacyRepository(pool *pgxpool.Pool) portsrepo.PharmacyRepositoryFacade {
	return &PgxPharmacyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxPharmacyRepository implements portsrepo.PharmacyRepositoryFacade
var _ portsrepo.PharmacyRepositoryFacade = (*PgxPharmacyRepository)(nil)

// SavePharmacy inserts a new pharmacy.
func (r *PgxPharmacyRepository) SavePharmacy(ctx context.Context, pharmacy domain.Pharmacy) error {
	query := `
		INSERT INTO pharmacies (pharmacy_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		pharmacy.PharmacyID,
		pharmacy.Name,
		pharmacy.IsActive,
		pharmacy.CreatedAt,
		pharmacy.CreatedBy,
		pharmacy.LastUpdatedAt,
		pharmacy.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: pharmacy %s already exists", apperrors.ErrDuplicate, pharmacy.PharmacyID)
		}
		return fmt.Errorf("failed to save pharmacy %s: %w", pharmacy.PharmacyID, err)
	}
	return nil
}

// FindPharmacyByID retrieves a pharmacy by its ID.
func (r *PgxPharmacyRepository) FindPharmacyByID(ctx context.Context, pharmacyID string) (*domain.Pharmacy, error) {
	query := `
		SELECT pharmacy_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM pharmacies WHERE pharmacy_id = $1;
	`
	var m models.Pharmacy
	err := r.Pool.QueryRow(ctx, query, pharmacyID).Scan(
		&m.PharmacyID,
		&m.Name,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("pharmacy %s: %w", pharmacyID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find pharmacy %s: %w", pharmacyID, err)
	}

	pharmacy := domain.Pharmacy{
		PharmacyID: m.PharmacyID,
		Name:       m.Name,
		IsActive:   m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	return &pharmacy, nil
}
