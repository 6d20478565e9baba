package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharbooks/pharma_books_app/internal/apperrors"
	"github.com/pharbooks/pharma_books_app/internal/core/domain"
	portsrepo "github.com/pharbooks/pharma_books_app/internal/core/ports/repositories"
	"github.com/pharbooks/pharma_books_app/internal/models"
	"github.com/pharbooks/pharma_books_app/internal/utils/mapping"
)

type PgxSuggestionRepository struct {
	BaseRepository
}

// newPgxSuggestionRepository creates a new repository for AI suggestion data.
func newPgxSuggestionRepository(pool *pgxpool.Pool) portsrepo.SuggestionRepositoryFacade {
	return &PgxSuggestionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxSuggestionRepository implements portsrepo.SuggestionRepositoryFacade
var _ portsrepo.SuggestionRepositoryFacade = (*PgxSuggestionRepository)(nil)

const suggestionColumns = `suggestion_id, transaction_id, pharmacy_id, suggested_account_code, suggested_description, confidence, status, created_at, created_by, last_updated_at, last_updated_by`

// SaveSuggestion persists a new suggestion.
func (r *PgxSuggestionRepository) SaveSuggestion(ctx context.Context, suggestion domain.AISuggestion) error {
	query := `
		INSERT INTO ai_suggestions (` + suggestionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		suggestion.SuggestionID,
		suggestion.TransactionID,
		suggestion.PharmacyID,
		suggestion.SuggestedAccountCode,
		suggestion.SuggestedDescription,
		suggestion.Confidence,
		string(suggestion.Status),
		suggestion.CreatedAt,
		suggestion.CreatedBy,
		suggestion.LastUpdatedAt,
		suggestion.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: suggestion %s already exists", apperrors.ErrDuplicate, suggestion.SuggestionID)
		}
		return fmt.Errorf("failed to save suggestion %s: %w", suggestion.SuggestionID, err)
	}
	return nil
}

// FindSuggestionByID retrieves a suggestion by its ID.
func (r *PgxSuggestionRepository) FindSuggestionByID(ctx context.Context, suggestionID string) (*domain.AISuggestion, error) {
	query := `SELECT ` + suggestionColumns + ` FROM ai_suggestions WHERE suggestion_id = $1;`

	var m models.AISuggestion
	err := r.Pool.QueryRow(ctx, query, suggestionID).Scan(
		&m.SuggestionID,
		&m.TransactionID,
		&m.PharmacyID,
		&m.SuggestedAccountCode,
		&m.SuggestedDescription,
		&m.Confidence,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("suggestion %s: %w", suggestionID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find suggestion %s: %w", suggestionID, err)
	}

	suggestion := domain.AISuggestion{
		SuggestionID:         m.SuggestionID,
		TransactionID:        m.TransactionID,
		PharmacyID:           m.PharmacyID,
		SuggestedAccountCode: m.SuggestedAccountCode,
		SuggestedDescription: m.SuggestedDescription,
		Confidence:           m.Confidence,
		Status:               domain.SuggestionStatus(m.Status),
		AuditFields:          mapping.ToDomainAuditFields(m.AuditFields),
	}
	return &suggestion, nil
}

// UpdateSuggestionStatus records the human decision on a suggestion.
func (r *PgxSuggestionRepository) UpdateSuggestionStatus(ctx context.Context, suggestionID string, status domain.SuggestionStatus, userID string, now time.Time) error {
	query := `
		UPDATE ai_suggestions
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE suggestion_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, suggestionID, string(status), now, userID)
	if err != nil {
		return fmt.Errorf("failed to update suggestion %s: %w", suggestionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("suggestion %s: %w", suggestionID, apperrors.ErrNotFound)
	}
	return nil
}
