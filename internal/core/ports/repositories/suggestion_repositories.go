package repositories

import (
	"context"
	"time"

	"github.com/pharbooks/pharma_books_app/internal/core/domain"
)

// SuggestionRepositoryFacade defines persistence operations for AI
// classification suggestions.
type SuggestionRepositoryFacade interface {
	// SaveSuggestion persists a new suggestion.
	SaveSuggestion(ctx context.Context, suggestion domain.AISuggestion) error

	// FindSuggestionByID retrieves a suggestion by its ID.
	FindSuggestionByID(ctx context.Context, suggestionID string) (*domain.AISuggestion, error)

	// UpdateSuggestionStatus records the human decision on a suggestion.
	UpdateSuggestionStatus(ctx context.Context, suggestionID string, status domain.SuggestionStatus, userID string, now time.Time) error
}
