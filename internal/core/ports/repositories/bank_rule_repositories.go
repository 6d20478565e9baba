package repositories

import (
	"context"
	"time"

	"github.com/pharbooks/pharma_books_app/internal/core/domain"
)

// BankRuleRepositoryFacade defines persistence operations for classification
// rules. A rule is saved with its conditions and allocations atomically.
type BankRuleRepositoryFacade interface {
	// SaveRule persists a rule header plus conditions and allocations.
	SaveRule(ctx context.Context, rule domain.BankRule) error

	// UpdateRule replaces a rule's header, conditions and allocations.
	UpdateRule(ctx context.Context, rule domain.BankRule) error

	// DeactivateRule soft-deletes a rule.
	DeactivateRule(ctx context.Context, ruleID string, userID string, now time.Time) error

	// FindRuleByID retrieves a rule with conditions and allocations populated.
	FindRuleByID(ctx context.Context, ruleID string) (*domain.BankRule, error)

	// ListRulesByPharmacy retrieves rules for a pharmacy ordered by priority
	// ascending. When activeOnly is set, soft-deleted rules are excluded.
	ListRulesByPharmacy(ctx context.Context, pharmacyID string, activeOnly bool) ([]domain.BankRule, error)
}
