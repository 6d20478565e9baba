package services

import (
	"context"

	"github.com/pharbooks/pharma_books_app/internal/core/domain"
	"github.com/pharbooks/pharma_books_app/internal/dto"
)

// RuleSvcFacade manages classification rules and applies them to
// unclassified bank transactions in priority order.
type RuleSvcFacade interface {
	CreateRule(ctx context.Context, pharmacyID string, req dto.CreateRuleRequest, userID string) (*domain.BankRule, error)
	UpdateRule(ctx context.Context, pharmacyID, ruleID string, req dto.UpdateRuleRequest, userID string) (*domain.BankRule, error)
	DeactivateRule(ctx context.Context, pharmacyID, ruleID, userID string) error
	GetRuleByID(ctx context.Context, pharmacyID, ruleID string) (*domain.BankRule, error)
	ListRules(ctx context.Context, pharmacyID string, activeOnly bool) ([]domain.BankRule, error)

	// ApplyToTransaction evaluates active rules against one transaction and
	// posts a ledger entry on the first match. Returns the matched rule ID,
	// or nil when no rule matched or the transaction was not eligible.
	ApplyToTransaction(ctx context.Context, pharmacyID, transactionID, userID string) (*string, error)

	// ApplyToBatch applies rules to every transaction in a batch sequentially.
	ApplyToBatch(ctx context.Context, pharmacyID, batchID, userID string) (*dto.ApplyRulesResult, error)
}
