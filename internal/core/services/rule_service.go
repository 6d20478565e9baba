package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharbooks/pharma_books_app/internal/apperrors"
	"github.com/pharbooks/pharma_books_app/internal/core/domain"
	portsrepo "github.com/pharbooks/pharma_books_app/internal/core/ports/repositories"
	portssvc "github.com/pharbooks/pharma_books_app/internal/core/ports/services"
	"github.com/pharbooks/pharma_books_app/internal/dto"
	"github.com/pharbooks/pharma_books_app/internal/middleware"
)

// ruleService implements portssvc.RuleSvcFacade.
type ruleService struct {
	ruleRepo   portsrepo.BankRuleRepositoryFacade
	txnRepo    portsrepo.BankTransactionRepositoryFacade
	batchRepo  portsrepo.ImportBatchRepositoryFacade
	accountSvc portssvc.AccountSvcFacade
	ledgerSvc  portssvc.LedgerSvcFacade
}

// NewRuleService creates a new classification rule service.
func NewRuleService(
	ruleRepo portsrepo.BankRuleRepositoryFacade,
	txnRepo portsrepo.BankTransactionRepositoryFacade,
	batchRepo portsrepo.ImportBatchRepositoryFacade,
	accountSvc portssvc.AccountSvcFacade,
	ledgerSvc portssvc.LedgerSvcFacade,
) portssvc.RuleSvcFacade {
	return &ruleService{
		ruleRepo:   ruleRepo,
		txnRepo:    txnRepo,
		batchRepo:  batchRepo,
		accountSvc: accountSvc,
		ledgerSvc:  ledgerSvc,
	}
}

// CreateRule validates and persists a new classification rule.
func (s *ruleService) CreateRule(ctx context.Context, pharmacyID string, req dto.CreateRuleRequest, userID string) (*domain.BankRule, error) {
	if len(req.Conditions) == 0 {
		return nil, apperrors.NewValidationError("rule must have at least one condition")
	}

	now := time.Now()
	rule := domain.BankRule{
		RuleID:       uuid.New().String(),
		PharmacyID:   pharmacyID,
		Name:         req.Name,
		Direction:    domain.RuleDirection(req.Direction),
		Priority:     req.Priority,
		ContactLabel: req.ContactLabel,
		IsActive:     true,
		Conditions:   buildConditions(uuid.New().String, req.Conditions),
		Allocations:  buildAllocations(uuid.New().String, req.Allocations),
		AuditFields:  newAuditFields(userID, now),
	}
	// Child rows reference the rule's real ID.
	for i := range rule.Conditions {
		rule.Conditions[i].RuleID = rule.RuleID
	}
	for i := range rule.Allocations {
		rule.Allocations[i].RuleID = rule.RuleID
	}

	if err := s.validateAllocations(ctx, pharmacyID, rule.Allocations); err != nil {
		return nil, err
	}

	if err := s.ruleRepo.SaveRule(ctx, rule); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Rule created",
		slog.String("ruleID", rule.RuleID), slog.String("name", rule.Name), slog.Int("priority", rule.Priority))
	return &rule, nil
}

// UpdateRule applies a partial update; providing conditions or allocations
// replaces the full list.
func (s *ruleService) UpdateRule(ctx context.Context, pharmacyID, ruleID string, req dto.UpdateRuleRequest, userID string) (*domain.BankRule, error) {
	rule, err := s.getOwnedRule(ctx, pharmacyID, ruleID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.Direction != nil {
		rule.Direction = domain.RuleDirection(*req.Direction)
	}
	if req.Priority != nil {
		rule.Priority = *req.Priority
	}
	if req.ContactLabel != nil {
		rule.ContactLabel = *req.ContactLabel
	}
	if req.Conditions != nil {
		if len(*req.Conditions) == 0 {
			return nil, apperrors.NewValidationError("rule must have at least one condition")
		}
		rule.Conditions = buildConditions(uuid.New().String, *req.Conditions)
		for i := range rule.Conditions {
			rule.Conditions[i].RuleID = rule.RuleID
		}
	}
	if req.Allocations != nil {
		rule.Allocations = buildAllocations(uuid.New().String, *req.Allocations)
		for i := range rule.Allocations {
			rule.Allocations[i].RuleID = rule.RuleID
		}
	}

	if err := s.validateAllocations(ctx, pharmacyID, rule.Allocations); err != nil {
		return nil, err
	}

	rule.LastUpdatedAt = time.Now()
	rule.LastUpdatedBy = userID
	if err := s.ruleRepo.UpdateRule(ctx, *rule); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Rule updated", slog.String("ruleID", rule.RuleID))
	return rule, nil
}

// DeactivateRule soft-deletes a rule so history stays intact.
func (s *ruleService) DeactivateRule(ctx context.Context, pharmacyID, ruleID, userID string) error {
	if _, err := s.getOwnedRule(ctx, pharmacyID, ruleID); err != nil {
		return err
	}
	if err := s.ruleRepo.DeactivateRule(ctx, ruleID, userID, time.Now()); err != nil {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Rule deactivated", slog.String("ruleID", ruleID))
	return nil
}

// GetRuleByID retrieves one rule after verifying pharmacy ownership.
func (s *ruleService) GetRuleByID(ctx context.Context, pharmacyID, ruleID string) (*domain.BankRule, error) {
	return s.getOwnedRule(ctx, pharmacyID, ruleID)
}

// ListRules retrieves a pharmacy's rules ordered by priority.
func (s *ruleService) ListRules(ctx context.Context, pharmacyID string, activeOnly bool) ([]domain.BankRule, error) {
	return s.ruleRepo.ListRulesByPharmacy(ctx, pharmacyID, activeOnly)
}

// ApplyToTransaction evaluates active rules against one transaction in
// priority order and posts a ledger entry for the first match. Returns the
// matched rule ID, or nil when nothing matched or the transaction was not
// eligible.
func (s *ruleService) ApplyToTransaction(ctx context.Context, pharmacyID, transactionID, userID string) (*string, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.PharmacyID != pharmacyID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("transaction %s not found", transactionID))
	}
	if txn.Status != domain.Unclassified {
		return nil, nil
	}

	rules, err := s.ruleRepo.ListRulesByPharmacy(ctx, pharmacyID, true)
	if err != nil {
		return nil, err
	}
	return s.applyRules(ctx, rules, *txn, userID)
}

// ApplyToBatch applies active rules to every transaction in a batch
// sequentially. Transactions classified by other means, or concurrently,
// are counted, not failed.
func (s *ruleService) ApplyToBatch(ctx context.Context, pharmacyID, batchID, userID string) (*dto.ApplyRulesResult, error) {
	batch, err := s.batchRepo.FindBatchByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch.PharmacyID != pharmacyID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("import batch %s not found", batchID))
	}

	txns, err := s.txnRepo.ListTransactionsByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	rules, err := s.ruleRepo.ListRulesByPharmacy(ctx, pharmacyID, true)
	if err != nil {
		return nil, err
	}

	result := &dto.ApplyRulesResult{Total: len(txns)}
	for _, txn := range txns {
		if txn.Status != domain.Unclassified {
			result.AlreadyClassified++
			continue
		}
		ruleID, err := s.applyRules(ctx, rules, txn, userID)
		switch {
		case errors.Is(err, apperrors.ErrConflict):
			// Lost a race against another classifier.
			result.AlreadyClassified++
		case err != nil:
			return nil, err
		case ruleID != nil:
			result.ClassifiedByRule++
		default:
			result.Unclassified++
		}
	}

	middleware.GetLoggerFromCtx(ctx).Info("Rules applied to batch",
		slog.String("batchID", batchID),
		slog.Int("total", result.Total),
		slog.Int("classifiedByRule", result.ClassifiedByRule),
		slog.Int("alreadyClassified", result.AlreadyClassified),
		slog.Int("unclassified", result.Unclassified))
	return result, nil
}

// applyRules finds the first matching rule and posts the ledger entry for
// its first allocation's split of the transaction amount.
func (s *ruleService) applyRules(ctx context.Context, rules []domain.BankRule, txn domain.BankTransaction, userID string) (*string, error) {
	for _, rule := range rules {
		if !ruleMatches(rule, txn) {
			continue
		}
		if len(rule.Allocations) == 0 {
			// Unpostable rule; skip rather than block lower priorities.
			continue
		}

		amounts := splitAllocations(txn.Amount, rule.Allocations)
		ruleID := rule.RuleID
		_, err := s.ledgerSvc.PostForTransaction(ctx, portssvc.PostBankTransactionRequest{
			Transaction:     txn,
			TargetAccountID: rule.Allocations[0].AccountID,
			Description:     txn.Description,
			Amount:          &amounts[0],
			Status:          domain.RuleClassified,
			RuleID:          &ruleID,
		}, userID)
		if err != nil {
			return nil, err
		}
		return &ruleID, nil
	}
	return nil, nil
}

// validateAllocations checks that percentages sum to exactly 100 and each
// target account exists, is active and belongs to the pharmacy.
func (s *ruleService) validateAllocations(ctx context.Context, pharmacyID string, allocations []domain.RuleAllocation) error {
	if len(allocations) == 0 {
		return apperrors.NewValidationError("rule must have at least one allocation")
	}

	sum := decimal.Zero
	for _, alloc := range allocations {
		if !alloc.Percent.IsPositive() {
			return apperrors.NewValidationError("allocation percentage must be positive")
		}
		sum = sum.Add(alloc.Percent)

		account, err := s.accountSvc.GetAccountByID(ctx, pharmacyID, alloc.AccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewValidationError(fmt.Sprintf("allocation account %s does not exist", alloc.AccountID))
			}
			return err
		}
		if !account.IsActive {
			return apperrors.NewValidationError(fmt.Sprintf("allocation account %s is inactive", alloc.AccountID))
		}
	}

	if !sum.Equal(decimal.NewFromInt(100)) {
		return apperrors.NewValidationError(fmt.Sprintf("allocation percentages must sum to 100, got %s", sum))
	}
	return nil
}

func (s *ruleService) getOwnedRule(ctx context.Context, pharmacyID, ruleID string) (*domain.BankRule, error) {
	rule, err := s.ruleRepo.FindRuleByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if rule.PharmacyID != pharmacyID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("rule %s not found", ruleID))
	}
	return rule, nil
}

func buildConditions(newID func() string, payloads []dto.RuleConditionPayload) []domain.RuleCondition {
	out := make([]domain.RuleCondition, len(payloads))
	for i, p := range payloads {
		out[i] = domain.RuleCondition{
			ConditionID: newID(),
			Group:       domain.ConditionGroup(p.Group),
			Field:       domain.ConditionField(p.Field),
			Operator:    domain.ConditionOperator(p.Operator),
			Value:       p.Value,
		}
	}
	return out
}

func buildAllocations(newID func() string, payloads []dto.RuleAllocationPayload) []domain.RuleAllocation {
	out := make([]domain.RuleAllocation, len(payloads))
	for i, p := range payloads {
		out[i] = domain.RuleAllocation{
			AllocationID: newID(),
			AccountID:    p.AccountID,
			Percent:      p.Percent,
			Position:     i,
		}
	}
	return out
}
