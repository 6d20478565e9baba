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

type PgxBankRuleRepository struct {
	BaseRepository
}

// newPgxBankRuleRepository creates a new repository for classification rule data.
func newPgxBankRuleRepository(pool *pgxpool.Pool) portsrepo.BankRuleRepositoryFacade {
	return &PgxBankRuleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxBankRuleRepository implements portsrepo.BankRuleRepositoryFacade
var _ portsrepo.BankRuleRepositoryFacade = (*PgxBankRuleRepository)(nil)

const ruleColumns = `rule_id, pharmacy_id, name, direction, priority, contact_label, is_active, created_at, created_by, last_updated_at, last_updated_by`

const insertConditionQuery = `
	INSERT INTO rule_conditions (condition_id, rule_id, cond_group, field, operator, value)
	VALUES ($1, $2, $3, $4, $5, $6);
`

const insertAllocationQuery = `
	INSERT INTO rule_allocations (allocation_id, rule_id, account_id, percent, position)
	VALUES ($1, $2, $3, $4, $5);
`

// SaveRule persists a rule header plus conditions and allocations atomically.
func (r *PgxBankRuleRepository) SaveRule(ctx context.Context, rule domain.BankRule) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelBankRule(rule)
	headerQuery := `
		INSERT INTO bank_rules (` + ruleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, headerQuery,
		m.RuleID,
		m.PharmacyID,
		m.Name,
		m.Direction,
		m.Priority,
		m.ContactLabel,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: rule %s already exists", apperrors.ErrDuplicate, m.RuleID)
		}
		return fmt.Errorf("failed to insert rule %s: %w", m.RuleID, err)
	}

	if err := insertRuleChildren(ctx, tx, rule); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateRule replaces a rule's header, conditions and allocations atomically.
func (r *PgxBankRuleRepository) UpdateRule(ctx context.Context, rule domain.BankRule) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelBankRule(rule)
	headerQuery := `
		UPDATE bank_rules
		SET name = $2, direction = $3, priority = $4, contact_label = $5, is_active = $6, last_updated_at = $7, last_updated_by = $8
		WHERE rule_id = $1;
	`
	tag, err := tx.Exec(ctx, headerQuery,
		m.RuleID,
		m.Name,
		m.Direction,
		m.Priority,
		m.ContactLabel,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update rule %s: %w", m.RuleID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("rule %s: %w", m.RuleID, apperrors.ErrNotFound)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM rule_conditions WHERE rule_id = $1;`, m.RuleID); err != nil {
		return fmt.Errorf("failed to clear conditions for rule %s: %w", m.RuleID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM rule_allocations WHERE rule_id = $1;`, m.RuleID); err != nil {
		return fmt.Errorf("failed to clear allocations for rule %s: %w", m.RuleID, err)
	}

	if err := insertRuleChildren(ctx, tx, rule); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// insertRuleChildren queues condition and allocation inserts in one batch.
func insertRuleChildren(ctx context.Context, tx pgx.Tx, rule domain.BankRule) error {
	batch := &pgx.Batch{}
	for _, c := range rule.Conditions {
		batch.Queue(insertConditionQuery, c.ConditionID, rule.RuleID, string(c.Group), string(c.Field), string(c.Operator), c.Value)
	}
	for _, a := range rule.Allocations {
		batch.Queue(insertAllocationQuery, a.AllocationID, rule.RuleID, a.AccountID, a.Percent, a.Position)
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert rule children for rule %s: %w", rule.RuleID, err)
		}
	}
	return nil
}

// DeactivateRule soft-deletes a rule.
func (r *PgxBankRuleRepository) DeactivateRule(ctx context.Context, ruleID string, userID string, now time.Time) error {
	query := `
		UPDATE bank_rules
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE rule_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, ruleID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate rule %s: %w", ruleID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("rule %s: %w", ruleID, apperrors.ErrNotFound)
	}
	return nil
}

// FindRuleByID retrieves a rule with conditions and allocations populated.
func (r *PgxBankRuleRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.BankRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM bank_rules WHERE rule_id = $1;`

	m, err := scanBankRule(r.Pool.QueryRow(ctx, query, ruleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("rule %s: %w", ruleID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find rule %s: %w", ruleID, err)
	}

	rule := mapping.ToDomainBankRule(m)
	conditions, allocations, err := r.loadRuleChildren(ctx, []string{ruleID})
	if err != nil {
		return nil, err
	}
	rule.Conditions = conditions[ruleID]
	rule.Allocations = allocations[ruleID]
	return &rule, nil
}

// ListRulesByPharmacy retrieves rules for a pharmacy ordered by priority
// ascending with rule ID as the deterministic tiebreaker.
func (r *PgxBankRuleRepository) ListRulesByPharmacy(ctx context.Context, pharmacyID string, activeOnly bool) ([]domain.BankRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM bank_rules WHERE pharmacy_id = $1`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY priority ASC, rule_id ASC;`

	rows, err := r.Pool.Query(ctx, query, pharmacyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules for pharmacy %s: %w", pharmacyID, err)
	}
	defer rows.Close()

	var rules []domain.BankRule
	var ruleIDs []string
	for rows.Next() {
		m, err := scanBankRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule row: %w", err)
		}
		rules = append(rules, mapping.ToDomainBankRule(m))
		ruleIDs = append(ruleIDs, m.RuleID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return rules, nil
	}

	conditions, allocations, err := r.loadRuleChildren(ctx, ruleIDs)
	if err != nil {
		return nil, err
	}
	for i := range rules {
		rules[i].Conditions = conditions[rules[i].RuleID]
		rules[i].Allocations = allocations[rules[i].RuleID]
	}
	return rules, nil
}

// loadRuleChildren fetches conditions and allocations for a set of rules,
// grouped by rule ID. Allocations come back in position order.
func (r *PgxBankRuleRepository) loadRuleChildren(ctx context.Context, ruleIDs []string) (map[string][]domain.RuleCondition, map[string][]domain.RuleAllocation, error) {
	conditions := make(map[string][]domain.RuleCondition)
	allocations := make(map[string][]domain.RuleAllocation)

	condQuery := `
		SELECT condition_id, rule_id, cond_group, field, operator, value
		FROM rule_conditions WHERE rule_id = ANY($1) ORDER BY condition_id;
	`
	condRows, err := r.Pool.Query(ctx, condQuery, ruleIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query rule conditions: %w", err)
	}
	defer condRows.Close()
	for condRows.Next() {
		var m models.RuleCondition
		if err := condRows.Scan(&m.ConditionID, &m.RuleID, &m.CondGroup, &m.Field, &m.Operator, &m.Value); err != nil {
			return nil, nil, fmt.Errorf("failed to scan condition row: %w", err)
		}
		conditions[m.RuleID] = append(conditions[m.RuleID], mapping.ToDomainRuleCondition(m))
	}
	if err := condRows.Err(); err != nil {
		return nil, nil, err
	}

	allocQuery := `
		SELECT allocation_id, rule_id, account_id, percent, position
		FROM rule_allocations WHERE rule_id = ANY($1) ORDER BY position ASC;
	`
	allocRows, err := r.Pool.Query(ctx, allocQuery, ruleIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query rule allocations: %w", err)
	}
	defer allocRows.Close()
	for allocRows.Next() {
		var m models.RuleAllocation
		if err := allocRows.Scan(&m.AllocationID, &m.RuleID, &m.AccountID, &m.Percent, &m.Position); err != nil {
			return nil, nil, fmt.Errorf("failed to scan allocation row: %w", err)
		}
		allocations[m.RuleID] = append(allocations[m.RuleID], mapping.ToDomainRuleAllocation(m))
	}
	return conditions, allocations, allocRows.Err()
}

func scanBankRule(row pgx.Row) (models.BankRule, error) {
	var m models.BankRule
	err := row.Scan(
		&m.RuleID,
		&m.PharmacyID,
		&m.Name,
		&m.Direction,
		&m.Priority,
		&m.ContactLabel,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}
