package mapping

import (
	"github.com/pharbooks/pharma_books_app/internal/core/domain"
	"github.com/pharbooks/pharma_books_app/internal/models"
)

// ToModelBankRule converts a domain rule header to its row shape.
// Conditions and allocations are persisted as their own rows.
func ToModelBankRule(d domain.BankRule) models.BankRule {
	return models.BankRule{
		RuleID:       d.RuleID,
		PharmacyID:   d.PharmacyID,
		Name:         d.Name,
		Direction:    string(d.Direction),
		Priority:     d.Priority,
		ContactLabel: d.ContactLabel,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankRule converts a rule header row to the domain representation.
func ToDomainBankRule(m models.BankRule) domain.BankRule {
	return domain.BankRule{
		RuleID:       m.RuleID,
		PharmacyID:   m.PharmacyID,
		Name:         m.Name,
		Direction:    domain.RuleDirection(m.Direction),
		Priority:     m.Priority,
		ContactLabel: m.ContactLabel,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainRuleCondition converts a condition row to the domain representation.
func ToDomainRuleCondition(m models.RuleCondition) domain.RuleCondition {
	return domain.RuleCondition{
		ConditionID: m.ConditionID,
		RuleID:      m.RuleID,
		Group:       domain.ConditionGroup(m.CondGroup),
		Field:       domain.ConditionField(m.Field),
		Operator:    domain.ConditionOperator(m.Operator),
		Value:       m.Value,
	}
}

// ToDomainRuleAllocation converts an allocation row to the domain representation.
func ToDomainRuleAllocation(m models.RuleAllocation) domain.RuleAllocation {
	return domain.RuleAllocation{
		AllocationID: m.AllocationID,
		RuleID:       m.RuleID,
		AccountID:    m.AccountID,
		Percent:      m.Percent,
		Position:     m.Position,
	}
}
