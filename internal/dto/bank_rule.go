package dto

import (
	"github.com/shopspring/decimal"

	"github.com/pharbooks/pharma_books_app/internal/core/domain"
)

// RuleConditionPayload is one condition in a rule definition payload.
type RuleConditionPayload struct {
	Group    string `json:"group" binding:"required,oneof=ALL ANY"`
	Field    string `json:"field" binding:"required,oneof=description reference amount amount_in amount_out date"`
	Operator string `json:"operator" binding:"required,oneof=contains not_contains equals starts_with ends_with greater_than less_than regex"`
	Value    string `json:"value" binding:"required"`
}

// RuleAllocationPayload is one (account, percentage) pair in a rule payload.
type RuleAllocationPayload struct {
	AccountID string          `json:"accountID" binding:"required"`
	Percent   decimal.Decimal `json:"percent" binding:"required"`
}

// CreateRuleRequest defines a new classification rule.
type CreateRuleRequest struct {
	Name         string                  `json:"name" binding:"required"`
	Direction    string                  `json:"direction" binding:"required,oneof=receive spend transfer"`
	Priority     int                     `json:"priority" binding:"min=0"`
	ContactLabel string                  `json:"contactLabel"`
	Conditions   []RuleConditionPayload  `json:"conditions" binding:"dive"`
	Allocations  []RuleAllocationPayload `json:"allocations" binding:"required,min=1,dive"`
}

// UpdateRuleRequest updates an existing rule. Nil fields are left unchanged;
// providing conditions or allocations replaces the full list.
type UpdateRuleRequest struct {
	Name         *string                  `json:"name"`
	Direction    *string                  `json:"direction" binding:"omitempty,oneof=receive spend transfer"`
	Priority     *int                     `json:"priority" binding:"omitempty,min=0"`
	ContactLabel *string                  `json:"contactLabel"`
	Conditions   *[]RuleConditionPayload  `json:"conditions" binding:"omitempty,dive"`
	Allocations  *[]RuleAllocationPayload `json:"allocations" binding:"omitempty,min=1,dive"`
}

// RuleResponse is the API shape of a rule.
type RuleResponse struct {
	RuleID       string                  `json:"ruleID"`
	PharmacyID   string                  `json:"pharmacyID"`
	Name         string                  `json:"name"`
	Direction    string                  `json:"direction"`
	Priority     int                     `json:"priority"`
	ContactLabel string                  `json:"contactLabel,omitempty"`
	IsActive     bool                    `json:"isActive"`
	Conditions   []RuleConditionPayload  `json:"conditions"`
	Allocations  []RuleAllocationPayload `json:"allocations"`
}

// ToRuleResponse converts a domain rule to its API shape.
func ToRuleResponse(r *domain.BankRule) RuleResponse {
	resp := RuleResponse{
		RuleID:       r.RuleID,
		PharmacyID:   r.PharmacyID,
		Name:         r.Name,
		Direction:    string(r.Direction),
		Priority:     r.Priority,
		ContactLabel: r.ContactLabel,
		IsActive:     r.IsActive,
		Conditions:   make([]RuleConditionPayload, len(r.Conditions)),
		Allocations:  make([]RuleAllocationPayload, len(r.Allocations)),
	}
	for i, c := range r.Conditions {
		resp.Conditions[i] = RuleConditionPayload{
			Group:    string(c.Group),
			Field:    string(c.Field),
			Operator: string(c.Operator),
			Value:    c.Value,
		}
	}
	for i, a := range r.Allocations {
		resp.Allocations[i] = RuleAllocationPayload{AccountID: a.AccountID, Percent: a.Percent}
	}
	return resp
}

// ApplyRulesResult summarizes one rule application run over a batch.
type ApplyRulesResult struct {
	Total             int `json:"total"`
	ClassifiedByRule  int `json:"classifiedByRule"`
	AlreadyClassified int `json:"alreadyClassified"`
	Unclassified      int `json:"unclassified"`
}
