package domain

import "github.com/shopspring/decimal"

// RuleDirection constrains which transactions a rule may classify.
type RuleDirection string

const (
	DirectionReceive  RuleDirection = "receive"
	DirectionSpend    RuleDirection = "spend"
	DirectionTransfer RuleDirection = "transfer"
)

// ConditionGroup distinguishes conjunctive from disjunctive conditions.
type ConditionGroup string

const (
	GroupAll ConditionGroup = "ALL"
	GroupAny ConditionGroup = "ANY"
)

// ConditionField names the transaction attribute a condition inspects.
type ConditionField string

const (
	FieldDescription ConditionField = "description"
	FieldReference   ConditionField = "reference"
	FieldAmount      ConditionField = "amount"
	FieldAmountIn    ConditionField = "amount_in"
	FieldAmountOut   ConditionField = "amount_out"
	FieldDate        ConditionField = "date"
)

// ConditionOperator names the comparison applied to a condition field.
type ConditionOperator string

const (
	OpContains    ConditionOperator = "contains"
	OpNotContains ConditionOperator = "not_contains"
	OpEquals      ConditionOperator = "equals"
	OpStartsWith  ConditionOperator = "starts_with"
	OpEndsWith    ConditionOperator = "ends_with"
	OpGreaterThan ConditionOperator = "greater_than"
	OpLessThan    ConditionOperator = "less_than"
	OpRegex       ConditionOperator = "regex"
)

// RuleCondition belongs to exactly one rule.
type RuleCondition struct {
	ConditionID string            `json:"conditionID"`
	RuleID      string            `json:"ruleID"`
	Group       ConditionGroup    `json:"group"`
	Field       ConditionField    `json:"field"`
	Operator    ConditionOperator `json:"operator"`
	Value       string            `json:"value"`
}

// RuleAllocation directs a percentage of a matched transaction's amount to a
// ledger account. A rule's allocation percentages must sum to exactly 100.
type RuleAllocation struct {
	AllocationID string          `json:"allocationID"`
	RuleID       string          `json:"ruleID"`
	AccountID    string          `json:"accountID"`
	Percent      decimal.Decimal `json:"percent"`
	Position     int             `json:"position"` // Evaluation order; last allocation absorbs rounding
}

// BankRule is a pharmacy-scoped classification rule. Lower priority values
// evaluate first; the first matching rule wins. Soft-deleted via IsActive.
type BankRule struct {
	RuleID       string           `json:"ruleID"` // Primary key (UUID)
	PharmacyID   string           `json:"pharmacyID"`
	Name         string           `json:"name"`
	Direction    RuleDirection    `json:"direction"`
	Priority     int              `json:"priority"`
	ContactLabel string           `json:"contactLabel"`
	IsActive     bool             `json:"isActive"`
	Conditions   []RuleCondition  `json:"conditions"`
	Allocations  []RuleAllocation `json:"allocations"`
	AuditFields
}
