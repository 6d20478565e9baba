package models

import "github.com/shopspring/decimal"

// BankRule is the bank_rules row shape.
type BankRule struct {
	RuleID       string `db:"rule_id"`
	PharmacyID   string `db:"pharmacy_id"`
	Name         string `db:"name"`
	Direction    string `db:"direction"`
	Priority     int    `db:"priority"`
	ContactLabel string `db:"contact_label"`
	IsActive     bool   `db:"is_active"`
	AuditFields
}

// RuleCondition is the rule_conditions row shape.
type RuleCondition struct {
	ConditionID string `db:"condition_id"`
	RuleID      string `db:"rule_id"`
	CondGroup   string `db:"cond_group"`
	Field       string `db:"field"`
	Operator    string `db:"operator"`
	Value       string `db:"value"`
}

// RuleAllocation is the rule_allocations row shape.
type RuleAllocation struct {
	AllocationID string          `db:"allocation_id"`
	RuleID       string          `db:"rule_id"`
	AccountID    string          `db:"account_id"`
	Percent      decimal.Decimal `db:"percent"`
	Position     int             `db:"position"`
}
