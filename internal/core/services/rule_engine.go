package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharbooks/pharma_books_app/internal/core/domain"
)

// ruleMatches reports whether a rule matches a transaction: every ALL-group
// condition must be true and, when ANY-group conditions exist, at least one
// of them must be true. A rule with zero conditions never matches.
func ruleMatches(rule domain.BankRule, txn domain.BankTransaction) bool {
	if len(rule.Conditions) == 0 {
		return false
	}

	anySeen := false
	anyMatched := false
	for _, cond := range rule.Conditions {
		matched := evaluateCondition(cond, txn)
		switch cond.Group {
		case domain.GroupAny:
			anySeen = true
			if matched {
				anyMatched = true
			}
		default: // ALL, and any unknown group is treated conjunctively
			if !matched {
				return false
			}
		}
	}

	if anySeen && !anyMatched {
		return false
	}
	return true
}

// evaluateCondition applies one condition to a transaction. All failure modes
// (unknown field, bad number, bad regex, bad date) fail closed: no match.
func evaluateCondition(cond domain.RuleCondition, txn domain.BankTransaction) bool {
	switch cond.Field {
	case domain.FieldDescription, domain.FieldReference:
		return evaluateStringCondition(stringFieldValue(cond.Field, txn), cond)
	case domain.FieldAmount, domain.FieldAmountIn, domain.FieldAmountOut:
		return evaluateAmountCondition(amountFieldValue(cond.Field, txn), cond)
	case domain.FieldDate:
		return evaluateDateCondition(txn.Date, cond)
	default:
		return false
	}
}

func stringFieldValue(field domain.ConditionField, txn domain.BankTransaction) string {
	if field == domain.FieldReference {
		return txn.Reference
	}
	return txn.Description
}

// amountFieldValue derives the comparable amount: amount_in is the positive
// inflow (zero otherwise), amount_out is the absolute outflow (zero otherwise).
func amountFieldValue(field domain.ConditionField, txn domain.BankTransaction) decimal.Decimal {
	switch field {
	case domain.FieldAmountIn:
		if txn.Amount.Sign() > 0 {
			return txn.Amount
		}
		return decimal.Zero
	case domain.FieldAmountOut:
		if txn.Amount.Sign() < 0 {
			return txn.Amount.Abs()
		}
		return decimal.Zero
	default:
		return txn.Amount
	}
}

// evaluateStringCondition applies case-insensitive string operators.
func evaluateStringCondition(value string, cond domain.RuleCondition) bool {
	v := strings.ToUpper(strings.TrimSpace(value))
	w := strings.ToUpper(strings.TrimSpace(cond.Value))

	switch cond.Operator {
	case domain.OpContains:
		return strings.Contains(v, w)
	case domain.OpNotContains:
		return !strings.Contains(v, w)
	case domain.OpEquals:
		return v == w
	case domain.OpStartsWith:
		return strings.HasPrefix(v, w)
	case domain.OpEndsWith:
		return strings.HasSuffix(v, w)
	case domain.OpRegex:
		re, err := regexp.Compile("(?i)" + cond.Value)
		if err != nil {
			return false
		}
		return re.MatchString(value)
	case domain.OpGreaterThan, domain.OpLessThan:
		// Numeric operators on a string field compare both sides as decimals.
		left, err1 := decimal.NewFromString(v)
		right, err2 := decimal.NewFromString(w)
		if err1 != nil || err2 != nil {
			return false
		}
		if cond.Operator == domain.OpGreaterThan {
			return left.GreaterThan(right)
		}
		return left.LessThan(right)
	default:
		return false
	}
}

// evaluateAmountCondition applies operators to a decimal field. The stored
// comparison value must itself parse as a decimal.
func evaluateAmountCondition(value decimal.Decimal, cond domain.RuleCondition) bool {
	switch cond.Operator {
	case domain.OpEquals, domain.OpGreaterThan, domain.OpLessThan:
		target, err := decimal.NewFromString(strings.TrimSpace(cond.Value))
		if err != nil {
			return false
		}
		switch cond.Operator {
		case domain.OpEquals:
			return value.Equal(target)
		case domain.OpGreaterThan:
			return value.GreaterThan(target)
		default:
			return value.LessThan(target)
		}
	case domain.OpContains, domain.OpNotContains, domain.OpStartsWith, domain.OpEndsWith, domain.OpRegex:
		// String operators see the canonical decimal rendering.
		return evaluateStringCondition(value.String(), cond)
	default:
		return false
	}
}

var conditionDateLayouts = []string{"2006-01-02", "02/01/2006", "02-01-2006"}

func evaluateDateCondition(date time.Time, cond domain.RuleCondition) bool {
	switch cond.Operator {
	case domain.OpEquals, domain.OpGreaterThan, domain.OpLessThan:
		var target time.Time
		var err error
		for _, layout := range conditionDateLayouts {
			target, err = time.Parse(layout, strings.TrimSpace(cond.Value))
			if err == nil {
				break
			}
		}
		if err != nil {
			return false
		}
		day := date.Truncate(24 * time.Hour)
		switch cond.Operator {
		case domain.OpEquals:
			return day.Equal(target)
		case domain.OpGreaterThan:
			return day.After(target)
		default:
			return day.Before(target)
		}
	case domain.OpContains, domain.OpNotContains, domain.OpStartsWith, domain.OpEndsWith, domain.OpRegex:
		return evaluateStringCondition(date.Format("2006-01-02"), cond)
	default:
		return false
	}
}

// splitAllocations computes the per-allocation amounts for a matched rule:
// abs(total) * percent / 100 rounded to cents, with the last allocation
// absorbing the rounding remainder so the splits sum to the full amount.
func splitAllocations(total decimal.Decimal, allocations []domain.RuleAllocation) []decimal.Decimal {
	total = total.Abs()
	amounts := make([]decimal.Decimal, len(allocations))
	if len(allocations) == 0 {
		return amounts
	}

	hundred := decimal.NewFromInt(100)
	allocated := decimal.Zero
	for i, alloc := range allocations[:len(allocations)-1] {
		amounts[i] = total.Mul(alloc.Percent).Div(hundred).Round(2)
		allocated = allocated.Add(amounts[i])
	}
	amounts[len(allocations)-1] = total.Sub(allocated)
	return amounts
}
