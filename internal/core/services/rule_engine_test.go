package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharbooks/pharma_books_app/internal/core/domain"
)

func engineTxn(description string, amount string) domain.BankTransaction {
	return domain.BankTransaction{
		TransactionID: "txn-1",
		Description:   description,
		Reference:     "INV-100",
		Amount:        decimal.RequireFromString(amount),
		Date:          time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
	}
}

func cond(group domain.ConditionGroup, field domain.ConditionField, op domain.ConditionOperator, value string) domain.RuleCondition {
	return domain.RuleCondition{Group: group, Field: field, Operator: op, Value: value}
}

func TestRuleMatches_NoConditionsNeverMatches(t *testing.T) {
	rule := domain.BankRule{RuleID: "r1"}
	assert.False(t, ruleMatches(rule, engineTxn("ANYTHING", "100")))
}

func TestRuleMatches_AllGroupIsConjunctive(t *testing.T) {
	rule := domain.BankRule{Conditions: []domain.RuleCondition{
		cond(domain.GroupAll, domain.FieldDescription, domain.OpContains, "DIS-CHEM"),
		cond(domain.GroupAll, domain.FieldAmountOut, domain.OpGreaterThan, "50"),
	}}

	assert.True(t, ruleMatches(rule, engineTxn("POS PURCHASE DIS-CHEM", "-120.00")))
	// One failing ALL condition sinks the rule.
	assert.False(t, ruleMatches(rule, engineTxn("POS PURCHASE DIS-CHEM", "-20.00")))
	assert.False(t, ruleMatches(rule, engineTxn("POS PURCHASE CLICKS", "-120.00")))
}

func TestRuleMatches_AnyGroupNeedsOneHit(t *testing.T) {
	rule := domain.BankRule{Conditions: []domain.RuleCondition{
		cond(domain.GroupAny, domain.FieldDescription, domain.OpContains, "SALARY"),
		cond(domain.GroupAny, domain.FieldDescription, domain.OpContains, "WAGES"),
	}}

	assert.True(t, ruleMatches(rule, engineTxn("EFT SALARY FEB", "10000")))
	assert.True(t, ruleMatches(rule, engineTxn("EFT WAGES FEB", "10000")))
	assert.False(t, ruleMatches(rule, engineTxn("EFT RENT FEB", "10000")))
}

func TestRuleMatches_MixedGroups(t *testing.T) {
	rule := domain.BankRule{Conditions: []domain.RuleCondition{
		cond(domain.GroupAll, domain.FieldAmountIn, domain.OpGreaterThan, "0"),
		cond(domain.GroupAny, domain.FieldDescription, domain.OpStartsWith, "EFT"),
		cond(domain.GroupAny, domain.FieldReference, domain.OpEquals, "INV-100"),
	}}

	assert.True(t, ruleMatches(rule, engineTxn("EFT PAYMENT", "500")))
	// ALL passes, both ANY conditions miss.
	miss := engineTxn("CASH DEPOSIT", "500")
	miss.Reference = "OTHER"
	assert.False(t, ruleMatches(rule, miss))
	// ANY hits but the ALL condition fails on an outflow.
	assert.False(t, ruleMatches(rule, engineTxn("EFT PAYMENT", "-500")))
}

func TestEvaluateCondition_StringOperators(t *testing.T) {
	txn := engineTxn("Pos Purchase Dis-Chem Sandton", "-100")

	tests := []struct {
		name string
		cond domain.RuleCondition
		want bool
	}{
		{"contains case-insensitive", cond(domain.GroupAll, domain.FieldDescription, domain.OpContains, "dis-chem"), true},
		{"not_contains", cond(domain.GroupAll, domain.FieldDescription, domain.OpNotContains, "CLICKS"), true},
		{"equals trims and folds case", cond(domain.GroupAll, domain.FieldReference, domain.OpEquals, " inv-100 "), true},
		{"starts_with", cond(domain.GroupAll, domain.FieldDescription, domain.OpStartsWith, "POS"), true},
		{"ends_with", cond(domain.GroupAll, domain.FieldDescription, domain.OpEndsWith, "SANDTON"), true},
		{"regex", cond(domain.GroupAll, domain.FieldDescription, domain.OpRegex, `dis.chem`), true},
		{"regex miss", cond(domain.GroupAll, domain.FieldDescription, domain.OpRegex, `^SANDTON`), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, evaluateCondition(tt.cond, txn))
		})
	}
}

func TestEvaluateCondition_FailsClosed(t *testing.T) {
	txn := engineTxn("ANYTHING", "100")

	// Broken regex, unparseable number, unparseable date, unknown field and
	// unknown operator all refuse to match rather than erroring out.
	assert.False(t, evaluateCondition(cond(domain.GroupAll, domain.FieldDescription, domain.OpRegex, "("), txn))
	assert.False(t, evaluateCondition(cond(domain.GroupAll, domain.FieldAmount, domain.OpGreaterThan, "lots"), txn))
	assert.False(t, evaluateCondition(cond(domain.GroupAll, domain.FieldDate, domain.OpLessThan, "someday"), txn))
	assert.False(t, evaluateCondition(cond(domain.GroupAll, domain.ConditionField("memo"), domain.OpEquals, "x"), txn))
	assert.False(t, evaluateCondition(cond(domain.GroupAll, domain.FieldAmount, domain.ConditionOperator("between"), "1"), txn))
}

func TestEvaluateCondition_AmountFields(t *testing.T) {
	inflow := engineTxn("DEPOSIT", "250.00")
	outflow := engineTxn("PAYMENT", "-250.00")

	// amount compares the signed value.
	assert.True(t, evaluateCondition(cond(domain.GroupAll, domain.FieldAmount, domain.OpLessThan, "0"), outflow))
	assert.False(t, evaluateCondition(cond(domain.GroupAll, domain.FieldAmount, domain.OpLessThan, "0"), inflow))

	// amount_in sees the inflow, zero for outflows.
	assert.True(t, evaluateCondition(cond(domain.GroupAll, domain.FieldAmountIn, domain.OpEquals, "250"), inflow))
	assert.True(t, evaluateCondition(cond(domain.GroupAll, domain.FieldAmountIn, domain.OpEquals, "0"), outflow))

	// amount_out is the absolute outflow, zero for inflows.
	assert.True(t, evaluateCondition(cond(domain.GroupAll, domain.FieldAmountOut, domain.OpGreaterThan, "200"), outflow))
	assert.True(t, evaluateCondition(cond(domain.GroupAll, domain.FieldAmountOut, domain.OpEquals, "0"), inflow))
}

func TestEvaluateCondition_DateOperators(t *testing.T) {
	txn := engineTxn("X", "1") // dated 2025-02-10

	assert.True(t, evaluateCondition(cond(domain.GroupAll, domain.FieldDate, domain.OpEquals, "2025-02-10"), txn))
	assert.True(t, evaluateCondition(cond(domain.GroupAll, domain.FieldDate, domain.OpEquals, "10/02/2025"), txn))
	assert.True(t, evaluateCondition(cond(domain.GroupAll, domain.FieldDate, domain.OpGreaterThan, "2025-01-31"), txn))
	assert.True(t, evaluateCondition(cond(domain.GroupAll, domain.FieldDate, domain.OpLessThan, "2025-03-01"), txn))
	assert.False(t, evaluateCondition(cond(domain.GroupAll, domain.FieldDate, domain.OpGreaterThan, "2025-02-10"), txn))
	// String operators see the ISO rendering.
	assert.True(t, evaluateCondition(cond(domain.GroupAll, domain.FieldDate, domain.OpStartsWith, "2025-02"), txn))
}

func alloc(accountID, percent string) domain.RuleAllocation {
	return domain.RuleAllocation{AccountID: accountID, Percent: decimal.RequireFromString(percent)}
}

func TestSplitAllocations_SingleTakesAll(t *testing.T) {
	amounts := splitAllocations(decimal.RequireFromString("-1234.56"), []domain.RuleAllocation{alloc("a", "100")})
	require.Len(t, amounts, 1)
	assert.True(t, amounts[0].Equal(decimal.RequireFromString("1234.56")))
}

func TestSplitAllocations_LastAbsorbsRemainder(t *testing.T) {
	amounts := splitAllocations(decimal.RequireFromString("100"), []domain.RuleAllocation{
		alloc("a", "33.33"),
		alloc("b", "33.33"),
		alloc("c", "33.34"),
	})
	require.Len(t, amounts, 3)
	assert.True(t, amounts[0].Equal(decimal.RequireFromString("33.33")))
	assert.True(t, amounts[1].Equal(decimal.RequireFromString("33.33")))
	assert.True(t, amounts[2].Equal(decimal.RequireFromString("33.34")))

	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}
	assert.True(t, sum.Equal(decimal.RequireFromString("100")))
}

func TestSplitAllocations_RoundingStillSumsToTotal(t *testing.T) {
	// 0.01 across three equal thirds cannot round evenly.
	amounts := splitAllocations(decimal.RequireFromString("0.01"), []domain.RuleAllocation{
		alloc("a", "33.3333"),
		alloc("b", "33.3333"),
		alloc("c", "33.3334"),
	})
	require.Len(t, amounts, 3)

	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}
	assert.True(t, sum.Equal(decimal.RequireFromString("0.01")))
}

func TestSplitAllocations_Empty(t *testing.T) {
	assert.Empty(t, splitAllocations(decimal.RequireFromString("10"), nil))
}
