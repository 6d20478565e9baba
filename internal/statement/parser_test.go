package statement_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharbooks/pharma_books_app/internal/apperrors"
	"github.com/pharbooks/pharma_books_app/internal/core/domain"
	"github.com/pharbooks/pharma_books_app/internal/statement"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestGenericFormat_ParseAmount(t *testing.T) {
	f := statement.FormatFor(domain.FormatGeneric)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "1234.56", "1234.56"},
		{"currency symbol and grouping", "R 1,234.56", "1234.56"},
		{"decimal comma", "123,45", "123.45"},
		{"grouping dot with decimal comma", "1.234,56", "1234.56"},
		{"non-breaking space grouping", "1 234,56", "1234.56"},
		{"parenthesised negative", "(200.00)", "-200"},
		{"trailing minus", "150.00-", "-150"},
		{"leading minus", "-45.10", "-45.1"},
		{"zero", "0.00", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ParseAmount(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestGenericFormat_ParseAmount_Invalid(t *testing.T) {
	f := statement.FormatFor(domain.FormatGeneric)

	for _, input := range []string{"", "   ", "abc", "R -"} {
		_, err := f.ParseAmount(input)
		assert.Error(t, err, "input %q should not parse", input)
	}
}

func TestGenericFormat_ParseDate(t *testing.T) {
	f := statement.FormatFor(domain.FormatGeneric)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"day first slash", "31/01/2025", time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)},
		{"iso", "2025-01-31", time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)},
		{"day first dash", "05-02-2025", time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)},
		{"single digit day and month", "5/1/2025", time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"short year", "31/01/25", time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)},
		{"named month", "02 Jan 2025", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"compact", "20250131", time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)},
		{"month first detected by overflow", "01/13/2025", time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ParseDate(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}

	_, err := f.ParseDate("not a date")
	assert.Error(t, err)
	_, err = f.ParseDate("32/01/2025")
	assert.Error(t, err)
}

func TestFNBFormat_ParseAmount(t *testing.T) {
	f := statement.FormatFor(domain.FormatFNB)

	got, err := f.ParseAmount("1 234,56 Cr")
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("1234.56")))

	got, err = f.ParseAmount("500.00 Dr")
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("-500")))

	// Without an indicator the sign is taken as written.
	got, err = f.ParseAmount("-75.00")
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("-75")))
}

func TestStandardBankFormat_ParseDescription(t *testing.T) {
	f := statement.FormatFor(domain.FormatStandardBank)

	assert.Equal(t, "POS PURCHASE CHECKERS", f.ParseDescription("## POS Purchase  Checkers "))
	assert.Equal(t, "EFT SALARY", f.ParseDescription("EFT Salary"))
}

func TestNormalizeDescription(t *testing.T) {
	assert.Equal(t, "POS PURCHASE DIS-CHEM", statement.NormalizeDescription("  pos   purchase\tDis-Chem "))
	assert.Equal(t, "", statement.NormalizeDescription("   "))
}

func TestParser_Parse_Generic(t *testing.T) {
	csvData := "Date,Description,Amount,Reference,Balance\n" +
		"01/02/2025,Card purchase  Clicks,-150.00,REF001,4850.00\n" +
		"03/02/2025,EFT Salary,12000.00,REF002,16850.00\n"

	parser := statement.NewParser(domain.FormatGeneric)
	result, err := parser.Parse([]byte(csvData))
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Empty(t, result.Errors)

	first := result.Rows[0]
	assert.Equal(t, 1, first.RowNumber)
	assert.Equal(t, "CARD PURCHASE CLICKS", first.Description)
	assert.Equal(t, "Card purchase  Clicks", first.RawDescription)
	assert.Equal(t, "REF001", first.Reference)
	assert.True(t, first.Amount.Equal(dec("-150")))
	require.NotNil(t, first.Balance)
	assert.True(t, first.Balance.Equal(dec("4850")))

	assert.Equal(t, 2, result.Summary.RowCount)
	assert.True(t, result.Summary.TotalIn.Equal(dec("12000")))
	assert.True(t, result.Summary.TotalOut.Equal(dec("-150")))
	require.NotNil(t, result.Summary.MinDate)
	require.NotNil(t, result.Summary.MaxDate)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), *result.Summary.MinDate)
	assert.Equal(t, time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC), *result.Summary.MaxDate)
}

func TestParser_Parse_SemicolonDelimiter(t *testing.T) {
	csvData := "Date;Description;Amount\n" +
		"01/02/2025;Apteek aankoop;123,45\n"

	result, err := statement.NewParser(domain.FormatGeneric).Parse([]byte(csvData))
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.True(t, result.Rows[0].Amount.Equal(dec("123.45")))
	assert.Equal(t, "APTEEK AANKOOP", result.Rows[0].Description)
}

func TestParser_Parse_Latin1Encoding(t *testing.T) {
	// "Café" with a Latin-1 e-acute, invalid as UTF-8.
	csvData := []byte("Date,Description,Amount\n01/02/2025,Caf\xe9 du Parc,-80.00\n")

	result, err := statement.NewParser(domain.FormatGeneric).Parse(csvData)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "CAFÉ DU PARC", result.Rows[0].Description)
}

func TestParser_Parse_UTF8BOM(t *testing.T) {
	csvData := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Date,Description,Amount\n01/02/2025,Salary,100.00\n")...)

	result, err := statement.NewParser(domain.FormatGeneric).Parse(csvData)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
}

func TestParser_Parse_CollectsRowErrors(t *testing.T) {
	csvData := "Date,Description,Amount\n" +
		"01/02/2025,Good row,100.00\n" +
		"not-a-date,Bad date,50.00\n" +
		"03/02/2025,,25.00\n" +
		"04/02/2025,Bad amount,xyz\n" +
		"05/02/2025,Another good row,-10.00\n"

	result, err := statement.NewParser(domain.FormatGeneric).Parse([]byte(csvData))
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	require.Len(t, result.Errors, 3)

	assert.Equal(t, 2, result.Errors[0].RowNumber)
	assert.Contains(t, result.Errors[0].Reason, "invalid date")
	assert.Equal(t, 3, result.Errors[1].RowNumber)
	assert.Contains(t, result.Errors[1].Reason, "description")
	assert.Equal(t, 4, result.Errors[2].RowNumber)
	assert.Contains(t, result.Errors[2].Reason, "invalid amount")

	// Summary covers parsed rows only.
	assert.Equal(t, 2, result.Summary.RowCount)
}

func TestParser_Parse_SkipsBlankRows(t *testing.T) {
	csvData := "Date,Description,Amount\n" +
		"01/02/2025,First,100.00\n" +
		",,\n" +
		"02/02/2025,Second,200.00\n"

	result, err := statement.NewParser(domain.FormatGeneric).Parse([]byte(csvData))
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 2, result.Rows[1].RowNumber)
}

func TestParser_Parse_FileLevelFailures(t *testing.T) {
	parser := statement.NewParser(domain.FormatGeneric)

	_, err := parser.Parse([]byte(""))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = parser.Parse([]byte("   \n  "))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = parser.Parse([]byte("Date,Narrative,Amount\n01/02/2025,x,1.00\n"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestParser_Parse_FNBIndicators(t *testing.T) {
	csvData := "Date,Description,Amount\n" +
		"01/02/2025,Deposit,1 500.00 Cr\n" +
		"02/02/2025,Debit order,350.00 Dr\n"

	result, err := statement.NewParser(domain.FormatFNB).Parse([]byte(csvData))
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.True(t, result.Rows[0].Amount.Equal(dec("1500")))
	assert.True(t, result.Rows[1].Amount.Equal(dec("-350")))
}
