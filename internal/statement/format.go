package statement

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharbooks/pharma_books_app/internal/core/domain"
)

// Format provides the bank-specific parsing hooks for one statement variant.
// The set of implementations is closed; selection happens via the bank
// account's configured statement format, never by sniffing the file content.
type Format interface {
	Name() domain.StatementFormat
	ParseDate(s string) (time.Time, error)
	ParseAmount(s string) (decimal.Decimal, error)
	ParseDescription(s string) string
}

// FormatFor returns the Format implementation for the given configured
// variant, defaulting to the generic format.
func FormatFor(f domain.StatementFormat) Format {
	switch f {
	case domain.FormatFNB:
		return fnbFormat{}
	case domain.FormatStandardBank:
		return standardBankFormat{}
	default:
		return genericFormat{}
	}
}

// Day-first layouts tried in order, consistent with the source locale.
var dateLayouts = []string{
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2006-01-02",
	"2006/01/02",
	"02 Jan 2006",
	"2 Jan 2006",
	"02 January 2006",
	"20060102",
	"02/01/06",
	"02-01-06",
}

var dmyPattern = regexp.MustCompile(`^(\d{1,2})[/\-. ](\d{1,2})[/\-. ](\d{2,4})$`)

// parseDate tries the ordered layout list, then a lenient single-digit pass,
// then a regex day/month/year fallback.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	// Lenient pass: single-digit days/months, e.g. "5/1/2025".
	for _, layout := range []string{"2/1/2006", "2-1-2006", "2.1.2006", "2006-1-2"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if m := dmyPattern.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		// A second segment above 12 means the file is month-first after all.
		if month > 12 && day <= 12 {
			day, month = month, day
		}
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// parseAmount turns a statement amount string into a fixed-point decimal.
// It strips currency symbols and spacing, treats a parenthesised or
// trailing-minus value as negative, and disambiguates the comma: a comma
// followed by exactly two digits at the end is a decimal separator
// (European style), otherwise commas are thousands grouping.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	if strings.HasSuffix(s, "-") {
		neg = true
		s = s[:len(s)-1]
	}

	// Keep only digits, separators and sign; drops currency symbols and
	// regular or non-breaking spaces.
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-', r == '+':
			return r
		default:
			return -1
		}
	}, s)
	if s == "" || s == "-" || s == "+" {
		return decimal.Zero, fmt.Errorf("no digits in amount")
	}

	if comma := strings.LastIndex(s, ","); comma >= 0 && comma == len(s)-3 {
		// Decimal comma; any dots before it were thousands grouping.
		intPart := strings.NewReplacer(",", "", ".", "").Replace(s[:comma])
		s = intPart + "." + s[comma+1:]
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unparseable amount: %w", err)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// NormalizeDescription trims, collapses internal whitespace and uppercases a
// description for rule matching. The raw description is kept separately.
func NormalizeDescription(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

type genericFormat struct{}

func (genericFormat) Name() domain.StatementFormat { return domain.FormatGeneric }

func (genericFormat) ParseDate(s string) (time.Time, error) { return parseDate(s) }

func (genericFormat) ParseAmount(s string) (decimal.Decimal, error) { return parseAmount(s) }

func (genericFormat) ParseDescription(s string) string { return NormalizeDescription(s) }

// fnbFormat handles FNB exports, which mark direction with a trailing
// Cr/Dr indicator instead of a sign.
type fnbFormat struct{}

func (fnbFormat) Name() domain.StatementFormat { return domain.FormatFNB }

func (fnbFormat) ParseDate(s string) (time.Time, error) { return parseDate(s) }

func (fnbFormat) ParseAmount(s string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(s)
	upper := strings.ToUpper(trimmed)
	switch {
	case strings.HasSuffix(upper, "CR"):
		d, err := parseAmount(trimmed[:len(trimmed)-2])
		if err != nil {
			return decimal.Zero, err
		}
		return d.Abs(), nil
	case strings.HasSuffix(upper, "DR"):
		d, err := parseAmount(trimmed[:len(trimmed)-2])
		if err != nil {
			return decimal.Zero, err
		}
		return d.Abs().Neg(), nil
	default:
		return parseAmount(trimmed)
	}
}

func (fnbFormat) ParseDescription(s string) string { return NormalizeDescription(s) }

// standardBankFormat handles Standard Bank exports, which prefix
// descriptions with an internal branch marker like "##".
type standardBankFormat struct{}

func (standardBankFormat) Name() domain.StatementFormat { return domain.FormatStandardBank }

func (standardBankFormat) ParseDate(s string) (time.Time, error) { return parseDate(s) }

func (standardBankFormat) ParseAmount(s string) (decimal.Decimal, error) { return parseAmount(s) }

func (standardBankFormat) ParseDescription(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "##")
	return NormalizeDescription(s)
}
