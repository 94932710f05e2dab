package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sibusisodev/statement-processor-service/internal/domain"
)

// UnknownAccountNumber is the placeholder used when no account number can be
// located. The account number is advisory; downstream reconciliation matches
// on period and transactions.
const UnknownAccountNumber = "unknown"

// ValidationError reports that required statement metadata could not be
// located in otherwise-successful extracted text
type ValidationError struct {
	Field string
	Err   error
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("statement validation failed on %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("statement validation failed on %s", e.Field)
}

// Unwrap returns the underlying error
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// StatementMetadata holds the document-level fields located by scanning the
// full extracted text rather than individual lines
type StatementMetadata struct {
	AccountNumber       string
	Period              domain.StatementPeriod
	OpeningBalanceCents int64
	ClosingBalanceCents int64
}

// Period phrase variants, tried in order of specificity. The first variant
// that matches the whole document wins.
var periodPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)statement\s+period\s*:\s*(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})\s+to\s+(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})`),
	regexp.MustCompile(`(?i)statement\s+period\s*[:\-]?\s*(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})\s*[-\x{2013}]\s*(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})`),
	regexp.MustCompile(`(?i)\bperiod\s*:\s*(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})\s+to\s+(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})`),
	regexp.MustCompile(`(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})\s+to\s+(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})`),
}

var accountNumberPattern = regexp.MustCompile(`(?i)account\s+(?:number|no)\s*:?\s*(\d[\d ]{3,}\d)`)

// Balance patterns: a strict "Label: amount Suffix" form, then a looser form
// allowing intervening table structure between label and amount
var (
	openingBalancePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)opening\s+balance\s*:\s*R?\s*([\d,]+\.\d{2})\s*(Cr|Dr)?`),
		regexp.MustCompile(`(?i)opening\s+balance[\s\S]{0,60}?([\d,]+\.\d{2})\s*(Cr|Dr)?`),
	}
	closingBalancePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)closing\s+balance\s*:\s*R?\s*([\d,]+\.\d{2})\s*(Cr|Dr)?`),
		regexp.MustCompile(`(?i)closing\s+balance[\s\S]{0,60}?([\d,]+\.\d{2})\s*(Cr|Dr)?`),
	}
)

// ExtractMetadata locates the statement period, account number and signed
// opening/closing balances in the full extracted text. Period and both
// balances are mandatory; a missing account number degrades to the "unknown"
// placeholder instead of failing.
func ExtractMetadata(text string) (*StatementMetadata, error) {
	period, err := extractPeriod(text)
	if err != nil {
		return nil, err
	}

	opening, err := extractBalance(text, "opening balance", openingBalancePatterns)
	if err != nil {
		return nil, err
	}

	closing, err := extractBalance(text, "closing balance", closingBalancePatterns)
	if err != nil {
		return nil, err
	}

	return &StatementMetadata{
		AccountNumber:       extractAccountNumber(text),
		Period:              period,
		OpeningBalanceCents: opening,
		ClosingBalanceCents: closing,
	}, nil
}

// extractPeriod tries the phrase variants in order; failure to match any of
// them is a validation failure because the period is never defaulted
func extractPeriod(text string) (domain.StatementPeriod, error) {
	for _, pattern := range periodPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		start, startOK := parseDayMonthYear(match[1], match[2], match[3])
		end, endOK := parseDayMonthYear(match[4], match[5], match[6])
		if !startOK || !endOK {
			continue
		}

		period := domain.StatementPeriod{Start: start, End: end}
		if !period.Valid() {
			return domain.StatementPeriod{}, &ValidationError{
				Field: "statement period",
				Err:   fmt.Errorf("period start %s does not precede end %s", start.Format("2006-01-02"), end.Format("2006-01-02")),
			}
		}
		return period, nil
	}

	return domain.StatementPeriod{}, &ValidationError{
		Field: "statement period",
		Err:   fmt.Errorf("no period phrase found in extracted text"),
	}
}

// extractAccountNumber returns the account number digits or the "unknown"
// placeholder
func extractAccountNumber(text string) string {
	match := accountNumberPattern.FindStringSubmatch(text)
	if match == nil {
		return UnknownAccountNumber
	}
	return strings.ReplaceAll(match[1], " ", "")
}

// extractBalance tries the strict pattern then the loose one; both balances
// are mandatory because an unbalanced statement cannot be safely reconciled
func extractBalance(text, field string, patterns []*regexp.Regexp) (int64, error) {
	for _, pattern := range patterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		cents, err := balanceToCents(match[1], match[2])
		if err != nil {
			continue
		}
		return cents, nil
	}

	return 0, &ValidationError{
		Field: field,
		Err:   fmt.Errorf("no %s found in extracted text", field),
	}
}

// parseDayMonthYear builds a date from "D Month YYYY" tokens
func parseDayMonthYear(dayToken, monthToken, yearToken string) (time.Time, bool) {
	month, ok := monthFromName(monthToken)
	if !ok {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(dayToken)
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}

	year, err := strconv.Atoi(yearToken)
	if err != nil {
		return time.Time{}, false
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}
