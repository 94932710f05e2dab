package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sibusisodev/statement-processor-service/internal/domain"
)

// LineOutcomeKind enumerates what happened to a single text line during
// cascade matching. Dropping a line is an observable branch, not an accident
// of falling through every pattern.
type LineOutcomeKind int

const (
	// LineMatched means a pattern produced a plausible transaction
	LineMatched LineOutcomeKind = iota
	// LineSkippedNoMatch means no layout pattern recognized the line
	LineSkippedNoMatch
	// LineSkippedImplausible means a pattern matched but the amount failed
	// the plausibility bound (usually a misparsed balance line)
	LineSkippedImplausible
)

// LineOutcome records the per-line result of cascade matching
type LineOutcome struct {
	Kind        LineOutcomeKind
	Line        string
	Layout      string // name of the layout that matched, empty on no match
	Transaction *domain.ParsedTransaction
}

// layoutPattern pairs a compiled line pattern with its extractor. Patterns are
// tried top-to-bottom; the first one that matches a line wins and no later
// pattern runs against the same line. window is the number of consecutive
// lines the extractor consumes.
type layoutPattern struct {
	name    string
	window  int
	re      *regexp.Regexp
	extract func(c *TransactionCascade, window []string, match []string) (*domain.ParsedTransaction, bool)
}

var (
	// Layout 1: "DD Mon Description Amount[Cr] Balance[Cr] [Fee]" with an
	// optional trailing inline fee column
	singleLineBalanceRe = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]{3,9})\s+(.+?)\s+([\d,]+\.\d{2})(Cr)?\s+([\d,]+\.\d{2})(Cr)?(?:\s+([\d,]+\.\d{2}))?$`)

	// Layout 2: "DD/MM/YYYY Description Amount" with a leading minus for debits
	slashDateRe = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})\s+(.+?)\s+(-?)([\d,]+\.\d{2})$`)

	// Layout 3: "YYYY-MM-DD Description RAmount" with a currency prefix
	isoDateRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})\s+(.+?)\s+(-?)R\s?([\d,]+\.\d{2})$`)

	// Layout 4: a bare "DD Mon" date line opening a three-line window
	bareDateRe = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]{3,9})$`)

	// Amount line closing a three-line window, e.g. "450.00Cr" or "-120.50"
	bareAmountRe = regexp.MustCompile(`^(-?)R?\s?([\d,]+\.\d{2})(Cr)?$`)

	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
)

// layouts is the ordered pattern cascade. Order matters: the single-line
// balance layout must be tried before the bare-date layout so a full
// transaction line is never consumed as a three-line window opener.
var layouts = []layoutPattern{
	{name: "single_line_balance", window: 1, re: singleLineBalanceRe, extract: extractSingleLineBalance},
	{name: "slash_date", window: 1, re: slashDateRe, extract: extractSlashDate},
	{name: "iso_date", window: 1, re: isoDateRe, extract: extractISODate},
	{name: "three_line", window: 3, re: bareDateRe, extract: extractThreeLine},
}

// payeePrefixes are transfer-style description openers whose remainder names
// the counterparty
var payeePrefixes = []string{
	"Magtape Credit",
	"Magtape Debit",
	"Immediate Payment From",
	"Immediate Payment To",
	"ADT Cash Deposit",
	"EFT Credit",
	"EFT Debit",
	"Transfer From",
	"Transfer To",
	"Payment From",
	"Payment To",
	"Debit Order",
}

// TransactionCascade converts filtered statement lines into transactions
// using the ordered layout patterns. The statement year is inferred once per
// document because most layouts carry only day+month.
type TransactionCascade struct {
	year int
	log  zerolog.Logger
}

// NewTransactionCascade creates a cascade bound to a statement year
func NewTransactionCascade(year int, log zerolog.Logger) *TransactionCascade {
	return &TransactionCascade{
		year: year,
		log:  log,
	}
}

// Parse runs the cascade over the filtered lines, returning transactions in
// source-line order plus the per-line outcomes. Skipped lines are logged at
// debug level and never fail the document.
func (c *TransactionCascade) Parse(lines []string) ([]domain.ParsedTransaction, []LineOutcome) {
	transactions := make([]domain.ParsedTransaction, 0, len(lines))
	outcomes := make([]LineOutcome, 0, len(lines))

	i := 0
	for i < len(lines) {
		matched := false

		for _, layout := range layouts {
			if i+layout.window > len(lines) {
				continue
			}

			match := layout.re.FindStringSubmatch(lines[i])
			if match == nil {
				continue
			}

			tx, ok := layout.extract(c, lines[i:i+layout.window], match)
			if !ok {
				// Pattern shape matched but the content did not (bad month
				// token, broken window tail); let later patterns try
				continue
			}

			// First match wins: the line window is consumed either way
			if !tx.PlausibleAmount() {
				c.log.Debug().
					Str("layout", layout.name).
					Str("line", lines[i]).
					Int64("amount_cents", tx.AmountCents).
					Msg("dropping implausible transaction amount")
				outcomes = append(outcomes, LineOutcome{
					Kind:   LineSkippedImplausible,
					Line:   lines[i],
					Layout: layout.name,
				})
			} else {
				transactions = append(transactions, *tx)
				outcomes = append(outcomes, LineOutcome{
					Kind:        LineMatched,
					Line:        lines[i],
					Layout:      layout.name,
					Transaction: tx,
				})
			}

			i += layout.window
			matched = true
			break
		}

		if !matched {
			c.log.Debug().Str("line", lines[i]).Msg("no layout pattern matched line")
			outcomes = append(outcomes, LineOutcome{
				Kind: LineSkippedNoMatch,
				Line: lines[i],
			})
			i++
		}
	}

	return transactions, outcomes
}

// extractSingleLineBalance handles layout 1. The amount column's Cr suffix
// carries the direction; a trailing third amount is an inline bank charge
// folded into the reference, never a second transaction.
func extractSingleLineBalance(c *TransactionCascade, window []string, match []string) (*domain.ParsedTransaction, bool) {
	date, ok := c.dayMonthDate(match[1], match[2])
	if !ok {
		return nil, false
	}

	cents, err := amountToCents(match[4])
	if err != nil {
		return nil, false
	}

	description := normalizeDescription(match[3])
	tx := &domain.ParsedTransaction{
		Date:        date,
		Description: description,
		PayeeName:   payeeFromDescription(description),
		AmountCents: cents,
		IsCredit:    match[5] == "Cr",
	}

	if fee := match[8]; fee != "" {
		tx.Reference = fmt.Sprintf("Bank charge: R%s", fee)
	}

	return tx, true
}

// extractSlashDate handles layout 2, where a leading minus marks a debit
func extractSlashDate(c *TransactionCascade, window []string, match []string) (*domain.ParsedTransaction, bool) {
	day, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	year, _ := strconv.Atoi(match[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil, false
	}

	cents, err := amountToCents(match[6])
	if err != nil {
		return nil, false
	}

	description := normalizeDescription(match[4])
	return &domain.ParsedTransaction{
		Date:        time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC),
		Description: description,
		PayeeName:   payeeFromDescription(description),
		AmountCents: cents,
		IsCredit:    match[5] != "-",
	}, true
}

// extractISODate handles layout 3, a currency-prefixed ISO-dated line
func extractISODate(c *TransactionCascade, window []string, match []string) (*domain.ParsedTransaction, bool) {
	year, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	day, _ := strconv.Atoi(match[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil, false
	}

	cents, err := amountToCents(match[6])
	if err != nil {
		return nil, false
	}

	description := normalizeDescription(match[4])
	return &domain.ParsedTransaction{
		Date:        time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC),
		Description: description,
		PayeeName:   payeeFromDescription(description),
		AmountCents: cents,
		IsCredit:    match[5] != "-",
	}, true
}

// extractThreeLine handles layout 4: a bare "DD Mon" line followed by a
// description line and then an amount line. The whole window is consumed so
// its tail lines can never double-match.
func extractThreeLine(c *TransactionCascade, window []string, match []string) (*domain.ParsedTransaction, bool) {
	date, ok := c.dayMonthDate(match[1], match[2])
	if !ok {
		return nil, false
	}

	description := normalizeDescription(window[1])
	if description == "" || bareAmountRe.MatchString(description) || bareDateRe.MatchString(description) {
		return nil, false
	}

	amountMatch := bareAmountRe.FindStringSubmatch(window[2])
	if amountMatch == nil {
		return nil, false
	}

	cents, err := amountToCents(amountMatch[2])
	if err != nil {
		return nil, false
	}

	return &domain.ParsedTransaction{
		Date:        date,
		Description: description,
		PayeeName:   payeeFromDescription(description),
		AmountCents: cents,
		IsCredit:    amountMatch[3] == "Cr",
	}, true
}

// dayMonthDate builds a date from a day token and a month name using the
// inferred statement year. An unrecognized month rejects the candidate line.
func (c *TransactionCascade) dayMonthDate(dayToken, monthToken string) (time.Time, bool) {
	month, ok := monthFromName(monthToken)
	if !ok {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(dayToken)
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}

	return time.Date(c.year, month, day, 0, 0, 0, 0, time.UTC), true
}

// normalizeDescription collapses column padding into single spaces
func normalizeDescription(s string) string {
	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(s, " "))
}

// payeeFromDescription extracts the counterparty from transfer-style
// descriptions; returns empty when no known prefix applies
func payeeFromDescription(description string) string {
	for _, prefix := range payeePrefixes {
		if len(description) <= len(prefix) {
			continue
		}
		if !strings.EqualFold(description[:len(prefix)], prefix) {
			continue
		}
		remainder := strings.TrimSpace(description[len(prefix):])
		if remainder != "" && !strings.HasPrefix(remainder, "#") {
			return remainder
		}
	}
	return ""
}
