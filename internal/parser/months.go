package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// monthNumbers maps three-letter and full month names (lowercased) to their
// month number. Unrecognized month tokens cause the candidate line to be
// skipped, never the whole document.
var monthNumbers = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// monthFromName resolves a month name to its number, case-insensitively
func monthFromName(name string) (time.Month, bool) {
	month, ok := monthNumbers[strings.ToLower(strings.TrimSpace(name))]
	return month, ok
}

var (
	// "Statement Period : 1 August 2023 to 31 August 2023" - the end date's
	// year anchors day+month transaction lines
	periodEndYearPattern = regexp.MustCompile(`(?i)statement\s+period.{0,60}?to\s+\d{1,2}\s+[A-Za-z]+\s+(\d{4})`)

	// Fallback: any 4-digit year near the words "statement" or "period"
	nearbyYearPattern = regexp.MustCompile(`(?i)\b(?:statement|period)\b.{0,40}?\b((?:19|20)\d{2})\b`)
)

// inferStatementYear determines the year to attach to transaction lines that
// carry only day+month. It prefers the end year of a "Statement Period ... to
// ..." phrase, then any year adjacent to "statement" or "period", and finally
// falls back to the given current time's year.
func inferStatementYear(text string, now time.Time) int {
	if match := periodEndYearPattern.FindStringSubmatch(text); len(match) > 1 {
		if year, err := strconv.Atoi(match[1]); err == nil {
			return year
		}
	}

	if match := nearbyYearPattern.FindStringSubmatch(text); len(match) > 1 {
		if year, err := strconv.Atoi(match[1]); err == nil {
			return year
		}
	}

	return now.Year()
}
