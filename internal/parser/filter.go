package parser

import (
	"regexp"
	"strings"
)

// headerFooterPatterns match known statement boilerplate: page numbers, column
// titles, legal text and branch addresses. Lines matching any of these are
// dropped before pattern matching so structurally similar noise cannot
// produce false transactions.
var headerFooterPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^page\s+\d+(\s+of\s+\d+)?$`),
	regexp.MustCompile(`(?i)^date\s+(?:description|details|transaction)`),
	regexp.MustCompile(`(?i)^tran(?:saction)?\s+date\b`),
	regexp.MustCompile(`(?i)^(?:description|details)\s+(?:amount|debit|credit)`),
	regexp.MustCompile(`(?i)^(?:money\s+in|money\s+out|fees)\b.*(?:balance|fees)`),
	regexp.MustCompile(`(?i)registered\s+(?:bank|credit\s+provider)`),
	regexp.MustCompile(`(?i)authorised\s+financial\s+services`),
	regexp.MustCompile(`(?i)^branch\s+(?:code|name)\b`),
	regexp.MustCompile(`(?i)^vat\s+reg(?:istration)?\b`),
	regexp.MustCompile(`(?i)^p\.?\s*o\.?\s*box\b`),
	regexp.MustCompile(`(?i)terms\s+and\s+conditions`),
	regexp.MustCompile(`(?i)^continued\s+on\s+next\s+page`),
}

// IsHeaderFooterLine reports whether a line is known statement boilerplate
func IsHeaderFooterLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, pattern := range headerFooterPatterns {
		if pattern.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// FilterLines splits extracted text into trimmed lines with blank lines and
// header/footer boilerplate removed, ready for the pattern cascade
func FilterLines(text string) []string {
	rawLines := strings.Split(text, "\n")
	lines := make([]string, 0, len(rawLines))
	for _, raw := range rawLines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if IsHeaderFooterLine(line) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
