package parser

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var centsFactor = decimal.NewFromInt(100)

// amountToCents converts an amount string like "1,234.56" to integer cents.
// Thousands separators are stripped; the decimal value is scaled exactly so
// no float rounding can corrupt the amount.
func amountToCents(s string) (int64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	cleaned = strings.TrimPrefix(cleaned, "R")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	return d.Mul(centsFactor).IntPart(), nil
}

// balanceToCents converts a balance amount plus its Dr/Cr suffix to signed
// cents. A "Dr" suffix negates the value; "Cr" or no suffix leaves it
// positive (or zero).
func balanceToCents(amount, suffix string) (int64, error) {
	cents, err := amountToCents(amount)
	if err != nil {
		return 0, err
	}
	if strings.EqualFold(strings.TrimSpace(suffix), "Dr") {
		return -cents, nil
	}
	return cents, nil
}
