package domain

import (
	"time"
)

// MaxPlausibleAmountCents is the upper bound for a single transaction amount
// (R1,000,000). Amounts above it are almost always a running balance that a
// pattern misread as a transaction amount.
const MaxPlausibleAmountCents int64 = 100_000_000

// ExtractionSource identifies which extraction path produced the statement text
type ExtractionSource string

const (
	SourceDigital  ExtractionSource = "digital"
	SourceCloud    ExtractionSource = "cloud"
	SourceLocalOCR ExtractionSource = "local_ocr"
)

// ExtractedText is the raw output of an extraction path before parsing.
// Confidence is only meaningful for local OCR output; cloud and digital text
// carry confidence 100 when non-empty.
type ExtractedText struct {
	Text           string
	Confidence     float64 // 0-100
	PagesProcessed int
	Source         ExtractionSource
}

// StatementPeriod is the date range a bank statement covers
type StatementPeriod struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the period start strictly precedes the end
func (p StatementPeriod) Valid() bool {
	return p.Start.Before(p.End)
}

// ParsedTransaction represents a single transaction extracted from statement
// text. AmountCents is always the absolute magnitude; direction is carried
// solely by IsCredit.
type ParsedTransaction struct {
	Date        time.Time
	Description string
	PayeeName   string // empty when no payee could be identified
	Reference   string // empty when no reference/annotation applies
	AmountCents int64
	IsCredit    bool
}

// PlausibleAmount reports whether the amount falls inside the sanity bound.
// Zero, negative and over-bound amounts are misparses, never real transactions.
func (t *ParsedTransaction) PlausibleAmount() bool {
	return t.AmountCents > 0 && t.AmountCents <= MaxPlausibleAmountCents
}

// ParsedBankStatement is the complete result of one statement extraction
type ParsedBankStatement struct {
	ID                  string
	AccountNumber       string
	Period              StatementPeriod
	OpeningBalanceCents int64 // negative when the balance carried a Dr suffix
	ClosingBalanceCents int64
	Transactions        []ParsedTransaction
	Source              ExtractionSource
	Confidence          float64 // 0-100, from the extraction path
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewParsedBankStatement creates an empty statement result
func NewParsedBankStatement() *ParsedBankStatement {
	return &ParsedBankStatement{
		Transactions: make([]ParsedTransaction, 0),
	}
}

// AddTransaction appends a transaction, preserving source-line order
func (s *ParsedBankStatement) AddTransaction(tx ParsedTransaction) {
	s.Transactions = append(s.Transactions, tx)
}

// TotalCreditsCents sums the credit transactions
func (s *ParsedBankStatement) TotalCreditsCents() int64 {
	var total int64
	for _, tx := range s.Transactions {
		if tx.IsCredit {
			total += tx.AmountCents
		}
	}
	return total
}

// TotalDebitsCents sums the debit transactions
func (s *ParsedBankStatement) TotalDebitsCents() int64 {
	var total int64
	for _, tx := range s.Transactions {
		if !tx.IsCredit {
			total += tx.AmountCents
		}
	}
	return total
}
