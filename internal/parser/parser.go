package parser

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/sibusisodev/statement-processor-service/internal/domain"
)

// StatementParser converts extracted statement text into a typed
// ParsedBankStatement. Parsing is deterministic: the same text always yields
// the same, order-preserved result.
type StatementParser struct {
	log zerolog.Logger
	now func() time.Time
}

// NewStatementParser creates a parser using the given logger
func NewStatementParser(log zerolog.Logger) *StatementParser {
	return &StatementParser{
		log: log,
		now: time.Now,
	}
}

// Parse extracts metadata and transactions from statement text. Metadata
// failures (missing period or balances) abort with a ValidationError;
// individual unmatched lines are skipped and logged, never fatal.
func (p *StatementParser) Parse(text string) (*domain.ParsedBankStatement, error) {
	metadata, err := ExtractMetadata(text)
	if err != nil {
		return nil, err
	}

	transactions, outcomes := p.ParseTransactions(text)

	statement := domain.NewParsedBankStatement()
	statement.AccountNumber = metadata.AccountNumber
	statement.Period = metadata.Period
	statement.OpeningBalanceCents = metadata.OpeningBalanceCents
	statement.ClosingBalanceCents = metadata.ClosingBalanceCents
	statement.Transactions = transactions

	p.log.Info().
		Str("account", statement.AccountNumber).
		Int("transactions", len(transactions)).
		Int("lines_seen", len(outcomes)).
		Msg("parsed bank statement")

	return statement, nil
}

// ParseTransactions runs header/footer filtering, statement-year inference and
// the pattern cascade over the text, returning transactions in source-line
// order together with per-line outcomes
func (p *StatementParser) ParseTransactions(text string) ([]domain.ParsedTransaction, []LineOutcome) {
	year := inferStatementYear(text, p.now())
	lines := FilterLines(text)

	cascade := NewTransactionCascade(year, p.log)
	return cascade.Parse(lines)
}
