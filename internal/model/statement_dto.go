package model

import (
	"time"

	"github.com/sibusisodev/statement-processor-service/internal/domain"
)

// TransactionDTO represents a single statement transaction for data transfer
type TransactionDTO struct {
	Date        string `json:"date"` // Format: YYYY-MM-DD
	Description string `json:"description"`
	PayeeName   string `json:"payee_name,omitempty"`
	Reference   string `json:"reference,omitempty"`
	AmountCents int64  `json:"amount_cents"`
	IsCredit    bool   `json:"is_credit"`
}

// StatementDTO represents the structured data extracted from a bank statement
// for data transfer
type StatementDTO struct {
	ID                  string           `json:"id"`
	AccountNumber       string           `json:"account_number"`
	PeriodStart         string           `json:"period_start"` // Format: YYYY-MM-DD
	PeriodEnd           string           `json:"period_end"`   // Format: YYYY-MM-DD
	OpeningBalanceCents int64            `json:"opening_balance_cents"`
	ClosingBalanceCents int64            `json:"closing_balance_cents"`
	Transactions        []TransactionDTO `json:"transactions"`
	Source              string           `json:"source"`
	Confidence          float64          `json:"confidence,omitempty"`
}

// StatementProcessingRequest represents an incoming statement processing
// request. DigitalText and PageCount carry the upstream first-pass text
// extraction when the caller already ran one; they drive the scanned-document
// decision.
type StatementProcessingRequest struct {
	File        []byte
	DigitalText string
	PageCount   int
}

// StatementSuccessResponse represents a successful statement processing response
type StatementSuccessResponse struct {
	Success   bool          `json:"success"`
	Statement *StatementDTO `json:"statement"`
}

// StatementErrorResponse represents an error response from statement processing
type StatementErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// FromDomain converts a domain ParsedBankStatement to a StatementDTO
func (dto *StatementDTO) FromDomain(statement *domain.ParsedBankStatement) {
	dto.ID = statement.ID
	dto.AccountNumber = statement.AccountNumber
	dto.PeriodStart = statement.Period.Start.Format("2006-01-02")
	dto.PeriodEnd = statement.Period.End.Format("2006-01-02")
	dto.OpeningBalanceCents = statement.OpeningBalanceCents
	dto.ClosingBalanceCents = statement.ClosingBalanceCents
	dto.Source = string(statement.Source)
	dto.Confidence = statement.Confidence

	// Convert transactions
	dto.Transactions = make([]TransactionDTO, len(statement.Transactions))
	for i, tx := range statement.Transactions {
		dto.Transactions[i] = TransactionDTO{
			Date:        tx.Date.Format("2006-01-02"),
			Description: tx.Description,
			PayeeName:   tx.PayeeName,
			Reference:   tx.Reference,
			AmountCents: tx.AmountCents,
			IsCredit:    tx.IsCredit,
		}
	}
}

// ToDomain converts a StatementDTO to a domain ParsedBankStatement
func (dto *StatementDTO) ToDomain() (*domain.ParsedBankStatement, error) {
	statement := domain.NewParsedBankStatement()
	statement.ID = dto.ID
	statement.AccountNumber = dto.AccountNumber
	statement.OpeningBalanceCents = dto.OpeningBalanceCents
	statement.ClosingBalanceCents = dto.ClosingBalanceCents
	statement.Source = domain.ExtractionSource(dto.Source)
	statement.Confidence = dto.Confidence

	// Parse period dates
	if dto.PeriodStart != "" {
		start, err := time.Parse("2006-01-02", dto.PeriodStart)
		if err != nil {
			return nil, err
		}
		statement.Period.Start = start
	}

	if dto.PeriodEnd != "" {
		end, err := time.Parse("2006-01-02", dto.PeriodEnd)
		if err != nil {
			return nil, err
		}
		statement.Period.End = end
	}

	// Convert transactions
	statement.Transactions = make([]domain.ParsedTransaction, len(dto.Transactions))
	for i, tx := range dto.Transactions {
		date, err := time.Parse("2006-01-02", tx.Date)
		if err != nil {
			return nil, err
		}
		statement.Transactions[i] = domain.ParsedTransaction{
			Date:        date,
			Description: tx.Description,
			PayeeName:   tx.PayeeName,
			Reference:   tx.Reference,
			AmountCents: tx.AmountCents,
			IsCredit:    tx.IsCredit,
		}
	}

	return statement, nil
}
