package repository

import (
	"context"

	"github.com/sibusisodev/statement-processor-service/internal/domain"
)

// StatementRepository defines the interface for statement data storage operations
type StatementRepository interface {
	// StoreStatement stores a parsed statement and its transactions
	StoreStatement(ctx context.Context, statement *domain.ParsedBankStatement) error

	// GetStatementByID retrieves a statement by its ID
	GetStatementByID(ctx context.Context, statementID string) (*domain.ParsedBankStatement, error)

	// ListStatements retrieves a list of statements with optional pagination
	ListStatements(ctx context.Context, offset, limit int) ([]*domain.ParsedBankStatement, error)
}
