package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sibusisodev/statement-processor-service/internal/domain"
)

// PostgresStatementRepository implements StatementRepository using PostgreSQL
type PostgresStatementRepository struct {
	db *pgxpool.Pool
}

// NewPostgresStatementRepository creates a new PostgreSQL statement repository
func NewPostgresStatementRepository(db *pgxpool.Pool) *PostgresStatementRepository {
	return &PostgresStatementRepository{
		db: db,
	}
}

// StoreStatement saves a parsed statement and its transactions in one
// database transaction
func (r *PostgresStatementRepository) StoreStatement(ctx context.Context, statement *domain.ParsedBankStatement) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback if not committed

	// Insert statement
	_, err = tx.Exec(ctx, `
		INSERT INTO bank_statements (id, account_number, period_start, period_end,
			opening_balance_cents, closing_balance_cents, source, confidence,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, statement.ID, statement.AccountNumber, statement.Period.Start, statement.Period.End,
		statement.OpeningBalanceCents, statement.ClosingBalanceCents,
		string(statement.Source), statement.Confidence,
		statement.CreatedAt, statement.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert statement: %w", err)
	}

	// Insert transactions, preserving statement line order
	for i, transaction := range statement.Transactions {
		_, err = tx.Exec(ctx, `
			INSERT INTO statement_transactions (statement_id, position, date,
				description, payee_name, reference, amount_cents, is_credit)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, statement.ID, i, transaction.Date, transaction.Description,
			transaction.PayeeName, transaction.Reference,
			transaction.AmountCents, transaction.IsCredit)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
	}

	// Commit transaction
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetStatementByID retrieves a statement and its transactions by ID
func (r *PostgresStatementRepository) GetStatementByID(ctx context.Context, statementID string) (*domain.ParsedBankStatement, error) {
	// Query statement
	statement := domain.NewParsedBankStatement()
	var source string
	err := r.db.QueryRow(ctx, `
		SELECT id, account_number, period_start, period_end,
			opening_balance_cents, closing_balance_cents, source, confidence,
			created_at, updated_at
		FROM bank_statements
		WHERE id = $1
	`, statementID).Scan(
		&statement.ID, &statement.AccountNumber, &statement.Period.Start, &statement.Period.End,
		&statement.OpeningBalanceCents, &statement.ClosingBalanceCents, &source,
		&statement.Confidence, &statement.CreatedAt, &statement.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("statement not found: %s", statementID)
		}
		return nil, fmt.Errorf("failed to get statement: %w", err)
	}
	statement.Source = domain.ExtractionSource(source)

	// Query transactions
	transactions, err := r.statementTransactions(ctx, statementID)
	if err != nil {
		return nil, err
	}
	statement.Transactions = transactions

	return statement, nil
}

// ListStatements retrieves statements with pagination, newest first.
// Transactions are not loaded for list views.
func (r *PostgresStatementRepository) ListStatements(ctx context.Context, offset, limit int) ([]*domain.ParsedBankStatement, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, account_number, period_start, period_end,
			opening_balance_cents, closing_balance_cents, source, confidence,
			created_at, updated_at
		FROM bank_statements
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query statements: %w", err)
	}
	defer rows.Close()

	statements := []*domain.ParsedBankStatement{}
	for rows.Next() {
		statement := domain.NewParsedBankStatement()
		var source string
		if err := rows.Scan(
			&statement.ID, &statement.AccountNumber, &statement.Period.Start, &statement.Period.End,
			&statement.OpeningBalanceCents, &statement.ClosingBalanceCents, &source,
			&statement.Confidence, &statement.CreatedAt, &statement.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan statement: %w", err)
		}
		statement.Source = domain.ExtractionSource(source)
		statements = append(statements, statement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statements: %w", err)
	}

	return statements, nil
}

// statementTransactions loads the ordered transactions for one statement
func (r *PostgresStatementRepository) statementTransactions(ctx context.Context, statementID string) ([]domain.ParsedTransaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT date, description, payee_name, reference, amount_cents, is_credit
		FROM statement_transactions
		WHERE statement_id = $1
		ORDER BY position
	`, statementID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := []domain.ParsedTransaction{}
	for rows.Next() {
		var transaction domain.ParsedTransaction
		if err := rows.Scan(
			&transaction.Date, &transaction.Description, &transaction.PayeeName,
			&transaction.Reference, &transaction.AmountCents, &transaction.IsCredit,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, transaction)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}
