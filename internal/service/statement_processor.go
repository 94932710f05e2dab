package service

import (
	"context"
	"fmt"

	"github.com/sibusisodev/statement-processor-service/internal/domain"
	"github.com/sibusisodev/statement-processor-service/internal/model"
	"github.com/sibusisodev/statement-processor-service/internal/repository"
)

// StatementProcessor defines the interface for statement processing services
type StatementProcessor interface {
	// ProcessStatement extracts text from a statement PDF, parses it and
	// returns the structured result
	ProcessStatement(ctx context.Context, request *model.StatementProcessingRequest) (*domain.ParsedBankStatement, error)

	// SetRepository sets the repository for storing parsed statements
	SetRepository(repo repository.StatementRepository)

	// Shutdown gracefully shuts down the service
	Shutdown()
}

// CloudExtractor is the remote text-extraction dependency
type CloudExtractor interface {
	ExtractText(ctx context.Context, document []byte) (string, error)
	Configured() bool
}

// LocalExtractor is the on-host recognition fallback
type LocalExtractor interface {
	ExtractText(ctx context.Context, pdf []byte) (*domain.ExtractedText, error)
}

// StatementParser turns extracted text into a structured statement
type StatementParser interface {
	Parse(text string) (*domain.ParsedBankStatement, error)
}

// Archiver stores the original PDF for audit purposes
type Archiver interface {
	ArchivePDF(ctx context.Context, statementID string, pdf []byte) (string, error)
}

// ProcessingError represents an error that occurred during statement processing
type ProcessingError struct {
	// Op is the operation that failed
	Op string

	// Err is the underlying error
	Err error
}

// Error returns a string representation of the error
func (e *ProcessingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

// Unwrap returns the underlying error
func (e *ProcessingError) Unwrap() error {
	return e.Err
}
