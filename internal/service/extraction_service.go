package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sibusisodev/statement-processor-service/internal/domain"
	"github.com/sibusisodev/statement-processor-service/internal/model"
	"github.com/sibusisodev/statement-processor-service/internal/parser"
	"github.com/sibusisodev/statement-processor-service/internal/repository"
)

// fullConfidence is reported for digital and cloud text, which carry no
// per-word confidence of their own
const fullConfidence = 100.0

// ExtractionService implements the StatementProcessor interface. It picks an
// extraction path per document: digital text when the PDF has a usable text
// layer, otherwise cloud extraction with local recognition as fallback.
type ExtractionService struct {
	cloud       CloudExtractor
	local       LocalExtractor
	parser      StatementParser
	archiver    Archiver
	repository  repository.StatementRepository
	maxWorkers  int
	workerQueue chan struct{}
	log         zerolog.Logger
}

// NewExtractionService creates a new statement extraction service
func NewExtractionService(cloud CloudExtractor, local LocalExtractor, statementParser StatementParser, maxWorkers int, log zerolog.Logger) *ExtractionService {
	if maxWorkers <= 0 {
		maxWorkers = 5 // Default to 5 workers
	}

	return &ExtractionService{
		cloud:       cloud,
		local:       local,
		parser:      statementParser,
		maxWorkers:  maxWorkers,
		workerQueue: make(chan struct{}, maxWorkers),
		log:         log,
	}
}

// SetRepository sets the repository for the service
func (s *ExtractionService) SetRepository(repo repository.StatementRepository) {
	s.repository = repo
}

// SetArchiver sets the PDF archiver for the service
func (s *ExtractionService) SetArchiver(archiver Archiver) {
	s.archiver = archiver
}

// ProcessStatement extracts, parses and stores one bank statement
func (s *ExtractionService) ProcessStatement(ctx context.Context, request *model.StatementProcessingRequest) (*domain.ParsedBankStatement, error) {
	// Acquire a worker from the pool
	select {
	case s.workerQueue <- struct{}{}:
		// Worker acquired, continue processing
		defer func() {
			// Release the worker back to the pool
			<-s.workerQueue
		}()
	case <-ctx.Done():
		// Context cancelled while waiting for a worker
		return nil, &ProcessingError{
			Op:  "acquire_worker",
			Err: ctx.Err(),
		}
	}

	extracted, err := s.extractText(ctx, request)
	if err != nil {
		return nil, err
	}

	statement, err := s.parser.Parse(extracted.Text)
	if err != nil {
		return nil, &ProcessingError{
			Op:  "parse_statement",
			Err: err,
		}
	}

	now := time.Now().UTC()
	statement.ID = uuid.New().String()
	statement.Source = extracted.Source
	statement.Confidence = extracted.Confidence
	statement.CreatedAt = now
	statement.UpdatedAt = now

	// Archive the original PDF if an archiver is available
	if s.archiver != nil {
		if _, err := s.archiver.ArchivePDF(ctx, statement.ID, request.File); err != nil {
			// Log the error but continue with processing
			s.log.Warn().
				Str("statement_id", statement.ID).
				Err(err).
				Msg("failed to archive statement PDF")
		}
	}

	// Store the statement if a repository is available
	if s.repository != nil {
		if err := s.repository.StoreStatement(ctx, statement); err != nil {
			// Log the error but continue
			s.log.Warn().
				Str("statement_id", statement.ID).
				Err(err).
				Msg("failed to store parsed statement")
		}
	}

	s.log.Info().
		Str("statement_id", statement.ID).
		Str("source", string(statement.Source)).
		Int("transactions", len(statement.Transactions)).
		Msg("statement processed")

	return statement, nil
}

// extractText chooses and runs the extraction path for one request
func (s *ExtractionService) extractText(ctx context.Context, request *model.StatementProcessingRequest) (*domain.ExtractedText, error) {
	// A usable digital text layer skips extraction entirely
	digitalText := strings.TrimSpace(request.DigitalText)
	if digitalText != "" && !parser.IsScannedDocument(len(digitalText), request.PageCount) {
		s.log.Debug().
			Int("text_length", len(digitalText)).
			Int("page_count", request.PageCount).
			Msg("using digital text layer")
		return &domain.ExtractedText{
			Text:           digitalText,
			Confidence:     fullConfidence,
			PagesProcessed: request.PageCount,
			Source:         domain.SourceDigital,
		}, nil
	}

	// Scanned document: cloud extraction first, local recognition as fallback
	if s.cloud != nil && s.cloud.Configured() {
		text, err := s.cloud.ExtractText(ctx, request.File)
		if err == nil {
			return &domain.ExtractedText{
				Text:           text,
				Confidence:     fullConfidence,
				PagesProcessed: request.PageCount,
				Source:         domain.SourceCloud,
			}, nil
		}

		s.log.Warn().
			Err(err).
			Msg("cloud extraction failed, falling back to local recognition")
	}

	extracted, err := s.local.ExtractText(ctx, request.File)
	if err != nil {
		return nil, &ProcessingError{
			Op:  "extract_text",
			Err: err,
		}
	}

	return extracted, nil
}

// Shutdown implements the shutdown method from the StatementProcessor interface
func (s *ExtractionService) Shutdown() {
	// Clean up any resources if needed
	close(s.workerQueue)
}
