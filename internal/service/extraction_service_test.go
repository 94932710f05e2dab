package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sibusisodev/statement-processor-service/internal/domain"
	"github.com/sibusisodev/statement-processor-service/internal/model"
)

type fakeCloud struct {
	configured bool
	text       string
	err        error
	calls      int
}

func (f *fakeCloud) ExtractText(ctx context.Context, document []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

func (f *fakeCloud) Configured() bool {
	return f.configured
}

type fakeLocal struct {
	extracted *domain.ExtractedText
	err       error
	calls     int
}

func (f *fakeLocal) ExtractText(ctx context.Context, pdf []byte) (*domain.ExtractedText, error) {
	f.calls++
	return f.extracted, f.err
}

type fakeParser struct {
	lastText  string
	statement *domain.ParsedBankStatement
	err       error
}

func (f *fakeParser) Parse(text string) (*domain.ParsedBankStatement, error) {
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	return f.statement, nil
}

type fakeRepository struct {
	stored []*domain.ParsedBankStatement
	err    error
}

func (f *fakeRepository) StoreStatement(ctx context.Context, statement *domain.ParsedBankStatement) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, statement)
	return nil
}

func (f *fakeRepository) GetStatementByID(ctx context.Context, statementID string) (*domain.ParsedBankStatement, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRepository) ListStatements(ctx context.Context, offset, limit int) ([]*domain.ParsedBankStatement, error) {
	return nil, errors.New("not implemented")
}

type fakeArchiver struct {
	keys []string
	err  error
}

func (f *fakeArchiver) ArchivePDF(ctx context.Context, statementID string, pdf []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	key := "statements/" + statementID + ".pdf"
	f.keys = append(f.keys, key)
	return key, nil
}

func newTestService(cloud *fakeCloud, local *fakeLocal, p *fakeParser) *ExtractionService {
	return NewExtractionService(cloud, local, p, 2, zerolog.Nop())
}

func emptyStatement() *domain.ParsedBankStatement {
	return domain.NewParsedBankStatement()
}

func TestProcessStatementDigitalPath(t *testing.T) {
	cloud := &fakeCloud{configured: true, text: "cloud text"}
	local := &fakeLocal{}
	p := &fakeParser{statement: emptyStatement()}
	svc := newTestService(cloud, local, p)

	digitalText := strings.Repeat("x", 500)
	statement, err := svc.ProcessStatement(context.Background(), &model.StatementProcessingRequest{
		File:        []byte("%PDF"),
		DigitalText: digitalText,
		PageCount:   1,
	})
	require.NoError(t, err)

	assert.Equal(t, digitalText, p.lastText)
	assert.Equal(t, domain.SourceDigital, statement.Source)
	assert.Equal(t, 100.0, statement.Confidence)
	assert.NotEmpty(t, statement.ID)
	assert.False(t, statement.CreatedAt.IsZero())
	assert.Zero(t, cloud.calls)
	assert.Zero(t, local.calls)
}

func TestProcessStatementScannedUsesCloud(t *testing.T) {
	cloud := &fakeCloud{configured: true, text: "cloud text"}
	local := &fakeLocal{}
	p := &fakeParser{statement: emptyStatement()}
	svc := newTestService(cloud, local, p)

	// 50 chars over 1 page is below the scanned threshold
	statement, err := svc.ProcessStatement(context.Background(), &model.StatementProcessingRequest{
		File:        []byte("%PDF"),
		DigitalText: strings.Repeat("x", 50),
		PageCount:   1,
	})
	require.NoError(t, err)

	assert.Equal(t, "cloud text", p.lastText)
	assert.Equal(t, domain.SourceCloud, statement.Source)
	assert.Equal(t, 1, cloud.calls)
	assert.Zero(t, local.calls)
}

func TestProcessStatementCloudFailureFallsBackToLocal(t *testing.T) {
	cloud := &fakeCloud{configured: true, err: errors.New("remote outage")}
	local := &fakeLocal{extracted: &domain.ExtractedText{
		Text:           "local text",
		Confidence:     72,
		PagesProcessed: 2,
		Source:         domain.SourceLocalOCR,
	}}
	p := &fakeParser{statement: emptyStatement()}
	svc := newTestService(cloud, local, p)

	statement, err := svc.ProcessStatement(context.Background(), &model.StatementProcessingRequest{
		File: []byte("%PDF"),
	})
	require.NoError(t, err)

	assert.Equal(t, "local text", p.lastText)
	assert.Equal(t, domain.SourceLocalOCR, statement.Source)
	assert.Equal(t, 72.0, statement.Confidence)
	assert.Equal(t, 1, cloud.calls)
	assert.Equal(t, 1, local.calls)
}

func TestProcessStatementUnconfiguredCloudSkipsStraightToLocal(t *testing.T) {
	cloud := &fakeCloud{configured: false}
	local := &fakeLocal{extracted: &domain.ExtractedText{
		Text:   "local text",
		Source: domain.SourceLocalOCR,
	}}
	p := &fakeParser{statement: emptyStatement()}
	svc := newTestService(cloud, local, p)

	_, err := svc.ProcessStatement(context.Background(), &model.StatementProcessingRequest{
		File: []byte("%PDF"),
	})
	require.NoError(t, err)

	assert.Zero(t, cloud.calls)
	assert.Equal(t, 1, local.calls)
}

func TestProcessStatementAllPathsFail(t *testing.T) {
	cloud := &fakeCloud{configured: true, err: errors.New("remote outage")}
	local := &fakeLocal{err: errors.New("tesseract missing")}
	p := &fakeParser{statement: emptyStatement()}
	svc := newTestService(cloud, local, p)

	_, err := svc.ProcessStatement(context.Background(), &model.StatementProcessingRequest{
		File: []byte("%PDF"),
	})
	require.Error(t, err)

	var processingErr *ProcessingError
	require.ErrorAs(t, err, &processingErr)
	assert.Equal(t, "extract_text", processingErr.Op)
}

func TestProcessStatementParseFailure(t *testing.T) {
	cloud := &fakeCloud{configured: true, text: "garbled"}
	p := &fakeParser{err: errors.New("no period phrase found")}
	svc := newTestService(cloud, &fakeLocal{}, p)

	_, err := svc.ProcessStatement(context.Background(), &model.StatementProcessingRequest{
		File: []byte("%PDF"),
	})
	require.Error(t, err)

	var processingErr *ProcessingError
	require.ErrorAs(t, err, &processingErr)
	assert.Equal(t, "parse_statement", processingErr.Op)
}

func TestProcessStatementStoresAndArchives(t *testing.T) {
	cloud := &fakeCloud{configured: true, text: "cloud text"}
	p := &fakeParser{statement: emptyStatement()}
	svc := newTestService(cloud, &fakeLocal{}, p)

	repo := &fakeRepository{}
	archiver := &fakeArchiver{}
	svc.SetRepository(repo)
	svc.SetArchiver(archiver)

	statement, err := svc.ProcessStatement(context.Background(), &model.StatementProcessingRequest{
		File: []byte("%PDF"),
	})
	require.NoError(t, err)

	require.Len(t, repo.stored, 1)
	assert.Equal(t, statement.ID, repo.stored[0].ID)
	require.Len(t, archiver.keys, 1)
	assert.Contains(t, archiver.keys[0], statement.ID)
}

func TestProcessStatementStorageFailuresAreNotFatal(t *testing.T) {
	cloud := &fakeCloud{configured: true, text: "cloud text"}
	p := &fakeParser{statement: emptyStatement()}
	svc := newTestService(cloud, &fakeLocal{}, p)

	svc.SetRepository(&fakeRepository{err: errors.New("db down")})
	svc.SetArchiver(&fakeArchiver{err: errors.New("bucket missing")})

	statement, err := svc.ProcessStatement(context.Background(), &model.StatementProcessingRequest{
		File: []byte("%PDF"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, statement.ID)
}

func TestProcessStatementWorkerAcquisitionHonoursContext(t *testing.T) {
	cloud := &fakeCloud{configured: true, text: "cloud text"}
	p := &fakeParser{statement: emptyStatement()}
	svc := newTestService(cloud, &fakeLocal{}, p)

	// Fill the worker pool so acquisition must wait
	svc.workerQueue <- struct{}{}
	svc.workerQueue <- struct{}{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ProcessStatement(ctx, &model.StatementProcessingRequest{File: []byte("%PDF")})
	require.Error(t, err)

	var processingErr *ProcessingError
	require.ErrorAs(t, err, &processingErr)
	assert.Equal(t, "acquire_worker", processingErr.Op)
}
