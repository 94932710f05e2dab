package ocr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sibusisodev/statement-processor-service/internal/domain"
)

type fakeRasterizer struct {
	pages []PageImage
	err   error
}

func (f *fakeRasterizer) RenderPages(pdf []byte) ([]PageImage, error) {
	return f.pages, f.err
}

type fakePage struct {
	text       string
	confidence float64
	err        error
}

type fakeRecognizer struct {
	pages   map[string]fakePage
	calls   int
	closed  bool
	initErr error
}

func (f *fakeRecognizer) Recognize(png []byte) (string, float64, error) {
	f.calls++
	page, ok := f.pages[string(png)]
	if !ok {
		return "", 0, fmt.Errorf("unexpected page %q", png)
	}
	return page.text, page.confidence, page.err
}

func (f *fakeRecognizer) Close() error {
	f.closed = true
	return nil
}

func newTestEngine(rasterizer Rasterizer, recognizer *fakeRecognizer) *Engine {
	return NewEngine(rasterizer, func() (Recognizer, error) {
		if recognizer.initErr != nil {
			return nil, recognizer.initErr
		}
		return recognizer, nil
	}, zerolog.Nop())
}

func pages(keys ...string) []PageImage {
	result := make([]PageImage, len(keys))
	for i, key := range keys {
		result[i] = PageImage{Index: i, PNG: []byte(key)}
	}
	return result
}

func TestEngineExtractText(t *testing.T) {
	rasterizer := &fakeRasterizer{pages: pages("p1", "p2")}
	recognizer := &fakeRecognizer{pages: map[string]fakePage{
		"p1": {text: "first page", confidence: 90},
		"p2": {text: "second page", confidence: 70},
	}}
	engine := newTestEngine(rasterizer, recognizer)

	extracted, err := engine.ExtractText(context.Background(), []byte("%PDF"))
	require.NoError(t, err)

	assert.Equal(t, "first page\n\nsecond page", extracted.Text)
	assert.InDelta(t, 80.0, extracted.Confidence, 0.001)
	assert.Equal(t, 2, extracted.PagesProcessed)
	assert.Equal(t, domain.SourceLocalOCR, extracted.Source)
}

func TestEngineSkipsFailedAndEmptyPages(t *testing.T) {
	rasterizer := &fakeRasterizer{pages: pages("p1", "p2", "p3")}
	recognizer := &fakeRecognizer{pages: map[string]fakePage{
		"p1": {text: "usable text", confidence: 85},
		"p2": {err: errors.New("recognition blew up")},
		"p3": {text: "   "},
	}}
	engine := newTestEngine(rasterizer, recognizer)

	extracted, err := engine.ExtractText(context.Background(), []byte("%PDF"))
	require.NoError(t, err)

	assert.Equal(t, "usable text", extracted.Text)
	assert.InDelta(t, 85.0, extracted.Confidence, 0.001)
	assert.Equal(t, 3, extracted.PagesProcessed)
}

func TestEngineZeroConfidencePagesExcludedFromMean(t *testing.T) {
	rasterizer := &fakeRasterizer{pages: pages("p1", "p2")}
	recognizer := &fakeRecognizer{pages: map[string]fakePage{
		"p1": {text: "text without word boxes", confidence: 0},
		"p2": {text: "confident text", confidence: 64},
	}}
	engine := newTestEngine(rasterizer, recognizer)

	extracted, err := engine.ExtractText(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.InDelta(t, 64.0, extracted.Confidence, 0.001)
}

func TestEngineNoPages(t *testing.T) {
	engine := newTestEngine(&fakeRasterizer{}, &fakeRecognizer{})

	_, err := engine.ExtractText(context.Background(), []byte("%PDF"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoPages)
}

func TestEngineNoUsableText(t *testing.T) {
	rasterizer := &fakeRasterizer{pages: pages("p1")}
	recognizer := &fakeRecognizer{pages: map[string]fakePage{
		"p1": {text: ""},
	}}
	engine := newTestEngine(rasterizer, recognizer)

	_, err := engine.ExtractText(context.Background(), []byte("%PDF"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoText)
}

func TestEngineRasterizeFailure(t *testing.T) {
	rasterizer := &fakeRasterizer{err: errors.New("corrupt PDF")}
	engine := newTestEngine(rasterizer, &fakeRecognizer{})

	_, err := engine.ExtractText(context.Background(), []byte("not a pdf"))
	require.Error(t, err)

	var engineErr *EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, "rasterize_pages", engineErr.Op)
}

func TestEngineWorkerIsReused(t *testing.T) {
	rasterizer := &fakeRasterizer{pages: pages("p1")}
	recognizer := &fakeRecognizer{pages: map[string]fakePage{
		"p1": {text: "text", confidence: 90},
	}}

	var factoryCalls int
	engine := NewEngine(rasterizer, func() (Recognizer, error) {
		factoryCalls++
		return recognizer, nil
	}, zerolog.Nop())

	for i := 0; i < 3; i++ {
		_, err := engine.ExtractText(context.Background(), []byte("%PDF"))
		require.NoError(t, err)
	}

	assert.Equal(t, 1, factoryCalls)
	assert.Equal(t, 3, recognizer.calls)
}

func TestEngineTerminate(t *testing.T) {
	rasterizer := &fakeRasterizer{pages: pages("p1")}
	recognizer := &fakeRecognizer{pages: map[string]fakePage{
		"p1": {text: "text", confidence: 90},
	}}
	engine := newTestEngine(rasterizer, recognizer)

	_, err := engine.ExtractText(context.Background(), []byte("%PDF"))
	require.NoError(t, err)

	require.NoError(t, engine.Terminate())
	assert.True(t, recognizer.closed)

	_, err = engine.ExtractText(context.Background(), []byte("%PDF"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTerminated)
}

func TestEngineTerminateWithoutWorker(t *testing.T) {
	engine := newTestEngine(&fakeRasterizer{}, &fakeRecognizer{})
	assert.NoError(t, engine.Terminate())
}

func TestEngineContextCancelled(t *testing.T) {
	rasterizer := &fakeRasterizer{pages: pages("p1")}
	recognizer := &fakeRecognizer{pages: map[string]fakePage{
		"p1": {text: "text", confidence: 90},
	}}
	engine := newTestEngine(rasterizer, recognizer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.ExtractText(ctx, []byte("%PDF"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
