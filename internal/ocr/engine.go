package ocr

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sibusisodev/statement-processor-service/internal/domain"
)

// lowConfidenceThreshold is the mean page confidence below which the result
// is flagged as unreliable
const lowConfidenceThreshold = 60.0

// Engine runs local text recognition over a rasterized PDF. It owns a single
// recognition worker that is created lazily on first use and reused across
// documents; the worker holds native memory, so Terminate must be called
// before process exit. Recognition is serialized because the worker is not
// safe for concurrent use.
type Engine struct {
	mu            sync.Mutex
	rasterizer    Rasterizer
	newRecognizer func() (Recognizer, error)
	worker        Recognizer
	terminated    bool
	log           zerolog.Logger
}

// NewEngine creates a recognition engine. The recognizer factory is invoked
// at most once, on the first extraction.
func NewEngine(rasterizer Rasterizer, newRecognizer func() (Recognizer, error), log zerolog.Logger) *Engine {
	return &Engine{
		rasterizer:    rasterizer,
		newRecognizer: newRecognizer,
		log:           log,
	}
}

// ExtractText rasterizes the PDF and recognizes every page in order, joining
// page texts with blank lines. Pages that render empty or fail recognition
// are skipped with a warning; the whole extraction fails only when no page
// yields text. The reported confidence is the mean over pages that produced a
// confidence sample.
func (e *Engine) ExtractText(ctx context.Context, pdf []byte) (*domain.ExtractedText, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.terminated {
		return nil, &EngineError{Op: "check_engine_state", Err: ErrTerminated}
	}

	pages, err := e.rasterizer.RenderPages(pdf)
	if err != nil {
		return nil, &EngineError{Op: "rasterize_pages", Err: err}
	}
	if len(pages) == 0 {
		return nil, &EngineError{Op: "rasterize_pages", Err: ErrNoPages}
	}

	worker, err := e.recognitionWorker()
	if err != nil {
		return nil, &EngineError{Op: "initialize_worker", Err: err}
	}

	fragments := make([]string, 0, len(pages))
	var confidenceTotal float64
	var confidenceSamples int

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, &EngineError{Op: "recognize_pages", Err: err}
		}

		if len(page.PNG) == 0 {
			e.log.Warn().
				Int("page", page.Index+1).
				Msg("page rendered empty, skipping")
			continue
		}

		text, confidence, err := worker.Recognize(page.PNG)
		if err != nil {
			// A single bad page should not sink the document
			e.log.Warn().
				Int("page", page.Index+1).
				Err(err).
				Msg("page recognition failed, skipping")
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			e.log.Warn().
				Int("page", page.Index+1).
				Msg("page recognized to empty text, skipping")
			continue
		}

		fragments = append(fragments, text)
		if confidence > 0 {
			confidenceTotal += confidence
			confidenceSamples++
		}
	}

	if len(fragments) == 0 {
		return nil, &EngineError{Op: "recognize_pages", Err: ErrNoText}
	}

	var confidence float64
	if confidenceSamples > 0 {
		confidence = confidenceTotal / float64(confidenceSamples)
	}

	if confidence > 0 && confidence < lowConfidenceThreshold {
		e.log.Warn().
			Float64("confidence", confidence).
			Float64("threshold", lowConfidenceThreshold).
			Msg("recognition confidence below reliability threshold")
	}

	e.log.Info().
		Int("pages", len(pages)).
		Int("pages_with_text", len(fragments)).
		Float64("confidence", confidence).
		Msg("local text extraction complete")

	return &domain.ExtractedText{
		Text:           strings.Join(fragments, "\n\n"),
		Confidence:     confidence,
		PagesProcessed: len(pages),
		Source:         domain.SourceLocalOCR,
	}, nil
}

// recognitionWorker returns the reusable worker, creating it on first use.
// Caller must hold the mutex.
func (e *Engine) recognitionWorker() (Recognizer, error) {
	if e.worker != nil {
		return e.worker, nil
	}

	worker, err := e.newRecognizer()
	if err != nil {
		return nil, err
	}

	e.worker = worker
	e.log.Debug().Msg("recognition worker initialized")
	return e.worker, nil
}

// Terminate releases the recognition worker's native resources. The engine
// rejects further extractions afterwards.
func (e *Engine) Terminate() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.terminated = true
	if e.worker == nil {
		return nil
	}

	err := e.worker.Close()
	e.worker = nil
	if err != nil {
		return &EngineError{Op: "terminate_worker", Err: err}
	}
	return nil
}
