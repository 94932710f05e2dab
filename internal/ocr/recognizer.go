package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Recognizer converts one page image into text plus a 0-100 confidence score.
// Implementations are not safe for concurrent use; the engine serializes
// access.
type Recognizer interface {
	Recognize(png []byte) (text string, confidence float64, err error)
	Close() error
}

// TesseractRecognizer wraps a Tesseract client configured for single-block
// text segmentation with a Latin-script language model. The underlying
// client holds native memory and must be released via Close.
type TesseractRecognizer struct {
	client *gosseract.Client
}

// NewTesseractRecognizer creates a recognition worker for the given language
// model (e.g. "eng")
func NewTesseractRecognizer(language string) (*TesseractRecognizer, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set recognition language %q: %w", language, err)
	}

	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	return &TesseractRecognizer{client: client}, nil
}

// Recognize runs recognition on a single page image. Confidence is the mean
// word confidence for the page; a page with no recognized words reports 0.
func (r *TesseractRecognizer) Recognize(png []byte) (string, float64, error) {
	if err := r.client.SetImageFromBytes(png); err != nil {
		return "", 0, fmt.Errorf("failed to load page image: %w", err)
	}

	text, err := r.client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("recognition failed: %w", err)
	}

	boxes, err := r.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		// Text without word boxes still counts; the page just contributes no
		// confidence sample
		return text, 0, nil
	}

	var total float64
	for _, box := range boxes {
		total += box.Confidence
	}

	return text, total / float64(len(boxes)), nil
}

// Close releases the native recognition client
func (r *TesseractRecognizer) Close() error {
	return r.client.Close()
}
