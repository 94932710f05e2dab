package ocr

import (
	"fmt"

	"github.com/gen2brain/go-fitz"

	"github.com/sibusisodev/statement-processor-service/internal/imageutil"
)

// baseRenderDPI is the unscaled viewport resolution; pages are upscaled by
// the fixed factor after rendering
const baseRenderDPI = 72

// PageImage is one rendered PDF page, ordered by page index
type PageImage struct {
	Index int
	PNG   []byte
}

// Rasterizer renders a PDF byte buffer into per-page images
type Rasterizer interface {
	RenderPages(pdf []byte) ([]PageImage, error)
}

// FitzRasterizer renders PDF pages with MuPDF, upscaling each page 2x to
// improve recognition accuracy on small print
type FitzRasterizer struct {
	scaleFactor int
}

// NewFitzRasterizer creates a rasterizer with the default upscaling factor
func NewFitzRasterizer() *FitzRasterizer {
	return &FitzRasterizer{
		scaleFactor: imageutil.DefaultScaleFactor,
	}
}

// RenderPages renders every page of the PDF to an upscaled PNG
func (r *FitzRasterizer) RenderPages(pdf []byte) ([]PageImage, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pages := make([]PageImage, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.ImageDPI(n, baseRenderDPI)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", n+1, err)
		}

		upscaled := imageutil.Upscale(img, r.scaleFactor)
		encoded, err := imageutil.EncodePNG(upscaled)
		if err != nil {
			return nil, fmt.Errorf("failed to encode page %d: %w", n+1, err)
		}

		pages = append(pages, PageImage{Index: n, PNG: encoded})
	}

	return pages, nil
}
