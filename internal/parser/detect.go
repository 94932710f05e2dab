package parser

// scannedCharsPerPageThreshold is the tunable cutoff below which a document is
// assumed to be a scanned image rather than digitally generated text.
const scannedCharsPerPageThreshold = 100

// IsScannedDocument decides whether a document needs OCR, based on the text
// length and page count reported by an upstream first-pass digital extraction.
// A document averaging fewer than 100 characters per page is treated as
// scanned. A non-positive page count is treated as "not scanned" so empty
// documents never trigger the OCR path.
func IsScannedDocument(textLength, pageCount int) bool {
	if pageCount <= 0 {
		return false
	}
	charsPerPage := textLength / pageCount
	return charsPerPage < scannedCharsPerPageThreshold
}
