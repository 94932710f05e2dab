package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsScannedDocument(t *testing.T) {
	tests := []struct {
		name       string
		textLength int
		pageCount  int
		want       bool
	}{
		{name: "sparse text is scanned", textLength: 50, pageCount: 1, want: true},
		{name: "dense text is digital", textLength: 150, pageCount: 1, want: false},
		{name: "exactly at threshold is digital", textLength: 100, pageCount: 1, want: false},
		{name: "just below threshold is scanned", textLength: 99, pageCount: 1, want: true},
		{name: "average across pages", textLength: 250, pageCount: 3, want: true},
		{name: "zero pages is never scanned", textLength: 0, pageCount: 0, want: false},
		{name: "negative pages is never scanned", textLength: 5000, pageCount: -1, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsScannedDocument(tt.textLength, tt.pageCount))
		})
	}
}
