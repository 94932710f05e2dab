package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthFromName(t *testing.T) {
	month, ok := monthFromName("Aug")
	assert.True(t, ok)
	assert.Equal(t, time.August, month)

	month, ok = monthFromName("FEBRUARY")
	assert.True(t, ok)
	assert.Equal(t, time.February, month)

	_, ok = monthFromName("Augu")
	assert.False(t, ok)

	_, ok = monthFromName("")
	assert.False(t, ok)
}

func TestInferStatementYear(t *testing.T) {
	now := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

	t.Run("period end year wins", func(t *testing.T) {
		text := "Statement Period : 1 August 2023 to 31 August 2023"
		assert.Equal(t, 2023, inferStatementYear(text, now))
	})

	t.Run("year near statement keyword", func(t *testing.T) {
		text := "Statement for the month ending 2022"
		assert.Equal(t, 2022, inferStatementYear(text, now))
	})

	t.Run("falls back to current year", func(t *testing.T) {
		text := "no year information here"
		assert.Equal(t, 2026, inferStatementYear(text, now))
	})
}
