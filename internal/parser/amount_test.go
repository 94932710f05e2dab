package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountToCents(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"1,000.00", 100000},
		{"99.00", 9900},
		{"0.01", 1},
		{"R 6,294.42", 629442},
		{"R350.00", 35000},
		{"1,234,567.89", 123456789},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := amountToCents(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAmountToCentsInvalid(t *testing.T) {
	for _, input := range []string{"", "abc", "12.34.56"} {
		_, err := amountToCents(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestBalanceToCents(t *testing.T) {
	got, err := balanceToCents("6,294.42", "Cr")
	require.NoError(t, err)
	assert.Equal(t, int64(629442), got)

	got, err = balanceToCents("100.00", "Dr")
	require.NoError(t, err)
	assert.Equal(t, int64(-10000), got)

	got, err = balanceToCents("100.00", "")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), got)
}
