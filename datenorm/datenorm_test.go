package datenorm

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"case-analysis/apperrors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "iso passes through", input: "2024-03-29", want: "2024-03-29"},
		{name: "iso with surrounding space", input: " 2024-03-29 ", want: "2024-03-29"},
		{name: "japanese single digits", input: "2024年3月9日", want: "2024-03-09"},
		{name: "japanese two digits", input: "2024年12月29日", want: "2024-12-29"},
		{name: "japanese mixed", input: "2024年3月29日", want: "2024-03-29"},
		{name: "serial float", input: float64(45000), want: "2023-03-15"},
		{name: "serial int", input: 45000, want: "2023-03-15"},
		{name: "serial json number", input: json.Number("45000"), want: "2023-03-15"},
		{name: "serial with time of day", input: 45000.75, want: "2023-03-15"},
		{name: "serial one", input: 1, want: "1899-12-31"},
		{name: "serial sixty one", input: 61, want: "1900-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Failures(t *testing.T) {
	inputs := []any{
		"not a date",
		"",
		"   ",
		"2024/03/29",
		"45000",
		"24-3-29",
		"2024年3月",
		nil,
		true,
		math.NaN(),
		math.Inf(1),
		-1.0,
		0,
		float64(0),
		0.5,
		float64(MaxSerial + 1),
	}

	for _, in := range inputs {
		got, err := Normalize(in)
		require.Error(t, err, "input %v", in)
		assert.Empty(t, got)
		assert.True(t, apperrors.IsNormalization(err), "input %v: %v", in, err)
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	first, err := Normalize(45000)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Normalize(45000)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestFromSerial(t *testing.T) {
	assert.Equal(t, "1899-12-30", FromSerial(0))
	assert.Equal(t, "9999-12-31", FromSerial(MaxSerial))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("2024-03-29"))
	assert.False(t, Valid("2024-3-29"))
	assert.False(t, Valid("2024年3月29日"))
}
