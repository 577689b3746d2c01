package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	tests := []struct {
		in   string
		want Month
	}{
		{"March", March},
		{"march", March},
		{" MAR ", March},
		{"sep", September},
		{"December", December},
	}
	for _, tt := range tests {
		got, err := ParseMonth(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "Marc", "Smarch", "13"} {
		_, err := ParseMonth(bad)
		assert.Error(t, err, bad)
	}
}

func TestMonthNumber(t *testing.T) {
	assert.Equal(t, 1, January.Number())
	assert.Equal(t, 12, December.Number())
	assert.Equal(t, 0, Month("Smarch").Number())

	m, err := MonthFromNumber(4)
	require.NoError(t, err)
	assert.Equal(t, April, m)

	_, err = MonthFromNumber(0)
	assert.Error(t, err)
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "March 2026", PeriodLabel(March, 2026))

	m, y, err := ParsePeriodLabel("March 2026")
	require.NoError(t, err)
	assert.Equal(t, March, m)
	assert.Equal(t, 2026, y)

	m, y, err = ParsePeriodLabel("april")
	require.NoError(t, err)
	assert.Equal(t, April, m)
	assert.Zero(t, y)

	_, _, err = ParsePeriodLabel("March twenty")
	assert.Error(t, err)
	_, _, err = ParsePeriodLabel("")
	assert.Error(t, err)
}
