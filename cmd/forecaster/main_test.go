package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockForecast/internal/model"
	"StockForecast/internal/session"
)

func TestApplyFlags(t *testing.T) {
	st, err := session.NewStore("")
	require.NoError(t, err)

	require.NoError(t, applyFlags(st, "data/default.csv", "", "", "P9", "March 2026", 0))
	s := st.Settings()
	assert.Equal(t, "data/default.csv", s.SalesFile)
	assert.Equal(t, model.ScopeSpecific, s.Scope)
	assert.Equal(t, "P9", s.ProductID)
	assert.Equal(t, model.March, s.Month)
	assert.Equal(t, 2026, s.Year)

	require.NoError(t, applyFlags(st, "data/default.csv", "data/q2.csv", "all", "", "jun", 2027))
	s = st.Settings()
	assert.Equal(t, "data/q2.csv", s.SalesFile)
	assert.Equal(t, model.ScopeAll, s.Scope)
	assert.Empty(t, s.ProductID)
	assert.Equal(t, model.June, s.Month)
	assert.Equal(t, 2027, s.Year)

	assert.Error(t, applyFlags(st, "", "", "weekly", "", "", 0))
	assert.Error(t, applyFlags(st, "", "", "", "", "Smarch", 0))
}
