package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockForecast/internal/model"
)

func TestNewStore_Defaults(t *testing.T) {
	st, err := NewStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	s := st.Settings()
	assert.Equal(t, model.ScopeAll, s.Scope)
	assert.Empty(t, s.SalesFile)

	d := st.Draft()
	assert.Nil(t, d.File)
	assert.Equal(t, model.ScopeAll, d.Scope)
}

func TestStore_PersistsAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")
	st, err := NewStore(path)
	require.NoError(t, err)

	st.SetFile(" data/sales.csv ")
	st.SetScope(model.ScopeSpecific, " P101 ")
	st.SetPeriod(model.March, 2026)

	reloaded, err := NewStore(path)
	require.NoError(t, err)
	s := reloaded.Settings()
	assert.Equal(t, "data/sales.csv", s.SalesFile)
	assert.Equal(t, model.ScopeSpecific, s.Scope)
	assert.Equal(t, "P101", s.ProductID)
	assert.Equal(t, model.March, s.Month)
	assert.Equal(t, 2026, s.Year)
	assert.False(t, s.UpdatedAt.IsZero())

	d := reloaded.Draft()
	require.NotNil(t, d.File)
	assert.Equal(t, "sales.csv", d.File.Name())
}

func TestSetScope_AllClearsProduct(t *testing.T) {
	st, err := NewStore("")
	require.NoError(t, err)

	st.SetScope(model.ScopeSpecific, "P7")
	st.SetScope(model.ScopeAll, "P7")
	assert.Empty(t, st.Settings().ProductID)
}

func TestAdvanceToNextMonth(t *testing.T) {
	st, err := NewStore("")
	require.NoError(t, err)

	m, y := st.AdvanceToNextMonth(time.Date(2025, time.December, 31, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, model.January, m)
	assert.Equal(t, 2026, y)

	m, y = st.AdvanceToNextMonth(time.Date(2026, time.January, 31, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, model.February, m)
	assert.Equal(t, 2026, y)
	assert.Equal(t, model.February, st.Draft().Month)
}

func TestLoadSettings_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewStore(path)
	assert.Error(t, err)
}
