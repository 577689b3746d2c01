// Package session keeps the user's draft between runs and chat commands.
package session

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"StockForecast/internal/model"
)

// Store holds the draft form state with concurrency safety. Every change is
// written through to disk.
type Store struct {
	mu       sync.Mutex
	settings *Settings
	filePath string
}

// NewStore creates a Store, loading or initializing settings from disk.
// An empty filePath keeps settings in memory only.
func NewStore(filePath string) (*Store, error) {
	s := &Settings{}
	if filePath != "" {
		var err error
		s, err = LoadSettings(filePath)
		if err != nil {
			return nil, fmt.Errorf("load session: %w", err)
		}
	}
	if s.Scope == "" {
		s.Scope = model.ScopeAll
	}
	return &Store{settings: s, filePath: filePath}, nil
}

// Settings returns a copy of the current settings.
func (st *Store) Settings() Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	return *st.settings
}

// SetFile records the path of the sales report to upload.
func (st *Store) SetFile(path string) {
	st.update(func(s *Settings) { s.SalesFile = strings.TrimSpace(path) })
}

// SetScope switches between all products and a specific product. Leaving
// the specific scope clears the product id.
func (st *Store) SetScope(scope model.Scope, productID string) {
	st.update(func(s *Settings) {
		s.Scope = scope
		s.ProductID = ""
		if scope == model.ScopeSpecific {
			s.ProductID = strings.TrimSpace(productID)
		}
	})
}

// SetPeriod sets the target month and year.
func (st *Store) SetPeriod(m model.Month, year int) {
	st.update(func(s *Settings) {
		s.Month = m
		s.Year = year
	})
}

// AdvanceToNextMonth targets the calendar month after now.
func (st *Store) AdvanceToNextMonth(now time.Time) (model.Month, int) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
	m, _ := model.MonthFromNumber(int(first.Month()))
	st.SetPeriod(m, first.Year())
	return m, first.Year()
}

// Draft builds the workflow draft from the current settings.
func (st *Store) Draft() model.Draft {
	st.mu.Lock()
	defer st.mu.Unlock()

	d := model.Draft{
		Scope:     st.settings.Scope,
		ProductID: st.settings.ProductID,
		Month:     st.settings.Month,
		Year:      st.settings.Year,
	}
	if st.settings.SalesFile != "" {
		d.File = model.LocalFile{Path: st.settings.SalesFile}
	}
	return d
}

func (st *Store) update(fn func(*Settings)) {
	st.mu.Lock()
	defer st.mu.Unlock()

	fn(st.settings)
	if err := st.save(); err != nil {
		log.Printf("[ERROR] failed to save session: %v", err)
	}
}

func (st *Store) save() error {
	if st.filePath == "" {
		return nil
	}
	return SaveSettings(st.filePath, st.settings)
}
