package model

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Scope selects whether a forecast covers all products or a single one.
type Scope string

const (
	ScopeAll      Scope = "all"
	ScopeSpecific Scope = "specific"
)

// ParseScope maps a user-supplied tag to a Scope. "single" is kept as an
// alias for older dashboards.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return ScopeAll, nil
	case "specific", "single":
		return ScopeSpecific, nil
	default:
		return "", fmt.Errorf("unknown prediction scope %q", s)
	}
}

// SalesFile is an opaque handle to the uploaded sales file.
type SalesFile interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// LocalFile is a SalesFile backed by a path on disk.
type LocalFile struct {
	Path string
}

func (f LocalFile) Name() string { return filepath.Base(f.Path) }

func (f LocalFile) Open() (io.ReadCloser, error) { return os.Open(f.Path) }

// MemoryFile is a SalesFile held in memory.
type MemoryFile struct {
	Filename string
	Data     []byte
}

func (f MemoryFile) Name() string { return f.Filename }

func (f MemoryFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.Data)), nil
}

// Draft is the request in progress: whatever the user has entered so far.
type Draft struct {
	File      SalesFile
	Scope     Scope
	ProductID string
	Month     Month
	Year      int
}

// ForecastRequest is built once per submission and discarded afterwards.
type ForecastRequest struct {
	File      SalesFile
	Scope     Scope
	ProductID string
	Month     Month
	Year      int
}

// PeriodLabel is the wire-level period field, e.g. "March 2026".
func (r ForecastRequest) PeriodLabel() string {
	return PeriodLabel(r.Month, r.Year)
}

// WellFormed reports whether the request satisfies the submission invariant.
func (r ForecastRequest) WellFormed() bool {
	if r.File == nil || !r.Month.Valid() || r.Year <= 0 {
		return false
	}
	return r.Scope == ScopeAll || (r.Scope == ScopeSpecific && strings.TrimSpace(r.ProductID) != "")
}
