// Package registry loads and indexes the provider exclusion list (LEIE
// format). The registry is built once, fits in memory, and is read-only
// afterwards, so it may be shared across concurrent readers without
// synchronization.
package registry

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/claimscan/internal/normalize"
)

// Window is one exclusion period. End == nil means the provider was never
// reinstated and the window is open-ended.
type Window struct {
	Start time.Time
	End   *time.Time
	Type  string
}

// Registry answers exclusion lookups by provider NPI. A provider may carry
// multiple historical windows, kept sorted by start date.
type Registry struct {
	windows   map[string][]Window
	rows      int64
	malformed int64
}

// Load reads a LEIE-style CSV from path and builds the registry.
//
// Expected columns (header names, any order): NPI, EXCLTYPE, EXCLDATE,
// REINDATE. Dates are compact YYYYMMDD. Rows with a missing NPI or an
// unparseable exclusion date are skipped and counted, never fatal.
func Load(path string, log zerolog.Logger) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open exclusion registry: %w", err)
	}
	defer f.Close()
	return Parse(f, log)
}

// Parse builds a registry from CSV content.
func Parse(r io.Reader, log zerolog.Logger) (*Registry, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read registry header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"NPI", "EXCLDATE"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("registry missing required column %s", required)
		}
	}

	reg := &Registry{windows: make(map[string][]Window)}
	lineNum := 1

	for {
		lineNum++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			reg.malformed++
			log.Warn().Err(err).Int("line", lineNum).Msg("registry row rejected")
			continue
		}
		reg.rows++

		npi := normalize.NormalizeNPI(field(row, col, "NPI"))
		if npi == "" {
			reg.malformed++
			continue
		}

		start := normalize.ParseExclusionDate(field(row, col, "EXCLDATE"))
		if start == nil {
			reg.malformed++
			log.Warn().Int("line", lineNum).Msg("registry row has unparseable exclusion date")
			continue
		}

		w := Window{Start: *start, Type: field(row, col, "EXCLTYPE")}
		if end := normalize.ParseExclusionDate(field(row, col, "REINDATE")); end != nil {
			if !end.After(*start) {
				reg.malformed++
				log.Warn().Int("line", lineNum).Msg("registry row reinstated before exclusion")
				continue
			}
			w.End = end
		}
		reg.windows[npi] = append(reg.windows[npi], w)
	}

	for npi := range reg.windows {
		ws := reg.windows[npi]
		sort.Slice(ws, func(i, j int) bool { return ws[i].Start.Before(ws[j].Start) })
	}

	log.Info().
		Int("providers", len(reg.windows)).
		Int64("rows", reg.rows).
		Int64("rows_malformed", reg.malformed).
		Msg("exclusion registry loaded")

	return reg, nil
}

func field(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// IsExcludedOn reports whether the provider was excluded on the given date:
// the date is not before some window's start, and that window's end is
// absent or strictly after the date. Unknown NPIs are never excluded.
func (r *Registry) IsExcludedOn(npi string, date time.Time) bool {
	for _, w := range r.windows[npi] {
		if date.Before(w.Start) {
			continue
		}
		if w.End == nil || w.End.After(date) {
			return true
		}
	}
	return false
}

// Window returns the provider's earliest exclusion window and ok=true, or
// ok=false for providers with no exclusion history.
func (r *Registry) Window(npi string) (Window, bool) {
	ws := r.windows[npi]
	if len(ws) == 0 {
		return Window{}, false
	}
	return ws[0], true
}

// Providers returns the number of distinct excluded providers.
func (r *Registry) Providers() int {
	return len(r.windows)
}

// MalformedRows returns the count of rows skipped during load.
func (r *Registry) MalformedRows() int64 {
	return r.malformed
}
