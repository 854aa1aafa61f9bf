package model

import "time"

// Diagnostics surfaces the non-fatal conditions encountered during a run.
// Nothing here aborts a scan; everything degrades to a counter.
type Diagnostics struct {
	RowsScanned           int64            `json:"rows_scanned"`
	MalformedClaims       int64            `json:"malformed_claims"`
	MalformedRegistryRows int64            `json:"malformed_registry_rows"`
	SkippedByDetector     map[string]int64 `json:"skipped_by_detector"`
}

// Report is the structured output of a scan run. Field names and the six
// signal keys are part of the external contract.
type Report struct {
	GeneratedAt           time.Time            `json:"generated_at"`
	ToolVersion           string               `json:"tool_version"`
	RunID                 string               `json:"run_id"`
	TotalProvidersScanned int                  `json:"total_providers_scanned"`
	TotalProvidersFlagged int                  `json:"total_providers_flagged"`
	SignalCounts          map[string]int       `json:"signal_counts"`
	Signals               map[string][]Finding `json:"signals"`
	Diagnostics           Diagnostics          `json:"diagnostics"`
}
