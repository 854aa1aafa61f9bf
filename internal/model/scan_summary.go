package model

import "time"

// ScanSummary captures metrics from a single scan run.
type ScanSummary struct {
	FilePath         string
	RunID            string
	RowsRead         int64
	RowsMalformed    int64
	BatchesRead      int64
	ProvidersScanned int
	ProvidersFlagged int
	DurationStream   time.Duration
	DurationDetect   time.Duration
	DurationTotal    time.Duration
}
