package scan

import (
	"time"

	"github.com/google/uuid"

	"github.com/gyeh/claimscan/internal/model"
)

// ToolVersion is stamped into every report.
const ToolVersion = "1.0.0"

// RunMetadata carries the per-run context attached to the report.
type RunMetadata struct {
	RunID            uuid.UUID
	GeneratedAt      time.Time
	ProvidersScanned int
	Diagnostics      model.Diagnostics
}

// AssembleReport merges the per-signal finding sets into the final report.
// Nothing is deduplicated: a provider may legitimately appear under several
// signals, and the flagged total is the sum across signals. All six
// canonical signal keys are always present so the contract round-trips.
func AssembleReport(findingSets map[string][]model.Finding, meta RunMetadata) *model.Report {
	counts := make(map[string]int, len(model.AllSignals))
	signals := make(map[string][]model.Finding, len(model.AllSignals))
	flagged := 0

	for _, name := range model.AllSignals {
		fs := findingSets[name]
		if fs == nil {
			fs = []model.Finding{}
		}
		counts[name] = len(fs)
		signals[name] = fs
		flagged += len(fs)
	}

	return &model.Report{
		GeneratedAt:           meta.GeneratedAt.UTC(),
		ToolVersion:           ToolVersion,
		RunID:                 meta.RunID.String(),
		TotalProvidersScanned: meta.ProvidersScanned,
		TotalProvidersFlagged: flagged,
		SignalCounts:          counts,
		Signals:               signals,
		Diagnostics:           meta.Diagnostics,
	}
}
