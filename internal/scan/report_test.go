package scan

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gyeh/claimscan/internal/model"
)

func TestAssembleReport_CountsAndKeys(t *testing.T) {
	sets := map[string][]model.Finding{
		model.SignalExcludedProvider: {
			{Signal: model.SignalExcludedProvider, NPI: "1000000001", Severity: model.SeverityCritical},
		},
		model.SignalBillingOutlier: {
			{Signal: model.SignalBillingOutlier, NPI: "1000000001", Severity: model.SeverityHigh},
			{Signal: model.SignalBillingOutlier, NPI: "1000000002", Severity: model.SeverityMedium},
		},
	}

	report := AssembleReport(sets, RunMetadata{
		RunID:            uuid.New(),
		GeneratedAt:      time.Now(),
		ProvidersScanned: 42,
		Diagnostics:      model.Diagnostics{RowsScanned: 100},
	})

	if report.TotalProvidersScanned != 42 {
		t.Errorf("TotalProvidersScanned = %d", report.TotalProvidersScanned)
	}
	// Sum across signals, not distinct providers: 1000000001 appears twice.
	if report.TotalProvidersFlagged != 3 {
		t.Errorf("TotalProvidersFlagged = %d, want 3", report.TotalProvidersFlagged)
	}

	for _, name := range model.AllSignals {
		if _, ok := report.SignalCounts[name]; !ok {
			t.Errorf("SignalCounts missing key %s", name)
		}
		if report.Signals[name] == nil {
			t.Errorf("Signals[%s] must be a non-nil list", name)
		}
	}
	if report.SignalCounts[model.SignalBillingOutlier] != 2 {
		t.Errorf("billing_outlier count = %d", report.SignalCounts[model.SignalBillingOutlier])
	}
	if report.SignalCounts[model.SignalWorkforceImpossibility] != 0 {
		t.Errorf("workforce_impossibility must stay 0")
	}
}

func TestReport_JSONContract(t *testing.T) {
	report := AssembleReport(map[string][]model.Finding{
		model.SignalExcludedProvider: {{
			Signal:   model.SignalExcludedProvider,
			NPI:      "1000000001",
			Severity: model.SeverityCritical,
			Evidence: model.Evidence{ExclusionDate: "2010-01-01", PaidAfterExclusion: 100},
		}},
	}, RunMetadata{RunID: uuid.New(), GeneratedAt: time.Now()})

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{
		"generated_at", "tool_version", "run_id",
		"total_providers_scanned", "total_providers_flagged",
		"signal_counts", "signals", "diagnostics",
	} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("report JSON missing field %q", key)
		}
	}

	counts, ok := decoded["signal_counts"].(map[string]any)
	if !ok {
		t.Fatal("signal_counts is not an object")
	}
	if len(counts) != len(model.AllSignals) {
		t.Errorf("signal_counts has %d keys, want %d", len(counts), len(model.AllSignals))
	}

	signals := decoded["signals"].(map[string]any)
	excl := signals["excluded_provider"].([]any)
	finding := excl[0].(map[string]any)
	for _, key := range []string{"signal_type", "npi", "severity", "evidence"} {
		if _, ok := finding[key]; !ok {
			t.Errorf("finding JSON missing field %q", key)
		}
	}
	evidence := finding["evidence"].(map[string]any)
	if evidence["total_paid_after_exclusion"] != 100.0 {
		t.Errorf("evidence total_paid_after_exclusion = %v", evidence["total_paid_after_exclusion"])
	}

	var roundTrip model.Report
	if err := json.Unmarshal(data, &roundTrip); err != nil {
		t.Fatalf("round-trip unmarshal: %v", err)
	}
	if roundTrip.Signals[model.SignalExcludedProvider][0].NPI != "1000000001" {
		t.Error("finding did not round-trip")
	}
}
