package model

// Signal names are part of the external report contract and must round-trip
// exactly. Two of the six (workforce_impossibility, shared_official) require
// datasets this engine does not consume; their keys are kept so downstream
// consumers see a stable contract, and their counts are always zero.
const (
	SignalExcludedProvider         = "excluded_provider"
	SignalBillingOutlier           = "billing_outlier"
	SignalRapidEscalation          = "rapid_escalation"
	SignalWorkforceImpossibility   = "workforce_impossibility"
	SignalSharedOfficial           = "shared_official"
	SignalGeographicImplausibility = "geographic_implausibility"
)

// AllSignals lists the signal keys in canonical report order.
var AllSignals = []string{
	SignalExcludedProvider,
	SignalBillingOutlier,
	SignalRapidEscalation,
	SignalWorkforceImpossibility,
	SignalSharedOfficial,
	SignalGeographicImplausibility,
}

// Severity tiers, lowest to highest.
const (
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Evidence carries the per-signal corroborating fields. Exactly the fields
// relevant to the finding's signal are populated; the rest stay omitted.
type Evidence struct {
	// excluded_provider
	ExclusionDate      string  `json:"exclusion_date,omitempty"`
	ExclusionType      string  `json:"exclusion_type,omitempty"`
	PaidAfterExclusion float64 `json:"total_paid_after_exclusion,omitempty"`

	// billing_outlier
	PeerMedian       float64 `json:"peer_median,omitempty"`
	Peer99Percentile float64 `json:"peer_99th_percentile,omitempty"`
	RatioToMedian    float64 `json:"ratio_to_median,omitempty"`

	// rapid_escalation
	FirstYear      int     `json:"first_year,omitempty"`
	SecondYear     int     `json:"second_year,omitempty"`
	FirstYearPaid  float64 `json:"first_year_paid,omitempty"`
	SecondYearPaid float64 `json:"second_year_paid,omitempty"`
	GrowthRatio    float64 `json:"growth_ratio,omitempty"`

	// geographic_implausibility
	HomeHealthClaims    int64   `json:"home_health_claims,omitempty"`
	UniqueBeneficiaries int64   `json:"unique_beneficiaries,omitempty"`
	BeneficiaryRatio    float64 `json:"beneficiary_ratio,omitempty"`
}

// Finding is one flagged (provider, signal) pair. Immutable once produced.
type Finding struct {
	Signal   string   `json:"signal_type"`
	NPI      string   `json:"npi"`
	Severity string   `json:"severity"`
	Evidence Evidence `json:"evidence"`
}
