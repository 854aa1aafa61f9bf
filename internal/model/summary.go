package model

import "time"

// ProviderSummary holds the running statistics for one provider. Created on
// first encounter of the NPI, mutated only during the streaming pass, and
// read-only during detection. Money is int64 cents throughout.
type ProviderSummary struct {
	NPI  string
	Peer PeerKey // fixed at first observation

	TotalCents int64
	ClaimCount int64

	// YearCents buckets billed cents by UTC calendar year of service.
	YearCents map[int]int64

	FirstService time.Time
	LastService  time.Time

	// Home-health counters for the geographic detector.
	HomeHealthClaims int64
	HHBeneficiaries  map[string]struct{}

	// Cents billed on dates falling inside an exclusion window.
	PostExclusionCents int64
}

// NewProviderSummary initializes a summary for a provider's first claim.
func NewProviderSummary(npi string, peer PeerKey) *ProviderSummary {
	return &ProviderSummary{
		NPI:             npi,
		Peer:            peer,
		YearCents:       make(map[int]int64),
		HHBeneficiaries: make(map[string]struct{}),
	}
}

// Merge folds other into s. Summing is commutative and associative, so
// partial accumulators from parallel workers can be merged in any order.
func (s *ProviderSummary) Merge(other *ProviderSummary) {
	s.TotalCents += other.TotalCents
	s.ClaimCount += other.ClaimCount
	s.PostExclusionCents += other.PostExclusionCents
	s.HomeHealthClaims += other.HomeHealthClaims

	for year, cents := range other.YearCents {
		s.YearCents[year] += cents
	}
	for id := range other.HHBeneficiaries {
		s.HHBeneficiaries[id] = struct{}{}
	}

	if s.FirstService.IsZero() || (!other.FirstService.IsZero() && other.FirstService.Before(s.FirstService)) {
		s.FirstService = other.FirstService
	}
	if other.LastService.After(s.LastService) {
		s.LastService = other.LastService
	}
}

// DistinctHHBeneficiaries returns the distinct beneficiary count across
// home-health claims.
func (s *ProviderSummary) DistinctHHBeneficiaries() int64 {
	return int64(len(s.HHBeneficiaries))
}
