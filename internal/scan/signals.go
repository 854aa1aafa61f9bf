package scan

import (
	"sort"

	"github.com/gyeh/claimscan/internal/config"
	"github.com/gyeh/claimscan/internal/model"
	"github.com/gyeh/claimscan/internal/normalize"
	"github.com/gyeh/claimscan/internal/registry"
)

// The detectors are pure functions over the finalized summary map. Each is
// independent of the others and never mutates a ProviderSummary. A provider
// missing the fields a detector needs is skipped for that detector only and
// counted in the returned skip counter.

// DetectExcludedProviders flags every provider that accumulated billing on
// dates inside an exclusion window. Amounts billed after reinstatement were
// never added to PostExclusionCents, so they cannot trigger a finding.
func DetectExcludedProviders(summaries map[string]*model.ProviderSummary, reg *registry.Registry) []model.Finding {
	var findings []model.Finding
	for npi, s := range summaries {
		if s.PostExclusionCents <= 0 {
			continue
		}
		w, ok := reg.Window(npi)
		if !ok {
			continue
		}
		findings = append(findings, model.Finding{
			Signal:   model.SignalExcludedProvider,
			NPI:      npi,
			Severity: model.SeverityCritical,
			Evidence: model.Evidence{
				ExclusionDate:      w.Start.Format("2006-01-02"),
				ExclusionType:      w.Type,
				PaidAfterExclusion: normalize.CentsToDollars(s.PostExclusionCents),
			},
		})
	}
	sortByNPI(findings)
	return findings
}

// DetectBillingOutliers flags providers whose total exceeds their peer
// group's percentile threshold. Providers without a complete peer key are
// skipped; peer groups below the minimum size have no threshold and never
// produce findings.
func DetectBillingOutliers(summaries map[string]*model.ProviderSummary, thresholds map[model.PeerKey]PeerGroupStats, policy config.Policy) ([]model.Finding, int64) {
	var findings []model.Finding
	var skipped int64

	for npi, s := range summaries {
		if s.Peer.Taxonomy == "" || s.Peer.State == "" {
			skipped++
			continue
		}
		stats, ok := thresholds[s.Peer]
		if !ok {
			continue
		}
		if float64(s.TotalCents) <= stats.P99Cents {
			continue
		}

		var ratio float64
		if stats.MedianCents > 0 {
			ratio = float64(s.TotalCents) / stats.MedianCents
		}
		severity := model.SeverityHigh
		if ratio <= policy.HighSeverityRatio {
			severity = model.SeverityMedium
		}
		findings = append(findings, model.Finding{
			Signal:   model.SignalBillingOutlier,
			NPI:      npi,
			Severity: severity,
			Evidence: model.Evidence{
				PeerMedian:       stats.MedianCents / 100,
				Peer99Percentile: stats.P99Cents / 100,
				RatioToMedian:    ratio,
			},
		})
	}
	sortByNPI(findings)
	return findings, skipped
}

// DetectRapidEscalation compares each provider's first observed calendar
// year against its second. Growth strictly above the threshold flags the
// provider. Single-year providers are not evaluated; providers whose first
// year billed zero have no computable growth and are skipped.
func DetectRapidEscalation(summaries map[string]*model.ProviderSummary, policy config.Policy) ([]model.Finding, int64) {
	var findings []model.Finding
	var skipped int64

	for npi, s := range summaries {
		if len(s.YearCents) < 2 {
			continue
		}
		years := make([]int, 0, len(s.YearCents))
		for y := range s.YearCents {
			years = append(years, y)
		}
		sort.Ints(years)

		first, second := s.YearCents[years[0]], s.YearCents[years[1]]
		if first <= 0 {
			skipped++
			continue
		}
		if second <= 0 {
			continue
		}

		growth := float64(second-first) / float64(first)
		if growth <= policy.GrowthThreshold {
			continue
		}

		severity := model.SeverityMedium
		if growth > policy.HighSeverityRatio {
			severity = model.SeverityHigh
		}
		findings = append(findings, model.Finding{
			Signal:   model.SignalRapidEscalation,
			NPI:      npi,
			Severity: severity,
			Evidence: model.Evidence{
				FirstYear:      years[0],
				SecondYear:     years[1],
				FirstYearPaid:  normalize.CentsToDollars(first),
				SecondYearPaid: normalize.CentsToDollars(second),
				GrowthRatio:    growth,
			},
		})
	}
	sortByNPI(findings)
	return findings, skipped
}

// DetectGeographicImplausibility flags home-health providers whose distinct
// beneficiary count is implausibly low for their claim volume. Providers
// with no home-health claims are never evaluated; home-health providers
// whose claims carried no beneficiary identifiers are skipped.
func DetectGeographicImplausibility(summaries map[string]*model.ProviderSummary, policy config.Policy) ([]model.Finding, int64) {
	var findings []model.Finding
	var skipped int64

	for npi, s := range summaries {
		if s.HomeHealthClaims == 0 {
			continue
		}
		if s.HomeHealthClaims <= policy.MinHomeHealthClaims {
			continue
		}
		benes := s.DistinctHHBeneficiaries()
		if benes == 0 {
			skipped++
			continue
		}

		ratio := float64(benes) / float64(s.HomeHealthClaims)
		if ratio >= policy.BeneficiaryRatio {
			continue
		}
		findings = append(findings, model.Finding{
			Signal:   model.SignalGeographicImplausibility,
			NPI:      npi,
			Severity: model.SeverityMedium,
			Evidence: model.Evidence{
				HomeHealthClaims:    s.HomeHealthClaims,
				UniqueBeneficiaries: benes,
				BeneficiaryRatio:    ratio,
			},
		})
	}
	sortByNPI(findings)
	return findings, skipped
}

// sortByNPI orders findings deterministically; map iteration order must not
// leak into the report.
func sortByNPI(findings []model.Finding) {
	sort.Slice(findings, func(i, j int) bool { return findings[i].NPI < findings[j].NPI })
}
