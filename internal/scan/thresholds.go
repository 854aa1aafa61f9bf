package scan

import (
	"sort"

	"github.com/gyeh/claimscan/internal/config"
	"github.com/gyeh/claimscan/internal/model"
)

// PeerGroupStats holds the distribution cutoffs for one (taxonomy, state)
// peer group. Values are in cents, as float64 because percentiles
// interpolate between order statistics.
type PeerGroupStats struct {
	P99Cents    float64
	MedianCents float64
	Members     int
}

// BuildThresholds groups provider totals by peer key and computes the
// configured percentile and the median for each group meeting the minimum
// size. Groups below the minimum, and providers with an incomplete peer
// key, produce no entry: outlier evaluation needs a baseline population.
func BuildThresholds(summaries map[string]*model.ProviderSummary, policy config.Policy) map[model.PeerKey]PeerGroupStats {
	groups := make(map[model.PeerKey][]int64)
	for _, s := range summaries {
		if s.Peer.Taxonomy == "" || s.Peer.State == "" {
			continue
		}
		groups[s.Peer] = append(groups[s.Peer], s.TotalCents)
	}

	stats := make(map[model.PeerKey]PeerGroupStats, len(groups))
	for key, totals := range groups {
		if len(totals) < policy.MinPeerGroupSize {
			continue
		}
		sort.Slice(totals, func(i, j int) bool { return totals[i] < totals[j] })
		stats[key] = PeerGroupStats{
			P99Cents:    percentile(totals, policy.PercentileRank),
			MedianCents: percentile(totals, 0.5),
			Members:     len(totals),
		}
	}
	return stats
}

// percentile computes the rank-th percentile of sorted values using linear
// interpolation between order statistics: rank*(n-1) positions into the
// sorted sequence, interpolating between the floor and ceiling indices.
func percentile(sorted []int64, rank float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return float64(sorted[0])
	}
	pos := rank * float64(n-1)
	lo := int(pos)
	hi := lo + 1
	if hi >= n {
		return float64(sorted[n-1])
	}
	frac := pos - float64(lo)
	return float64(sorted[lo]) + frac*float64(sorted[hi]-sorted[lo])
}
