package scan

import (
	"fmt"

	"github.com/gyeh/claimscan/internal/model"
	"github.com/gyeh/claimscan/internal/registry"
)

// Accumulator maintains running per-provider statistics across the single
// streaming pass. It is bounded by distinct provider count, never by row
// count. An Accumulator is not safe for concurrent use; parallel workers
// each own a private Accumulator and merge afterwards.
type Accumulator struct {
	reg       *registry.Registry
	summaries map[string]*model.ProviderSummary

	rowsRead  int64
	malformed int64
	batches   int64

	finalized bool
}

// NewAccumulator creates an empty accumulator consulting reg for
// per-claim exclusion checks.
func NewAccumulator(reg *registry.Registry) *Accumulator {
	return &Accumulator{
		reg:       reg,
		summaries: make(map[string]*model.ProviderSummary),
	}
}

// Update folds one batch into the running state.
func (a *Accumulator) Update(batch *model.Batch) error {
	if a.finalized {
		return fmt.Errorf("accumulator already finalized")
	}
	a.batches++
	a.rowsRead += batch.RowsRead
	a.malformed += batch.Malformed

	for i := range batch.Records {
		rec := &batch.Records[i]

		s, ok := a.summaries[rec.NPI]
		if !ok {
			s = model.NewProviderSummary(rec.NPI, rec.PeerKey())
			a.summaries[rec.NPI] = s
		}

		s.TotalCents += rec.AmountCents
		s.ClaimCount++
		s.YearCents[rec.ServiceDate.UTC().Year()] += rec.AmountCents

		if s.FirstService.IsZero() || rec.ServiceDate.Before(s.FirstService) {
			s.FirstService = rec.ServiceDate
		}
		if rec.ServiceDate.After(s.LastService) {
			s.LastService = rec.ServiceDate
		}

		if rec.HomeHealth {
			s.HomeHealthClaims++
			if rec.BeneficiaryID != "" {
				s.HHBeneficiaries[rec.BeneficiaryID] = struct{}{}
			}
		}

		if a.reg.IsExcludedOn(rec.NPI, rec.ServiceDate) {
			s.PostExclusionCents += rec.AmountCents
		}
	}
	return nil
}

// MergeFrom folds another partial accumulator into a. Merging is
// commutative and associative, so worker order does not affect the result.
func (a *Accumulator) MergeFrom(other *Accumulator) {
	a.rowsRead += other.rowsRead
	a.malformed += other.malformed
	a.batches += other.batches

	for npi, os := range other.summaries {
		if s, ok := a.summaries[npi]; ok {
			s.Merge(os)
		} else {
			a.summaries[npi] = os
		}
	}
}

// Finalize freezes the accumulator and returns the summary map. Detection
// must not start before this returns; percentile and growth signals need
// the complete global distribution.
func (a *Accumulator) Finalize() map[string]*model.ProviderSummary {
	a.finalized = true
	return a.summaries
}

// RowsRead returns the total rows consumed across all batches.
func (a *Accumulator) RowsRead() int64 { return a.rowsRead }

// Malformed returns the count of rows dropped as malformed.
func (a *Accumulator) Malformed() int64 { return a.malformed }

// Batches returns the number of batches consumed.
func (a *Accumulator) Batches() int64 { return a.batches }

// Providers returns the number of distinct providers observed.
func (a *Accumulator) Providers() int { return len(a.summaries) }
