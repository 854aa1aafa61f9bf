package normalize

import (
	"fmt"

	"github.com/gyeh/claimscan/internal/model"
)

// ToClaimRecord converts a Parquet-read ClaimRow into a validated
// ClaimRecord. homeHealthCodes is the configured HCPCS set that marks a
// claim as home health. A non-nil error means the row is malformed and must
// be counted, not propagated.
//
// Taxonomy and state may legitimately be absent; the record is still valid
// and detectors that need a peer key skip the provider instead.
func ToClaimRecord(row *model.ClaimRow, homeHealthCodes map[string]struct{}) (model.ClaimRecord, error) {
	npi := NormalizeNPI(row.ProviderNPI)
	if npi == "" {
		return model.ClaimRecord{}, fmt.Errorf("invalid provider_npi %q", row.ProviderNPI)
	}

	if row.BilledAmount == nil {
		return model.ClaimRecord{}, fmt.Errorf("missing billed_amount")
	}
	cents := DollarsToCents(*row.BilledAmount)
	if cents < 0 {
		return model.ClaimRecord{}, fmt.Errorf("negative billed_amount %v", *row.BilledAmount)
	}

	svc := ParseDate(row.ServiceDate)
	if svc == nil {
		return model.ClaimRecord{}, fmt.Errorf("unparseable service_date %q", row.ServiceDate)
	}

	rec := model.ClaimRecord{
		NPI:         npi,
		AmountCents: cents,
		ServiceDate: *svc,
	}
	if row.TaxonomyCode != nil {
		rec.Taxonomy = NormalizeCode(*row.TaxonomyCode)
	}
	if row.StateCode != nil {
		rec.State = NormalizeCode(*row.StateCode)
	}
	if row.BeneficiaryID != nil {
		rec.BeneficiaryID = *row.BeneficiaryID
	}
	if row.HCPCSCode != nil {
		if _, ok := homeHealthCodes[NormalizeCode(*row.HCPCSCode)]; ok {
			rec.HomeHealth = true
		}
	}
	return rec, nil
}
