package model

import "time"

// ClaimRow mirrors the Parquet schema for a single claim line.
// Money fields are float64 matching Parquet representation; they get
// converted to integer cents during normalization. Optional columns are
// pointers so missing values survive the read and fail validation
// explicitly instead of silently becoming zero values.
type ClaimRow struct {
	ProviderNPI   string   `parquet:"provider_npi"`
	BilledAmount  *float64 `parquet:"billed_amount,optional"`
	ServiceDate   string   `parquet:"service_date"`
	TaxonomyCode  *string  `parquet:"taxonomy_code,optional"`
	StateCode     *string  `parquet:"state_code,optional"`
	BeneficiaryID *string  `parquet:"beneficiary_id,optional"`
	HCPCSCode     *string  `parquet:"hcpcs_code,optional"`
}

// RequiredColumns lists the Parquet columns a claims file must carry.
func RequiredColumns() []string {
	return []string{"provider_npi", "billed_amount", "service_date"}
}

// PeerKey identifies the comparison population for a provider.
type PeerKey struct {
	Taxonomy string
	State    string
}

// ClaimRecord is the validated, normalized form of a ClaimRow. It exists
// only for the lifetime of the batch that contains it.
type ClaimRecord struct {
	NPI           string
	AmountCents   int64
	ServiceDate   time.Time
	Taxonomy      string
	State         string
	BeneficiaryID string
	HomeHealth    bool
}

// PeerKey returns the record's peer-group key.
func (c *ClaimRecord) PeerKey() PeerKey {
	return PeerKey{Taxonomy: c.Taxonomy, State: c.State}
}

// Batch is one bounded chunk of validated claims plus per-batch counters.
type Batch struct {
	Records   []ClaimRecord
	RowsRead  int64
	Malformed int64
}
