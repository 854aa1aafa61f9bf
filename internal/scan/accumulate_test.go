package scan

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/claimscan/internal/model"
	"github.com/gyeh/claimscan/internal/registry"
)

func mkRegistry(t *testing.T, csv string) *registry.Registry {
	t.Helper()
	reg, err := registry.Parse(strings.NewReader(csv), zerolog.Nop())
	if err != nil {
		t.Fatalf("registry.Parse: %v", err)
	}
	return reg
}

func emptyRegistry(t *testing.T) *registry.Registry {
	return mkRegistry(t, "NPI,EXCLTYPE,EXCLDATE,REINDATE\n")
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func claim(npi string, cents int64, date string) model.ClaimRecord {
	return model.ClaimRecord{
		NPI:         npi,
		AmountCents: cents,
		ServiceDate: day(date),
		Taxonomy:    "251E00000X",
		State:       "TX",
	}
}

func TestAccumulator_Update(t *testing.T) {
	acc := NewAccumulator(emptyRegistry(t))

	batch := &model.Batch{
		Records: []model.ClaimRecord{
			claim("1000000001", 10000, "2018-03-01"),
			claim("1000000001", 5000, "2019-07-15"),
			claim("1000000002", 2500, "2019-01-01"),
		},
		RowsRead: 3,
	}
	if err := acc.Update(batch); err != nil {
		t.Fatalf("Update: %v", err)
	}

	summaries := acc.Finalize()
	s := summaries["1000000001"]
	if s == nil {
		t.Fatal("missing summary for 1000000001")
	}
	if s.TotalCents != 15000 {
		t.Errorf("TotalCents = %d, want 15000", s.TotalCents)
	}
	if s.ClaimCount != 2 {
		t.Errorf("ClaimCount = %d, want 2", s.ClaimCount)
	}
	if s.YearCents[2018] != 10000 || s.YearCents[2019] != 5000 {
		t.Errorf("YearCents = %v", s.YearCents)
	}
	if !s.FirstService.Equal(day("2018-03-01")) || !s.LastService.Equal(day("2019-07-15")) {
		t.Errorf("service bounds = %v .. %v", s.FirstService, s.LastService)
	}
	if s.Peer.Taxonomy != "251E00000X" || s.Peer.State != "TX" {
		t.Errorf("Peer = %+v", s.Peer)
	}
	if acc.Providers() != 2 {
		t.Errorf("Providers = %d, want 2", acc.Providers())
	}
}

func TestAccumulator_UpdateAfterFinalize(t *testing.T) {
	acc := NewAccumulator(emptyRegistry(t))
	acc.Finalize()
	if err := acc.Update(&model.Batch{}); err == nil {
		t.Fatal("expected error updating a finalized accumulator")
	}
}

func TestAccumulator_PostExclusionExactAmount(t *testing.T) {
	reg := mkRegistry(t, "NPI,EXCLTYPE,EXCLDATE,REINDATE\n1000000001,1128b4,20100101,\n")
	acc := NewAccumulator(reg)

	batch := &model.Batch{
		Records:  []model.ClaimRecord{claim("1000000001", 10000, "2010-06-01")},
		RowsRead: 1,
	}
	if err := acc.Update(batch); err != nil {
		t.Fatalf("Update: %v", err)
	}

	s := acc.Finalize()["1000000001"]
	if s.PostExclusionCents != 10000 {
		t.Errorf("PostExclusionCents = %d, want exactly 10000", s.PostExclusionCents)
	}
}

func TestAccumulator_PostReinstatementNotCounted(t *testing.T) {
	reg := mkRegistry(t, "NPI,EXCLTYPE,EXCLDATE,REINDATE\n1000000001,1128a1,20100101,20120101\n")
	acc := NewAccumulator(reg)

	batch := &model.Batch{
		Records: []model.ClaimRecord{
			claim("1000000001", 10000, "2011-06-01"), // inside window
			claim("1000000001", 99900, "2013-06-01"), // after reinstatement
		},
		RowsRead: 2,
	}
	if err := acc.Update(batch); err != nil {
		t.Fatalf("Update: %v", err)
	}

	s := acc.Finalize()["1000000001"]
	if s.PostExclusionCents != 10000 {
		t.Errorf("PostExclusionCents = %d, want 10000 (reinstated billing excluded)", s.PostExclusionCents)
	}
}

func TestAccumulator_MalformedCounterOnly(t *testing.T) {
	acc := NewAccumulator(emptyRegistry(t))

	// A batch where 2 of 3 rows failed validation: counters move, no
	// summary is touched by the dropped rows.
	batch := &model.Batch{
		Records:   []model.ClaimRecord{claim("1000000001", 100, "2019-01-01")},
		RowsRead:  3,
		Malformed: 2,
	}
	if err := acc.Update(batch); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if acc.RowsRead() != 3 {
		t.Errorf("RowsRead = %d, want 3", acc.RowsRead())
	}
	if acc.Malformed() != 2 {
		t.Errorf("Malformed = %d, want 2", acc.Malformed())
	}
	if s := acc.Finalize()["1000000001"]; s.TotalCents != 100 {
		t.Errorf("TotalCents = %d, want 100", s.TotalCents)
	}
}

func TestAccumulator_HomeHealthCounters(t *testing.T) {
	acc := NewAccumulator(emptyRegistry(t))

	recs := make([]model.ClaimRecord, 0, 4)
	for _, bene := range []string{"B1", "B1", "B2", ""} {
		rec := claim("1000000001", 100, "2019-01-01")
		rec.HomeHealth = true
		rec.BeneficiaryID = bene
		recs = append(recs, rec)
	}
	if err := acc.Update(&model.Batch{Records: recs, RowsRead: 4}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	s := acc.Finalize()["1000000001"]
	if s.HomeHealthClaims != 4 {
		t.Errorf("HomeHealthClaims = %d, want 4", s.HomeHealthClaims)
	}
	if s.DistinctHHBeneficiaries() != 2 {
		t.Errorf("DistinctHHBeneficiaries = %d, want 2", s.DistinctHHBeneficiaries())
	}
}

func TestAccumulator_MergeCommutative(t *testing.T) {
	reg := emptyRegistry(t)

	build := func(batches ...*model.Batch) *Accumulator {
		acc := NewAccumulator(reg)
		for _, b := range batches {
			if err := acc.Update(b); err != nil {
				t.Fatalf("Update: %v", err)
			}
		}
		return acc
	}

	b1 := &model.Batch{
		Records: []model.ClaimRecord{
			claim("1000000001", 100, "2018-02-01"),
			claim("1000000002", 200, "2018-05-01"),
		},
		RowsRead: 2,
	}
	b2 := &model.Batch{
		Records: []model.ClaimRecord{
			claim("1000000001", 300, "2019-02-01"),
			claim("1000000003", 400, "2019-08-01"),
		},
		RowsRead:  3,
		Malformed: 1,
	}

	ab := build(b1)
	ab.MergeFrom(build(b2))
	ba := build(b2)
	ba.MergeFrom(build(b1))

	left, right := ab.Finalize(), ba.Finalize()
	if !reflect.DeepEqual(left, right) {
		t.Errorf("merge order changed result:\n%+v\nvs\n%+v", left, right)
	}
	if ab.RowsRead() != ba.RowsRead() || ab.RowsRead() != 5 {
		t.Errorf("RowsRead after merge = %d / %d, want 5", ab.RowsRead(), ba.RowsRead())
	}
	if ab.Malformed() != 1 {
		t.Errorf("Malformed after merge = %d, want 1", ab.Malformed())
	}

	s := left["1000000001"]
	if s.TotalCents != 400 || s.YearCents[2018] != 100 || s.YearCents[2019] != 300 {
		t.Errorf("merged summary = %+v", s)
	}
	if !s.FirstService.Equal(day("2018-02-01")) || !s.LastService.Equal(day("2019-02-01")) {
		t.Errorf("merged bounds = %v .. %v", s.FirstService, s.LastService)
	}
}
