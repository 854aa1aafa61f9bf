// mkclaims generates a small synthetic claims Parquet file and matching
// exclusion registry CSV for local runs and benchmarks. The data is seeded
// so repeated runs produce the same files.
// Usage: go run ./cmd/mkclaims --claims testdata/claims.parquet --registry testdata/leie.csv --providers 50
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	goparquet "github.com/parquet-go/parquet-go"

	"github.com/gyeh/claimscan/internal/model"
)

var taxonomies = []string{"251E00000X", "207Q00000X", "363L00000X", "208D00000X"}
var states = []string{"TX", "FL", "CA", "NY"}

func main() {
	claimsOut := flag.String("claims", "testdata/claims.parquet", "output claims parquet")
	registryOut := flag.String("registry", "testdata/leie.csv", "output exclusion registry csv")
	providers := flag.Int("providers", 50, "number of providers")
	claimsPer := flag.Int("claims-per-provider", 40, "claims per provider")
	seed := flag.Int64("seed", 7, "rng seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	var rows []model.ClaimRow
	var excluded []string

	for p := 0; p < *providers; p++ {
		npi := fmt.Sprintf("1%09d", p+1)
		taxonomy := taxonomies[p%len(taxonomies)]
		state := states[(p/len(taxonomies))%len(states)]

		// Every 10th provider is excluded mid-2019 and keeps billing.
		isExcluded := p%10 == 9
		if isExcluded {
			excluded = append(excluded, npi)
		}

		for c := 0; c < *claimsPer; c++ {
			year := 2018 + c%3
			month := 1 + rng.Intn(12)
			day := 1 + rng.Intn(28)
			amount := 50 + rng.Float64()*450

			// One outlier per taxonomy/state cell bills an order of
			// magnitude above its peers.
			if p%16 == 0 {
				amount *= 20
			}

			bene := fmt.Sprintf("B%06d", rng.Intn(*providers**claimsPer/2))
			row := model.ClaimRow{
				ProviderNPI:   npi,
				BilledAmount:  &amount,
				ServiceDate:   fmt.Sprintf("%04d-%02d-%02d", year, month, day),
				TaxonomyCode:  &taxonomy,
				StateCode:     &state,
				BeneficiaryID: &bene,
			}
			// Home-health mill: many claims, few beneficiaries.
			if p%13 == 12 {
				code := "T1019"
				few := fmt.Sprintf("B-HH-%d", rng.Intn(3))
				row.HCPCSCode = &code
				row.BeneficiaryID = &few
			}
			rows = append(rows, row)
		}
	}

	if err := writeParquet(*claimsOut, rows); err != nil {
		fmt.Fprintf(os.Stderr, "write claims: %v\n", err)
		os.Exit(1)
	}
	if err := writeRegistry(*registryOut, excluded); err != nil {
		fmt.Fprintf(os.Stderr, "write registry: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d claims for %d providers to %s\n", len(rows), *providers, *claimsOut)
	fmt.Printf("Wrote %d exclusions to %s\n", len(excluded), *registryOut)
}

func writeParquet(path string, rows []model.ClaimRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := goparquet.NewGenericWriter[model.ClaimRow](f)
	if _, err := writer.Write(rows); err != nil {
		return err
	}
	return writer.Close()
}

func writeRegistry(path string, npis []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, "NPI,EXCLTYPE,EXCLDATE,REINDATE"); err != nil {
		return err
	}
	for _, npi := range npis {
		if _, err := fmt.Fprintf(f, "%s,1128b4,20190601,\n", npi); err != nil {
			return err
		}
	}
	return nil
}
