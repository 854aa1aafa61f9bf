package parquetread

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/claimscan/internal/model"
)

// ValidateSchema checks that the Parquet schema contains every column the
// scan cannot run without. Optional columns (taxonomy, state, beneficiary,
// hcpcs) are allowed to be absent; their detectors degrade per provider.
func ValidateSchema(schema *parquet.Schema) error {
	columns := make(map[string]bool)
	for _, field := range schema.Fields() {
		columns[strings.ToLower(field.Name())] = true
	}

	for _, col := range model.RequiredColumns() {
		if !columns[col] {
			return fmt.Errorf("missing required column: %s", col)
		}
	}

	return nil
}
