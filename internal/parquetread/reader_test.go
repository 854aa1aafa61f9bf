package parquetread

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	goparquet "github.com/parquet-go/parquet-go"

	"github.com/gyeh/claimscan/internal/model"
)

func writeFixture(t *testing.T, rows []model.ClaimRow) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claims.parquet")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	w := goparquet.NewGenericWriter[model.ClaimRow](f)
	if _, err := w.Write(rows); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	return path
}

func TestReader_StreamsAllRows(t *testing.T) {
	amount := 12.34
	rows := make([]model.ClaimRow, 100)
	for i := range rows {
		rows[i] = model.ClaimRow{
			ProviderNPI:  "1234567890",
			BilledAmount: &amount,
			ServiceDate:  "2019-01-01",
		}
	}
	path := writeFixture(t, rows)

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if got := r.NumRows(); got != 100 {
		t.Errorf("NumRows = %d, want 100", got)
	}
	if err := ValidateSchema(r.Schema()); err != nil {
		t.Errorf("ValidateSchema: %v", err)
	}

	// Read in small buffers to exercise batch boundaries.
	buf := make([]model.ClaimRow, 7)
	var total int
	for {
		n, readErr := r.Read(buf)
		total += n
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			t.Fatalf("Read: %v", readErr)
		}
	}
	if total != 100 {
		t.Errorf("read %d rows, want 100", total)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.parquet")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateSchema_MissingColumn(t *testing.T) {
	type notClaims struct {
		ProviderNPI string  `parquet:"provider_npi"`
		Amount      float64 `parquet:"billed_amount"`
	}
	schema := goparquet.SchemaOf(new(notClaims))
	if err := ValidateSchema(schema); err == nil {
		t.Fatal("expected error for schema missing service_date")
	}
}
