package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/claimscan/internal/model"
)

// SaveReport persists a scan run and its findings. The run row goes in
// first so the findings COPY has its foreign key; findings stream through a
// channel-backed COPY in canonical signal order.
func SaveReport(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, report *model.Report, summary *model.ScanSummary) error {
	start := time.Now()

	runID, err := uuid.Parse(report.RunID)
	if err != nil {
		return fmt.Errorf("parse run id: %w", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO fraud.scan_runs
			(run_id, generated_at, tool_version, claims_file,
			 rows_scanned, rows_malformed, providers_scanned, providers_flagged)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		runID, report.GeneratedAt, report.ToolVersion, summary.FilePath,
		summary.RowsRead, summary.RowsMalformed,
		report.TotalProvidersScanned, report.TotalProvidersFlagged,
	)
	if err != nil {
		return fmt.Errorf("insert scan run: %w", err)
	}

	ch := make(chan *FindingRow, 256)
	errCh := make(chan error, 1)

	go func() {
		defer close(ch)
		for _, name := range model.AllSignals {
			for i := range report.Signals[name] {
				f := &report.Signals[name][i]
				evidence, marshalErr := json.Marshal(f.Evidence)
				if marshalErr != nil {
					errCh <- fmt.Errorf("marshal evidence for %s/%s: %w", f.Signal, f.NPI, marshalErr)
					return
				}
				row := &FindingRow{
					RunID:    runID,
					Signal:   f.Signal,
					NPI:      f.NPI,
					Severity: f.Severity,
					Evidence: evidence,
				}
				select {
				case ch <- row:
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				}
			}
		}
		errCh <- nil
	}()

	copied, err := pool.CopyFrom(ctx,
		pgx.Identifier{"fraud", "findings"},
		findingColumns(),
		NewChannelSource(ch),
	)

	prodErr := <-errCh
	if prodErr != nil {
		return fmt.Errorf("findings producer: %w", prodErr)
	}
	if err != nil {
		return fmt.Errorf("copy findings: %w", err)
	}

	log.Info().
		Int64("findings", copied).
		Str("duration", time.Since(start).String()).
		Msg("report persisted")

	return nil
}

// RunFindingCounts returns per-signal finding counts for a stored run.
func RunFindingCounts(ctx context.Context, pool *pgxpool.Pool, runID uuid.UUID) (map[string]int, error) {
	rows, err := pool.Query(ctx, `
		SELECT signal_type, count(*)
		FROM fraud.findings
		WHERE run_id = $1
		GROUP BY signal_type`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query finding counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var signal string
		var n int
		if err := rows.Scan(&signal, &n); err != nil {
			return nil, fmt.Errorf("scan finding count: %w", err)
		}
		counts[signal] = n
	}
	return counts, rows.Err()
}
