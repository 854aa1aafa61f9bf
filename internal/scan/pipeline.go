package scan

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gyeh/claimscan/internal/config"
	"github.com/gyeh/claimscan/internal/model"
	"github.com/gyeh/claimscan/internal/normalize"
	"github.com/gyeh/claimscan/internal/parquetread"
	"github.com/gyeh/claimscan/internal/registry"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Run executes the full scan pipeline: registry → stream → thresholds →
// detect → assemble. The stream phase is the single pass over the claims
// file; everything after it operates on the bounded per-provider summary
// map. Detection never starts before the accumulator is finalized.
func Run(ctx context.Context, log zerolog.Logger, cfg *config.Config) (*model.Report, *model.ScanSummary, error) {
	totalStart := time.Now()
	runID := uuid.New()
	log = log.With().Str("run_id", runID.String()).Logger()

	// Phase 1: Registry
	log.Info().Str("file", cfg.RegistryPath).Msg("loading exclusion registry")
	reg, err := registry.Load(cfg.RegistryPath, log)
	if err != nil {
		return nil, nil, &PipelineError{Phase: "registry", Err: err}
	}

	// Phase 2: Stream
	log.Info().Str("file", cfg.ClaimsPath).Int("workers", cfg.Workers).Msg("starting claims stream")
	streamStart := time.Now()
	acc, err := streamClaims(ctx, log, cfg, reg)
	if err != nil {
		return nil, nil, &PipelineError{Phase: "stream", Err: err}
	}
	streamDur := time.Since(streamStart)

	summaries := acc.Finalize()
	log.Info().
		Int64("rows_read", acc.RowsRead()).
		Int64("rows_malformed", acc.Malformed()).
		Int64("batches", acc.Batches()).
		Int("providers", acc.Providers()).
		Str("duration", streamDur.String()).
		Msg("claims stream complete")

	// Phase 3: Thresholds
	detectStart := time.Now()
	thresholds := BuildThresholds(summaries, cfg.Policy)
	log.Info().Int("peer_groups", len(thresholds)).Msg("peer-group thresholds built")

	// Phase 4: Detect
	skipped := make(map[string]int64, len(model.AllSignals))
	findingSets := make(map[string][]model.Finding, len(model.AllSignals))

	findingSets[model.SignalExcludedProvider] = DetectExcludedProviders(summaries, reg)
	findingSets[model.SignalBillingOutlier], skipped[model.SignalBillingOutlier] = DetectBillingOutliers(summaries, thresholds, cfg.Policy)
	findingSets[model.SignalRapidEscalation], skipped[model.SignalRapidEscalation] = DetectRapidEscalation(summaries, cfg.Policy)
	findingSets[model.SignalGeographicImplausibility], skipped[model.SignalGeographicImplausibility] = DetectGeographicImplausibility(summaries, cfg.Policy)

	for _, name := range model.AllSignals {
		log.Info().
			Str("signal", name).
			Int("findings", len(findingSets[name])).
			Int64("skipped", skipped[name]).
			Msg("detector complete")
	}

	// Phase 5: Assemble
	report := AssembleReport(findingSets, RunMetadata{
		RunID:            runID,
		GeneratedAt:      time.Now(),
		ProvidersScanned: acc.Providers(),
		Diagnostics: model.Diagnostics{
			RowsScanned:           acc.RowsRead(),
			MalformedClaims:       acc.Malformed(),
			MalformedRegistryRows: reg.MalformedRows(),
			SkippedByDetector:     skipped,
		},
	})
	detectDur := time.Since(detectStart)

	summary := &model.ScanSummary{
		FilePath:         cfg.ClaimsPath,
		RunID:            runID.String(),
		RowsRead:         acc.RowsRead(),
		RowsMalformed:    acc.Malformed(),
		BatchesRead:      acc.Batches(),
		ProvidersScanned: acc.Providers(),
		ProvidersFlagged: report.TotalProvidersFlagged,
		DurationStream:   streamDur,
		DurationDetect:   detectDur,
		DurationTotal:    time.Since(totalStart),
	}

	log.Info().
		Int("providers_scanned", summary.ProvidersScanned).
		Int("providers_flagged", summary.ProvidersFlagged).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("scan pipeline complete")

	return report, summary, nil
}

// streamClaims runs the producer/consumer pass: one goroutine reads the
// Parquet file batch by batch in physical order, cfg.Workers consumers fold
// batches into private accumulators, and the partials are merged once the
// stream is exhausted.
func streamClaims(ctx context.Context, log zerolog.Logger, cfg *config.Config, reg *registry.Registry) (*Accumulator, error) {
	reader, err := parquetread.Open(cfg.ClaimsPath)
	if err != nil {
		return nil, fmt.Errorf("stream open: %w", err)
	}
	defer reader.Close()

	if err := parquetread.ValidateSchema(reader.Schema()); err != nil {
		return nil, fmt.Errorf("stream schema: %w", err)
	}

	hhCodes := cfg.Policy.HomeHealthCodeSet()
	batches := make(chan *model.Batch, cfg.Workers)

	g, gctx := errgroup.WithContext(ctx)

	// Producer: read Parquet → validate rows → push batches to channel.
	g.Go(func() error {
		defer close(batches)
		buf := make([]model.ClaimRow, cfg.BatchSize)
		var batchNum int64

		for {
			n, readErr := reader.Read(buf)
			if n > 0 {
				batchNum++
				batch := &model.Batch{Records: make([]model.ClaimRecord, 0, n)}
				for i := 0; i < n; i++ {
					batch.RowsRead++
					rec, normErr := normalize.ToClaimRecord(&buf[i], hhCodes)
					if normErr != nil {
						batch.Malformed++
						log.Warn().Err(normErr).Int64("batch", batchNum).Msg("row rejected")
						continue
					}
					batch.Records = append(batch.Records, rec)
				}
				if batchNum%100 == 0 {
					log.Debug().Int64("batch", batchNum).Msg("streaming")
				}
				select {
				case batches <- batch:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			if readErr == io.EOF {
				return nil
			}
			if readErr != nil {
				return fmt.Errorf("read batch %d: %w", batchNum+1, readErr)
			}
		}
	})

	// Consumers: each worker owns a private partial accumulator.
	accs := make([]*Accumulator, cfg.Workers)
	for w := 0; w < cfg.Workers; w++ {
		acc := NewAccumulator(reg)
		accs[w] = acc
		g.Go(func() error {
			for batch := range batches {
				if err := acc.Update(batch); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merge partials; summing is order-independent.
	merged := accs[0]
	for _, acc := range accs[1:] {
		merged.MergeFrom(acc)
	}
	return merged, nil
}
