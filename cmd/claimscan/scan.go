package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/claimscan/internal/config"
	"github.com/gyeh/claimscan/internal/exitcode"
	"github.com/gyeh/claimscan/internal/logging"
	"github.com/gyeh/claimscan/internal/scan"
	"github.com/gyeh/claimscan/internal/store"
)

var policyPath string

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a claims Parquet file and write the findings report",
	RunE:  runScan,
}

func init() {
	f := scanCmd.Flags()
	f.StringVar(&cfg.ClaimsPath, "claims", "", "Path to claims Parquet file (required)")
	f.StringVar(&cfg.RegistryPath, "registry", "", "Path to exclusion registry CSV (required)")
	f.StringVar(&cfg.OutputPath, "out", "fraud_signals.json", "Path to write the report JSON")
	f.StringVar(&policyPath, "policy", "", "Optional YAML detection policy file")
	f.IntVar(&cfg.Workers, "workers", 1, "Accumulator workers (partials are merged after the stream)")
	f.IntVar(&cfg.BatchSize, "batch-size", 1024, "Rows per read batch")
	_ = scanCmd.MarkFlagRequired("claims")
	_ = scanCmd.MarkFlagRequired("registry")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	cfg.Policy = config.DefaultPolicy()
	if policyPath != "" {
		if err := cfg.LoadPolicyFile(policyPath); err != nil {
			log.Error().Err(err).Msg("policy file invalid")
			os.Exit(exitcode.UsageError)
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	report, summary, err := scan.Run(ctx, log, &cfg)
	if err != nil {
		if pe, ok := err.(*scan.PipelineError); ok {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("scan failed")
			switch pe.Phase {
			case "registry", "stream":
				os.Exit(exitcode.SourceError)
			default:
				os.Exit(exitcode.ScanError)
			}
		}
		log.Error().Err(err).Msg("scan failed")
		os.Exit(exitcode.ScanError)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("report serialization failed")
		os.Exit(exitcode.ScanError)
	}
	if err := os.WriteFile(cfg.OutputPath, data, 0644); err != nil {
		log.Error().Err(err).Msg("report write failed")
		os.Exit(exitcode.ScanError)
	}

	if cfg.DSN != "" {
		pool, err := store.NewPool(ctx, cfg.DSN)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			os.Exit(exitcode.DBConnError)
		}
		defer pool.Close()

		if err := store.SaveReport(ctx, pool, log, report, summary); err != nil {
			log.Error().Err(err).Msg("findings persistence failed")
			os.Exit(exitcode.StoreError)
		}
	}

	fmt.Printf("Scan complete: %d providers scanned, %d flagged across signals, report at %s (%.1fs)\n",
		summary.ProvidersScanned, summary.ProvidersFlagged, cfg.OutputPath, summary.DurationTotal.Seconds())
	return nil
}
