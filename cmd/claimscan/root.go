package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/claimscan/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "claimscan",
	Short: "Healthcare claims fraud signal scanner",
	Long:  "Streams a claims Parquet ledger in bounded-memory batches, cross-references the exclusion registry, and flags providers with billing patterns correlated with fraud.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("CLAIMSCAN_DB_URL"), "Postgres connection string for findings persistence (or set CLAIMSCAN_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
