package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gyeh/claimscan/internal/normalize"
)

// DefaultHomeHealthCodes is the HCPCS code set that marks a claim as home
// health when the file carries no override.
var DefaultHomeHealthCodes = []string{
	"G0151", "G0152", "G0153", "G0154", "G0155", "G0156", "G0157", "G0158",
	"G0159", "G0160", "G0161", "G0162", "G0299", "G0300", "S9122", "S9123",
	"S9124", "T1019", "T1020", "T1021", "T1022",
}

// Config holds all runtime configuration for a claimscan run.
type Config struct {
	ClaimsPath   string
	RegistryPath string
	OutputPath   string
	DSN          string
	LogFormat    string // "text" or "json"
	Workers      int
	BatchSize    int

	Policy Policy
}

// Policy is the detection policy, overridable from a YAML file.
type Policy struct {
	MinPeerGroupSize    int      `yaml:"min_peer_group_size"`
	PercentileRank      float64  `yaml:"percentile_rank"`
	GrowthThreshold     float64  `yaml:"growth_threshold"`
	HighSeverityRatio   float64  `yaml:"high_severity_ratio"`
	BeneficiaryRatio    float64  `yaml:"beneficiary_ratio"`
	MinHomeHealthClaims int64    `yaml:"min_home_health_claims"`
	HomeHealthCodes     []string `yaml:"home_health_codes"`
}

// DefaultPolicy returns the detection policy used when no file overrides it.
func DefaultPolicy() Policy {
	return Policy{
		MinPeerGroupSize:    2,
		PercentileRank:      0.99,
		GrowthThreshold:     2.0,
		HighSeverityRatio:   5.0,
		BeneficiaryRatio:    0.1,
		MinHomeHealthClaims: 100,
		HomeHealthCodes:     DefaultHomeHealthCodes,
	}
}

// LoadPolicyFile reads a YAML policy file and merges its values over the
// defaults. Zero-valued fields in the file keep their defaults.
func (c *Config) LoadPolicyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read policy file: %w", err)
	}
	p := DefaultPolicy()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("parse policy file: %w", err)
	}
	if len(p.HomeHealthCodes) == 0 {
		p.HomeHealthCodes = DefaultHomeHealthCodes
	}
	c.Policy = p
	return c.Policy.validate()
}

func (p *Policy) validate() error {
	if p.MinPeerGroupSize < 2 {
		return fmt.Errorf("min_peer_group_size must be >= 2, got %d", p.MinPeerGroupSize)
	}
	if p.PercentileRank <= 0 || p.PercentileRank >= 1 {
		return fmt.Errorf("percentile_rank must be in (0, 1), got %v", p.PercentileRank)
	}
	if p.GrowthThreshold <= 0 {
		return fmt.Errorf("growth_threshold must be > 0, got %v", p.GrowthThreshold)
	}
	if p.BeneficiaryRatio <= 0 || p.BeneficiaryRatio >= 1 {
		return fmt.Errorf("beneficiary_ratio must be in (0, 1), got %v", p.BeneficiaryRatio)
	}
	return nil
}

// HomeHealthCodeSet returns the normalized HCPCS code set as a lookup map.
func (p *Policy) HomeHealthCodeSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.HomeHealthCodes))
	for _, code := range p.HomeHealthCodes {
		if c := normalize.NormalizeCode(code); c != "" {
			set[c] = struct{}{}
		}
	}
	return set
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.ClaimsPath == "" {
		return fmt.Errorf("--claims is required")
	}
	if _, err := os.Stat(c.ClaimsPath); err != nil {
		return fmt.Errorf("claims file not accessible: %w", err)
	}
	if c.RegistryPath == "" {
		return fmt.Errorf("--registry is required")
	}
	if _, err := os.Stat(c.RegistryPath); err != nil {
		return fmt.Errorf("registry file not accessible: %w", err)
	}
	if c.Workers < 1 {
		return fmt.Errorf("--workers must be >= 1, got %d", c.Workers)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("--batch-size must be >= 1, got %d", c.BatchSize)
	}
	return c.Policy.validate()
}
