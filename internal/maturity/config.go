package maturity

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/socratesai/socrates/internal/types"
)

// Config holds the scoring constants. The exact recency decay and evidence
// floor are deployment configuration, validated here at load time rather
// than asserted per call.
type Config struct {
	// Weights maps each phase to its category weight table. Weights for a
	// phase must sum to 1.0.
	Weights map[types.Phase]map[types.Category]float64 `yaml:"weights"`

	// GateThreshold is the phase score required before a phase may advance.
	// Default: 0.7
	GateThreshold float64 `yaml:"gate_threshold"`

	// RecencyDecay is the per-rank multiplier applied to older entries when
	// averaging confidence: the newest entry weighs 1.0, the next
	// RecencyDecay, then RecencyDecay^2, and so on. The default 1.0 is a
	// plain mean; deployments that want corrections to supersede stale
	// answers set a value below 1.0 (0.9 works well).
	RecencyDecay float64 `yaml:"recency_decay"`

	// MinEvidence is the entry count below which a category score is capped
	// at EvidenceCap, so one lucky high-confidence answer cannot mark a
	// category mature. Default: 2
	MinEvidence int `yaml:"min_evidence"`

	// EvidenceCap is the ceiling applied when a category has fewer than
	// MinEvidence entries. Default: 0.5
	EvidenceCap float64 `yaml:"evidence_cap"`
}

// DefaultConfig returns the default scoring configuration
func DefaultConfig() *Config {
	weights := make(map[types.Phase]map[types.Category]float64, len(types.Phases))
	for _, phase := range types.Phases {
		weights[phase] = map[types.Category]float64{
			types.CategoryGoals:        0.3,
			types.CategoryRequirements: 0.3,
			types.CategoryConstraints:  0.2,
			types.CategoryTechStack:    0.2,
		}
	}
	return &Config{
		Weights:       weights,
		GateThreshold: 0.7,
		RecencyDecay:  1.0,
		MinEvidence:   2,
		EvidenceCap:   0.5,
	}
}

// Validate checks the configuration invariants. Called once at load time.
func (c *Config) Validate() error {
	if c.GateThreshold <= 0 || c.GateThreshold > 1 {
		return fmt.Errorf("gate_threshold must be in (0.0, 1.0] (got %.2f)", c.GateThreshold)
	}
	if c.RecencyDecay <= 0 || c.RecencyDecay > 1 {
		return fmt.Errorf("recency_decay must be in (0.0, 1.0] (got %.2f)", c.RecencyDecay)
	}
	if c.MinEvidence < 0 {
		return fmt.Errorf("min_evidence cannot be negative (got %d)", c.MinEvidence)
	}
	if c.EvidenceCap < 0 || c.EvidenceCap > 1 {
		return fmt.Errorf("evidence_cap must be in [0.0, 1.0] (got %.2f)", c.EvidenceCap)
	}
	if len(c.Weights) == 0 {
		return fmt.Errorf("weights table is empty")
	}
	for phase, table := range c.Weights {
		if !phase.IsValid() {
			return fmt.Errorf("weights reference unknown phase %q", phase)
		}
		var sum float64
		for category, weight := range table {
			if !category.IsValid() {
				return fmt.Errorf("phase %s weights reference unknown category %q", phase, category)
			}
			if weight < 0 {
				return fmt.Errorf("phase %s category %s has negative weight %.2f", phase, category, weight)
			}
			sum += weight
		}
		if math.Abs(sum-1.0) > 1e-9 {
			return fmt.Errorf("phase %s category weights sum to %.4f, must sum to 1.0", phase, sum)
		}
	}
	return nil
}

// LoadConfig reads a yaml scoring configuration from disk. Fields omitted
// from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scoring config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scoring config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring config %s: %w", path, err)
	}
	return cfg, nil
}
