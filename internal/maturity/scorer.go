// Package maturity converts accumulated spec entries into per-category and
// per-phase maturity scores in [0, 1]. Scoring is pure: phase-transition
// gating is the QualityController's decision, not this package's.
package maturity

import (
	"fmt"
	"sort"

	"github.com/socratesai/socrates/internal/types"
)

// Scorer computes maturity scores from spec entries using a validated
// configuration. The zero value is not usable; construct with NewScorer.
type Scorer struct {
	cfg *Config
}

// NewScorer creates a scorer, validating the configuration once up front.
func NewScorer(cfg *Config) (*Scorer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring config: %w", err)
	}
	return &Scorer{cfg: cfg}, nil
}

// Config returns the scorer's configuration.
func (s *Scorer) Config() *Config {
	return s.cfg
}

// CategoryScore computes the score for one category's entries.
//
// Entries are weighted by recency: the newest entry weighs 1.0 and each
// older entry weighs RecencyDecay times the previous, so corrections
// supersede stale answers without deleting history. Confidence is clamped
// to [0, 1] before averaging. Zero entries score exactly 0.0; fewer than
// MinEvidence entries are capped at EvidenceCap.
func (s *Scorer) CategoryScore(entries []*types.SpecEntry) float64 {
	if len(entries) == 0 {
		return 0.0
	}

	// Newest first; ties broken by sort order so scoring is deterministic.
	sorted := make([]*types.SpecEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].SortOrder > sorted[j].SortOrder
	})

	var weightedSum, weightSum float64
	weight := 1.0
	for _, entry := range sorted {
		weightedSum += clamp01(entry.Confidence) * weight
		weightSum += weight
		weight *= s.cfg.RecencyDecay
	}

	score := weightedSum / weightSum
	if len(entries) < s.cfg.MinEvidence && score > s.cfg.EvidenceCap {
		score = s.cfg.EvidenceCap
	}
	return clamp01(score)
}

// PhaseScore aggregates category scores into one phase score using the
// configured weight table. Categories with no entries contribute 0.0.
func (s *Scorer) PhaseScore(phase types.Phase, byCategory map[types.Category][]*types.SpecEntry) (float64, map[types.Category]float64, error) {
	weights, ok := s.cfg.Weights[phase]
	if !ok {
		return 0, nil, fmt.Errorf("no weight table configured for phase %s", phase)
	}

	categoryScores := make(map[types.Category]float64, len(weights))
	var phaseScore float64
	for category, weight := range weights {
		score := s.CategoryScore(byCategory[category])
		categoryScores[category] = score
		phaseScore += weight * score
	}
	return clamp01(phaseScore), categoryScores, nil
}

// ScoreEntries partitions a flat entry list by category and computes the
// phase score for the given phase. Entries outside the phase are ignored.
func (s *Scorer) ScoreEntries(phase types.Phase, entries []*types.SpecEntry) (float64, map[types.Category]float64, error) {
	byCategory := make(map[types.Category][]*types.SpecEntry)
	for _, entry := range entries {
		if entry.Phase != phase {
			continue
		}
		byCategory[entry.Category] = append(byCategory[entry.Category], entry)
	}
	return s.PhaseScore(phase, byCategory)
}

// GateThreshold returns the configured phase gate threshold.
func (s *Scorer) GateThreshold() float64 {
	return s.cfg.GateThreshold
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
