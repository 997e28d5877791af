package config

import (
	"github.com/m-mizutani/goerr/v2"
)

// Scoring defaults. The compliance divisor and floors mirror the original
// scoring policy; they are configuration, not inline magic numbers, so a
// deployment can override them in the catalog file.
const (
	DefaultScoreFloor        = 10
	DefaultComplianceFloor   = 10
	DefaultComplianceCeiling = 100
	DefaultReductionDivisor  = 2
)

// ScoringConfig holds the named constants of the scoring formulas
type ScoringConfig struct {
	// ScoreFloor is the minimum adjusted risk score per category,
	// representing irreducible residual risk.
	ScoreFloor int
	// ComplianceFloor and ComplianceCeiling clamp the overall compliance score.
	ComplianceFloor   int
	ComplianceCeiling int
	// ReductionDivisor down-weights the mitigation-effort bonus in the
	// compliance score.
	ReductionDivisor int
}

// DefaultScoringConfig returns the scoring configuration defaults
func DefaultScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		ScoreFloor:        DefaultScoreFloor,
		ComplianceFloor:   DefaultComplianceFloor,
		ComplianceCeiling: DefaultComplianceCeiling,
		ReductionDivisor:  DefaultReductionDivisor,
	}
}

// Validate checks the scoring configuration for consistency
func (c *ScoringConfig) Validate() error {
	if c.ScoreFloor < 0 || c.ScoreFloor > 100 {
		return goerr.New("score floor must be in [0,100]", goerr.V("floor", c.ScoreFloor))
	}
	if c.ComplianceFloor < 0 || c.ComplianceFloor > 100 {
		return goerr.New("compliance floor must be in [0,100]", goerr.V("floor", c.ComplianceFloor))
	}
	if c.ComplianceCeiling < c.ComplianceFloor || c.ComplianceCeiling > 100 {
		return goerr.New("compliance ceiling must be in [floor,100]",
			goerr.V("floor", c.ComplianceFloor), goerr.V("ceiling", c.ComplianceCeiling))
	}
	if c.ReductionDivisor <= 0 {
		return goerr.New("reduction divisor must be positive", goerr.V("divisor", c.ReductionDivisor))
	}
	return nil
}
