package scoring

import (
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/model/config"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// EvaluateRules resolves the applicable risk set and base score per
// category for a system profile. Rules are tried in configuration
// order; the first rule per category whose conditions all match wins,
// then its adjustments shift the base score for matching profile
// fields. Categories with no matching rule are simply absent.
func EvaluateRules(profile *model.SystemProfile, rules []config.RiskRule) map[types.RiskCategory]int {
	baseScores := make(map[types.RiskCategory]int)

	for _, rule := range rules {
		if _, done := baseScores[rule.Category]; done {
			continue
		}
		if !matches(profile, rule.When) {
			continue
		}

		score := rule.BaseScore
		for _, adj := range rule.Adjust {
			if value, ok := profile.FieldValue(adj.Field); ok && value == adj.Equals {
				score += adj.Delta
			}
		}

		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}

		baseScores[rule.Category] = score
	}

	return baseScores
}

// matches reports whether all conditions hold for the profile. A rule
// with no conditions always applies. Conditions referencing unknown
// fields never match.
func matches(profile *model.SystemProfile, conditions []config.Condition) bool {
	for _, cond := range conditions {
		value, ok := profile.FieldValue(cond.Field)
		if !ok || value != cond.Equals {
			return false
		}
	}
	return true
}
