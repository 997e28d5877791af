// Package scoring implements the gap-adjusted risk scorer: a pure,
// deterministic derivation from base risk scores and checklist answers
// to adjusted scores, a gap report and recommendations. It performs no
// I/O, keeps no state and never fails; malformed inputs degrade to
// "not implemented" instead of producing errors.
package scoring

import (
	"math"
	"sort"

	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/model/config"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// ComputeAdjustedScores credits implemented controls against base risk
// scores. For each category the weights of questions answered exactly
// "yes" are summed and subtracted from the base score, floored at
// cfg.ScoreFloor. The returned gap analysis records the applied (post
// floor) reduction, the per-question implementation status, and the gap
// percentage over the whole catalog.
//
// Categories missing from baseScores are absent from the result.
// Questions missing an answer count as not implemented but are reported
// as unanswered rather than declined.
func ComputeAdjustedScores(
	baseScores map[types.RiskCategory]int,
	answers map[int]types.ChecklistAnswer,
	questions []model.ChecklistQuestion,
	cfg *config.ScoringConfig,
) (map[types.RiskCategory]int, *model.GapAnalysis) {
	if cfg == nil {
		cfg = config.DefaultScoringConfig()
	}

	rawReduction := make(map[types.RiskCategory]int)
	controls := make([]model.ControlStatus, 0, len(questions))
	implemented := 0

	for _, q := range questions {
		answer, answered := answers[q.ID]
		state := types.ControlStateOf(answer, answered)

		if answer.Implemented() {
			rawReduction[q.Category] += q.Weight
			implemented++
		}

		controls = append(controls, model.ControlStatus{
			QuestionID:  q.ID,
			Implemented: answer.Implemented(),
			State:       state,
			Category:    q.Category,
			Weight:      q.Weight,
		})
	}

	adjusted := make(map[types.RiskCategory]int, len(baseScores))
	categoryReduction := make(map[types.RiskCategory]int, len(baseScores))
	totalReduction := 0

	for category, base := range baseScores {
		applied := rawReduction[category]
		if room := base - cfg.ScoreFloor; applied > room {
			// The excess reduction beyond the floor is not credited.
			applied = room
		}
		if applied < 0 {
			applied = 0
		}

		adjusted[category] = base - applied
		categoryReduction[category] = applied
		totalReduction += applied
	}

	gapPercentage := 0.0
	if len(questions) > 0 {
		gapPercentage = float64(len(questions)-implemented) / float64(len(questions)) * 100
	}

	gap := &model.GapAnalysis{
		ImplementedControls: implemented,
		TotalControls:       len(questions),
		GapPercentage:       gapPercentage,
		RiskReduction:       totalReduction,
		CategoryReduction:   categoryReduction,
		Controls:            controls,
	}

	return adjusted, gap
}

// OverallComplianceScore derives a single compliance figure from the
// adjusted scores and the total applied risk reduction. The average
// residual risk dominates; the reduction bonus is divided by
// cfg.ReductionDivisor so two systems with identical residual risk are
// still differentiated by mitigation effort. The result is rounded and
// clamped to [cfg.ComplianceFloor, cfg.ComplianceCeiling].
func OverallComplianceScore(adjusted map[types.RiskCategory]int, totalReduction int, cfg *config.ScoringConfig) int {
	if cfg == nil {
		cfg = config.DefaultScoringConfig()
	}

	mean := 0.0
	if len(adjusted) > 0 {
		sum := 0
		for _, score := range adjusted {
			sum += score
		}
		mean = float64(sum) / float64(len(adjusted))
	}

	score := int(math.Round(100 - mean + float64(totalReduction)/float64(cfg.ReductionDivisor)))

	if score < cfg.ComplianceFloor {
		score = cfg.ComplianceFloor
	}
	if score > cfg.ComplianceCeiling {
		score = cfg.ComplianceCeiling
	}

	return score
}

// GapRecommendations produces one recommendation per not-implemented
// control, highest weight first, ties broken by ascending question ID
// so the output is deterministic. Not-applicable and unanswered
// controls are included and carry their state for renderers to badge.
func GapRecommendations(gap *model.GapAnalysis, questions []model.ChecklistQuestion) []model.Recommendation {
	if gap == nil {
		return nil
	}

	purposes := make(map[int]string, len(questions))
	for _, q := range questions {
		purposes[q.ID] = q.Purpose
	}

	var recs []model.Recommendation
	for _, control := range gap.Controls {
		if control.Implemented {
			continue
		}
		recs = append(recs, model.Recommendation{
			QuestionID: control.QuestionID,
			Purpose:    purposes[control.QuestionID],
			Category:   control.Category,
			Weight:     control.Weight,
			State:      control.State,
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Weight != recs[j].Weight {
			return recs[i].Weight > recs[j].Weight
		}
		return recs[i].QuestionID < recs[j].QuestionID
	})

	return recs
}
