package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/model/config"
	"github.com/secmon-lab/themis/pkg/domain/scoring"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/service/analyzer"
	"github.com/secmon-lab/themis/pkg/service/slack"
	"github.com/secmon-lab/themis/pkg/utils/async"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

// AssessmentUseCase runs the assessment pipeline: rule evaluation,
// gap-adjusted scoring, LLM analysis and report assembly
type AssessmentUseCase struct {
	catalog    *model.Catalog
	rules      []config.RiskRule
	scoringCfg *config.ScoringConfig
	analyzer   analyzer.Service
	notifier   slack.Service
}

// NewAssessmentUseCase creates a new AssessmentUseCase instance
func NewAssessmentUseCase(
	catalog *model.Catalog,
	rules []config.RiskRule,
	scoringCfg *config.ScoringConfig,
	analyzerSvc analyzer.Service,
	notifier slack.Service,
) *AssessmentUseCase {
	return &AssessmentUseCase{
		catalog:    catalog,
		rules:      rules,
		scoringCfg: scoringCfg,
		analyzer:   analyzerSvc,
		notifier:   notifier,
	}
}

// RunOption adjusts one assessment run
type RunOption func(*runConfig)

type runConfig struct {
	skipAnalysis bool
}

// WithSkipAnalysis runs the deterministic pipeline without calling the
// text-generation service even when one is configured
func WithSkipAnalysis() RunOption {
	return func(c *runConfig) {
		c.skipAnalysis = true
	}
}

// Run executes one assessment. The report is created fresh, returned to
// the caller and never stored. Analyzer failures are terminal: the
// caller receives the error instead of a report with substituted
// content.
func (uc *AssessmentUseCase) Run(ctx context.Context, req *model.AssessmentRequest, opts ...RunOption) (*model.Report, error) {
	var runCfg runConfig
	for _, opt := range opts {
		opt(&runCfg)
	}

	if req == nil {
		return nil, goerr.Wrap(model.ErrInvalidRequest, "request body is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	logger := logging.From(ctx)
	mode := req.Mode()

	baseScores := scoring.EvaluateRules(&req.Profile, uc.rules)

	var adjusted map[types.RiskCategory]int
	var gap *model.GapAnalysis
	var recommendations []model.Recommendation
	totalReduction := 0

	if mode == types.ModeGapAnalysis {
		answers := model.AnswerMap(req.Checklist)
		adjusted, gap = scoring.ComputeAdjustedScores(baseScores, answers, uc.catalog.Questions, uc.scoringCfg)
		recommendations = scoring.GapRecommendations(gap, uc.catalog.Questions)
		totalReduction = gap.RiskReduction
	} else {
		adjusted = baseScores
	}

	report := &model.Report{
		ID:              uuid.Must(uuid.NewV7()).String(),
		GeneratedAt:     time.Now().UTC(),
		Mode:            mode,
		Profile:         req.Profile,
		Scores:          uc.buildScores(baseScores, adjusted),
		ComplianceScore: scoring.OverallComplianceScore(adjusted, totalReduction, uc.scoringCfg),
		Gap:             gap,
		Recommendations: recommendations,
		CatalogVersion:  uc.catalog.Version,
	}

	switch {
	case runCfg.skipAnalysis:
		logger.Info("analysis skipped by request", "report_id", report.ID)
	case uc.analyzer == nil:
		logger.Info("no analyzer configured, returning deterministic result only", "report_id", report.ID)
	default:
		analysis, err := uc.analyzer.Analyze(ctx, &analyzer.Input{
			Profile:         req.Profile,
			Mode:            mode,
			Scores:          report.Scores,
			Gap:             gap,
			Recommendations: recommendations,
		})
		if err != nil {
			// Surfacing instead of substituting canned text keeps service
			// failures visible to the end user.
			return nil, goerr.Wrap(err, "risk analysis failed", goerr.V("report_id", report.ID))
		}
		report.Analysis = analysis
	}

	if uc.notifier != nil {
		uc.notifyAsync(ctx, report)
	}

	return report, nil
}

// buildScores assembles the per-category score entries in canonical
// category order, skipping categories the rule table left out
func (uc *AssessmentUseCase) buildScores(base, adjusted map[types.RiskCategory]int) []model.ScoreEntry {
	entries := make([]model.ScoreEntry, 0, len(base))
	for _, category := range types.RiskCategories() {
		baseScore, ok := base[category]
		if !ok {
			continue
		}
		entries = append(entries, model.ScoreEntry{
			Category:      category,
			BaseScore:     baseScore,
			AdjustedScore: adjusted[category],
			Framework:     uc.catalog.Framework(category),
		})
	}
	return entries
}

// notifyAsync posts the Slack notification without blocking the
// assessment response. Failures are logged, never surfaced.
func (uc *AssessmentUseCase) notifyAsync(ctx context.Context, report *model.Report) {
	async.Dispatch(ctx, func(ctx context.Context) error {
		if err := uc.notifier.PostAssessment(ctx, report); err != nil {
			return goerr.Wrap(err, "failed to notify assessment", goerr.V("report_id", report.ID))
		}
		return nil
	})
}
