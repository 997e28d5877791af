package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/model/config"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/service/analyzer"
	"github.com/secmon-lab/themis/pkg/usecase"
)

// mockAnalyzer is a mock implementation of analyzer.Service
type mockAnalyzer struct {
	analysis   *model.Analysis
	err        error
	callCount  int
	lastInput  *analyzer.Input
	inputCheck func(*analyzer.Input)
}

func (m *mockAnalyzer) Analyze(_ context.Context, input *analyzer.Input) (*model.Analysis, error) {
	m.callCount++
	m.lastInput = input
	if m.inputCheck != nil {
		m.inputCheck(input)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.analysis, nil
}

// mockNotifier is a mock implementation of slack.Service
type mockNotifier struct {
	posted chan *model.Report
	err    error
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{posted: make(chan *model.Report, 1)}
}

func (m *mockNotifier) PostAssessment(_ context.Context, report *model.Report) error {
	if m.err != nil {
		return m.err
	}
	m.posted <- report
	return nil
}

func testCatalog() *model.Catalog {
	return &model.Catalog{
		Version: "test",
		Questions: []model.ChecklistQuestion{
			{ID: 1, Category: types.RiskHallucination, Question: "human review?", Purpose: "catch wrong outputs", Weight: 20},
			{ID: 2, Category: types.RiskHallucination, Question: "grounding?", Purpose: "anchor answers to sources", Weight: 15},
			{ID: 3, Category: types.RiskDataLeakage, Question: "redaction?", Purpose: "keep PII out of prompts", Weight: 25},
		},
		Frameworks: map[types.RiskCategory]model.Framework{
			types.RiskHallucination: {Category: types.RiskHallucination, RefID: "LLM09", Name: "Overreliance"},
			types.RiskDataLeakage:   {Category: types.RiskDataLeakage, RefID: "LLM06", Name: "Sensitive Information Disclosure"},
		},
	}
}

func testRules() []config.RiskRule {
	return []config.RiskRule{
		{Category: types.RiskHallucination, BaseScore: 70},
		{
			Category:  types.RiskDataLeakage,
			BaseScore: 80,
			When:      []config.Condition{{Field: "dataSensitivity", Equals: "pii"}},
		},
	}
}

func testRequest() *model.AssessmentRequest {
	return &model.AssessmentRequest{
		Profile: model.SystemProfile{
			AIModel:         types.HostingPublicAPI,
			UseCase:         types.UseCaseCustomerFacing,
			DataSensitivity: types.SensitivityPII,
			Industry:        types.IndustryFinance,
			AccuracyReq:     types.AccuracyHigh,
		},
	}
}

func TestAssessmentUseCase_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("direct assessment without analyzer", func(t *testing.T) {
		uc := usecase.New(testCatalog(), testRules())

		report, err := uc.Assessment.Run(ctx, testRequest())
		gt.NoError(t, err).Required()

		gt.Value(t, report.Mode).Equal(types.ModeDirect)
		gt.Number(t, len(report.Scores)).Equal(2)
		if report.Gap != nil {
			t.Error("direct mode should not produce a gap analysis")
		}
		if report.Analysis != nil {
			t.Error("no analyzer configured, analysis must be absent")
		}
		if report.ID == "" {
			t.Error("report must carry an ID")
		}

		// direct mode: adjusted == base, no reduction bonus
		for _, score := range report.Scores {
			gt.Number(t, score.AdjustedScore).Equal(score.BaseScore)
		}
		// 100 - (70+80)/2 = 25
		gt.Number(t, report.ComplianceScore).Equal(25)
	})

	t.Run("gap analysis branch credits implemented controls", func(t *testing.T) {
		uc := usecase.New(testCatalog(), testRules())

		req := testRequest()
		req.Checklist = []model.ChecklistItem{
			{QuestionID: 1, Answer: types.AnswerYes},
			{QuestionID: 2, Answer: types.AnswerNo},
			{QuestionID: 3, Answer: types.AnswerYes},
		}

		report, err := uc.Assessment.Run(ctx, req)
		gt.NoError(t, err).Required()

		gt.Value(t, report.Mode).Equal(types.ModeGapAnalysis)
		gt.Number(t, report.Gap.RiskReduction).Equal(45)
		gt.Number(t, report.Gap.ImplementedControls).Equal(2)

		scores := make(map[types.RiskCategory]model.ScoreEntry)
		for _, entry := range report.Scores {
			scores[entry.Category] = entry
		}
		gt.Number(t, scores[types.RiskHallucination].AdjustedScore).Equal(50)
		gt.Number(t, scores[types.RiskDataLeakage].AdjustedScore).Equal(55)
		gt.Value(t, scores[types.RiskDataLeakage].Framework.RefID).Equal("LLM06")

		// One recommendation for the declined control
		gt.Number(t, len(report.Recommendations)).Equal(1)
		gt.Number(t, report.Recommendations[0].QuestionID).Equal(2)
		gt.Value(t, report.Recommendations[0].State).Equal(types.ControlDeclined)
	})

	t.Run("rule table excludes inapplicable categories", func(t *testing.T) {
		uc := usecase.New(testCatalog(), testRules())

		req := testRequest()
		req.Profile.DataSensitivity = types.SensitivityPublic

		report, err := uc.Assessment.Run(ctx, req)
		gt.NoError(t, err).Required()

		gt.Number(t, len(report.Scores)).Equal(1)
		gt.Value(t, report.Scores[0].Category).Equal(types.RiskHallucination)
	})

	t.Run("analyzer result is attached", func(t *testing.T) {
		mock := &mockAnalyzer{
			analysis: &model.Analysis{Summary: "all fine", Confidence: 0.9},
			inputCheck: func(input *analyzer.Input) {
				if len(input.Scores) == 0 {
					t.Error("analyzer input should carry scores")
				}
			},
		}
		uc := usecase.New(testCatalog(), testRules(), usecase.WithAnalyzer(mock))

		report, err := uc.Assessment.Run(ctx, testRequest())
		gt.NoError(t, err).Required()

		gt.Number(t, mock.callCount).Equal(1)
		gt.Value(t, report.Analysis.Summary).Equal("all fine")
	})

	t.Run("analyzer failure is terminal, not substituted", func(t *testing.T) {
		mock := &mockAnalyzer{err: analyzer.ErrUnreachable}
		uc := usecase.New(testCatalog(), testRules(), usecase.WithAnalyzer(mock))

		report, err := uc.Assessment.Run(ctx, testRequest())
		if report != nil {
			t.Error("no report must be returned on analyzer failure")
		}
		if !errors.Is(err, analyzer.ErrUnreachable) {
			t.Errorf("error should wrap ErrUnreachable: %v", err)
		}
	})

	t.Run("skip analysis option bypasses the analyzer", func(t *testing.T) {
		mock := &mockAnalyzer{analysis: &model.Analysis{Summary: "unused"}}
		uc := usecase.New(testCatalog(), testRules(), usecase.WithAnalyzer(mock))

		report, err := uc.Assessment.Run(ctx, testRequest(), usecase.WithSkipAnalysis())
		gt.NoError(t, err).Required()

		gt.Number(t, mock.callCount).Equal(0)
		if report.Analysis != nil {
			t.Error("analysis must be absent when skipped")
		}
	})

	t.Run("invalid request is rejected", func(t *testing.T) {
		uc := usecase.New(testCatalog(), testRules())

		req := testRequest()
		req.Profile.AIModel = "mainframe"

		_, err := uc.Assessment.Run(ctx, req)
		if !errors.Is(err, model.ErrInvalidRequest) {
			t.Errorf("error should wrap ErrInvalidRequest: %v", err)
		}
	})

	t.Run("nil request is rejected", func(t *testing.T) {
		uc := usecase.New(testCatalog(), testRules())
		if _, err := uc.Assessment.Run(ctx, nil); !errors.Is(err, model.ErrInvalidRequest) {
			t.Errorf("error should wrap ErrInvalidRequest: %v", err)
		}
	})

	t.Run("notifier is invoked asynchronously", func(t *testing.T) {
		notifier := newMockNotifier()
		uc := usecase.New(testCatalog(), testRules(), usecase.WithNotifier(notifier))

		report, err := uc.Assessment.Run(ctx, testRequest())
		gt.NoError(t, err).Required()

		select {
		case posted := <-notifier.posted:
			gt.Value(t, posted.ID).Equal(report.ID)
		case <-time.After(time.Second):
			t.Error("notification was not posted")
		}
	})

	t.Run("notifier failure does not fail the assessment", func(t *testing.T) {
		notifier := newMockNotifier()
		notifier.err = errors.New("slack down")
		uc := usecase.New(testCatalog(), testRules(), usecase.WithNotifier(notifier))

		_, err := uc.Assessment.Run(ctx, testRequest())
		gt.NoError(t, err)
	})
}
