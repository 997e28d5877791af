package slack_test

import (
	"testing"

	slacksvc "github.com/secmon-lab/themis/pkg/service/slack"

	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

func TestNew(t *testing.T) {
	t.Run("missing token is rejected", func(t *testing.T) {
		if _, err := slacksvc.New("", "#risk"); err == nil {
			t.Error("expected error for missing token")
		}
	})

	t.Run("missing channel is rejected", func(t *testing.T) {
		if _, err := slacksvc.New("xoxb-test", ""); err == nil {
			t.Error("expected error for missing channel")
		}
	})

	t.Run("valid configuration", func(t *testing.T) {
		svc, err := slacksvc.New("xoxb-test", "#risk")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if svc == nil {
			t.Fatal("service must not be nil")
		}
	})
}

func TestBuildAssessmentBlocks(t *testing.T) {
	report := &model.Report{
		ID:              "report-1",
		Mode:            types.ModeGapAnalysis,
		ComplianceScore: 62,
		Scores: []model.ScoreEntry{
			{Category: types.RiskHallucination, BaseScore: 70, AdjustedScore: 50,
				Framework: model.Framework{RefID: "LLM09"}},
		},
		Gap: &model.GapAnalysis{
			ImplementedControls: 3, TotalControls: 6, GapPercentage: 50, RiskReduction: 20,
		},
		Recommendations: []model.Recommendation{
			{QuestionID: 1, Purpose: "add human review", Weight: 20},
			{QuestionID: 2, Purpose: "ground answers", Weight: 15},
		},
	}

	blocks := slacksvc.BuildAssessmentBlocks(report)

	// header + summary + divider + scores + gap + recommendations
	if len(blocks) != 6 {
		t.Errorf("expected 6 blocks, got %d", len(blocks))
	}
}

func TestBuildAssessmentBlocks_DirectMode(t *testing.T) {
	report := &model.Report{
		ID:              "report-2",
		Mode:            types.ModeDirect,
		ComplianceScore: 40,
		Scores: []model.ScoreEntry{
			{Category: types.RiskDataLeakage, BaseScore: 80, AdjustedScore: 80},
		},
	}

	blocks := slacksvc.BuildAssessmentBlocks(report)

	// header + summary + divider + scores, no gap or recommendations
	if len(blocks) != 4 {
		t.Errorf("expected 4 blocks, got %d", len(blocks))
	}
}
