package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/cli"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

func TestReadRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	body := `{
  "profile": {
    "aiModel": "publicApi",
    "dataSensitivity": "pii",
    "accuracyReq": "high"
  },
  "checklist": [
    {"questionId": 1, "answer": "yes"},
    {"questionId": 2, "answer": "no"}
  ]
}`
	gt.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	req, err := cli.ReadRequest(path)
	gt.NoError(t, err)
	gt.V(t, req.Profile.AIModel).Equal(types.HostingPublicAPI)
	gt.A(t, req.Checklist).Length(2)
	gt.V(t, req.Mode()).Equal(types.ModeGapAnalysis)
}

func TestReadRequestErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := cli.ReadRequest(filepath.Join(t.TempDir(), "nope.json"))
		gt.Error(t, err)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		gt.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
		_, err := cli.ReadRequest(path)
		gt.Error(t, err)
	})
}

func TestPrintReport(t *testing.T) {
	report := &model.Report{
		ID:          "0192f0c1-0000-7000-8000-000000000000",
		GeneratedAt: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
		Mode:        types.ModeGapAnalysis,
		Scores: []model.ScoreEntry{
			{
				Category:      types.RiskHallucination,
				BaseScore:     85,
				AdjustedScore: 65,
				Framework:     model.Framework{RefID: "LLM09", Name: "Overreliance"},
			},
		},
		ComplianceScore: 55,
		Gap: &model.GapAnalysis{
			ImplementedControls: 1,
			TotalControls:       2,
			GapPercentage:       50,
			RiskReduction:       20,
		},
		Recommendations: []model.Recommendation{
			{QuestionID: 2, Purpose: "Human review catches fabricated answers", Category: types.RiskHallucination, Weight: 15},
		},
		CatalogVersion: "2026.1",
	}

	var buf bytes.Buffer
	cli.PrintReport(&buf, report)

	out := buf.String()
	gt.S(t, out).Contains(report.ID)
	gt.S(t, out).Contains("LLM09")
	gt.S(t, out).Contains("Compliance score:")
	gt.S(t, out).Contains("Human review catches fabricated answers")
	gt.S(t, out).Contains("Total risk reduction: 20 points")
}
