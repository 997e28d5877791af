package analyzer

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// Service defines the interface for obtaining free-text risk analysis
// from an external text-generation service
type Service interface {
	// Analyze generates the per-category analysis and mitigation text for
	// an assessment. The returned analysis never substitutes canned
	// content: failures surface as one of the sentinel errors below.
	Analyze(ctx context.Context, input *Input) (*model.Analysis, error)
}

// Input carries the deterministic assessment results the analysis is
// grounded on
type Input struct {
	Profile         model.SystemProfile
	Mode            types.AssessmentMode
	Scores          []model.ScoreEntry
	Gap             *model.GapAnalysis
	Recommendations []model.Recommendation
}

// Sentinel errors distinguishing why an analysis could not be obtained.
// Callers surface these instead of silently substituting default
// content, so a delivery failure is never masked from the end user.
var (
	// ErrUnreachable means the service did not answer within the timeout
	// even after one retry
	ErrUnreachable = goerr.New("analysis service unreachable")
	// ErrMalformed means the service answered but the payload did not
	// match the expected structure
	ErrMalformed = goerr.New("analysis service returned malformed data")
	// ErrLowConfidence means the service reported confidence below the
	// configured threshold
	ErrLowConfidence = goerr.New("analysis service returned low-confidence data")
)

// llmResponse is the structured output from the LLM
type llmResponse struct {
	Summary    string          `json:"summary"`
	Confidence float64         `json:"confidence"`
	Risks      []llmRiskDetail `json:"risks"`
}

// llmRiskDetail is the analysis for one risk category
type llmRiskDetail struct {
	Category    string   `json:"category"`
	Analysis    string   `json:"analysis"`
	Mitigations []string `json:"mitigations"`
}
