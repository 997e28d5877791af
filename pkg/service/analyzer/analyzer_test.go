package analyzer_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/service/analyzer"
)

// mockLLMSession is a mock gollem Session for testing
type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{Texts: []string{"{}"}}, nil
}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

// mockLLMClient is a mock gollem LLMClient for testing
type mockLLMClient struct {
	sessionCount int
	newSessionFn func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	c.sessionCount++
	if c.newSessionFn != nil {
		return c.newSessionFn(ctx, options...)
	}
	return &mockLLMSession{}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

// respondWith builds a mock client whose sessions always return the
// given text
func respondWith(text string) *mockLLMClient {
	return &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{Texts: []string{text}}, nil
				},
			}, nil
		},
	}
}

func testInput() *analyzer.Input {
	return &analyzer.Input{
		Profile: model.SystemProfile{
			AIModel:         types.HostingPublicAPI,
			UseCase:         types.UseCaseCustomerFacing,
			DataSensitivity: types.SensitivityPII,
			Industry:        types.IndustryFinance,
			AccuracyReq:     types.AccuracyHigh,
		},
		Mode: types.ModeGapAnalysis,
		Scores: []model.ScoreEntry{
			{
				Category:      types.RiskDataLeakage,
				BaseScore:     80,
				AdjustedScore: 55,
				Framework: model.Framework{
					Category: types.RiskDataLeakage,
					RefID:    "LLM06",
					Name:     "Sensitive Information Disclosure",
				},
			},
		},
		Gap: &model.GapAnalysis{
			ImplementedControls: 2,
			TotalControls:       4,
			GapPercentage:       50,
			RiskReduction:       25,
		},
		Recommendations: []model.Recommendation{
			{
				QuestionID: 9,
				Purpose:    "Prevent sensitive data from reaching the model provider",
				Category:   types.RiskDataLeakage,
				Weight:     25,
				State:      types.ControlDeclined,
			},
		},
	}
}

func TestNew(t *testing.T) {
	t.Run("nil LLM client is rejected", func(t *testing.T) {
		_, err := analyzer.New(nil)
		gt.Error(t, err)
	})
}

func TestBuildUserPrompt(t *testing.T) {
	prompt := analyzer.BuildUserPrompt(testInput())

	for _, want := range []string{
		"publicApi",
		"dataLeakage",
		"LLM06",
		"Base score: 80/100",
		"Adjusted score: 55/100",
		"Implemented controls: 2 of 4",
		"Prevent sensitive data from reaching the model provider",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt should contain %q:\n%s", want, prompt)
		}
	}
}

func TestBuildUserPrompt_DirectMode(t *testing.T) {
	input := testInput()
	input.Mode = types.ModeDirect
	input.Gap = nil
	input.Recommendations = nil

	prompt := analyzer.BuildUserPrompt(input)
	if strings.Contains(prompt, "Gap Analysis") {
		t.Error("direct mode prompt should not contain a gap section")
	}
	if strings.Contains(prompt, "Missing Controls") {
		t.Error("direct mode prompt should not contain missing controls")
	}
}

func TestBuildResponseSchema(t *testing.T) {
	schema := analyzer.BuildResponseSchema()
	if schema == nil {
		t.Fatal("schema must not be nil")
	}

	for _, field := range []string{"summary", "confidence", "risks"} {
		if _, ok := schema.Properties[field]; !ok {
			t.Errorf("schema should declare %q", field)
		}
	}
}

func TestAnalyze(t *testing.T) {
	validResponse := `{
  "summary": "Data leakage dominates the residual risk.",
  "confidence": 0.9,
  "risks": [
    {
      "category": "dataLeakage",
      "analysis": "PII flows to a public API without full redaction coverage.",
      "mitigations": ["Redact PII before prompts leave the boundary"]
    }
  ]
}`

	t.Run("valid response", func(t *testing.T) {
		mock := respondWith(validResponse)
		svc, err := analyzer.New(mock)
		gt.NoError(t, err).Required()

		analysis, err := svc.Analyze(context.Background(), testInput())
		gt.NoError(t, err).Required()
		gt.V(t, analysis.Confidence).Equal(0.9)
		gt.A(t, analysis.Risks).Length(1)
		gt.V(t, analysis.Risks[0].Category).Equal(types.RiskDataLeakage)
		gt.N(t, mock.sessionCount).Equal(1)
	})

	t.Run("transient failure recovers on retry", func(t *testing.T) {
		mock := &mockLLMClient{}
		mock.newSessionFn = func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			if mock.sessionCount == 1 {
				return nil, errors.New("transient failure")
			}
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{Texts: []string{validResponse}}, nil
				},
			}, nil
		}
		svc, err := analyzer.New(mock)
		gt.NoError(t, err).Required()

		analysis, err := svc.Analyze(context.Background(), testInput())
		gt.NoError(t, err).Required()
		gt.A(t, analysis.Risks).Length(1)
		gt.N(t, mock.sessionCount).Equal(2)
	})

	t.Run("persistent failure is unreachable after one retry", func(t *testing.T) {
		mock := &mockLLMClient{
			newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
				return nil, errors.New("connection refused")
			},
		}
		svc, err := analyzer.New(mock)
		gt.NoError(t, err).Required()

		_, err = svc.Analyze(context.Background(), testInput())
		gt.Error(t, err)
		if !errors.Is(err, analyzer.ErrUnreachable) {
			t.Errorf("expected ErrUnreachable, got %v", err)
		}
		gt.N(t, mock.sessionCount).Equal(2)
	})

	t.Run("cancelled context is not retried", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		mock := &mockLLMClient{
			newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
				cancel()
				return nil, context.Canceled
			},
		}
		svc, err := analyzer.New(mock)
		gt.NoError(t, err).Required()

		_, err = svc.Analyze(ctx, testInput())
		gt.Error(t, err)
		if !errors.Is(err, analyzer.ErrUnreachable) {
			t.Errorf("expected ErrUnreachable, got %v", err)
		}
		gt.N(t, mock.sessionCount).Equal(1)
	})

	t.Run("non-JSON response is malformed", func(t *testing.T) {
		mock := respondWith("the risk posture looks fine to me")
		svc, err := analyzer.New(mock)
		gt.NoError(t, err).Required()

		_, err = svc.Analyze(context.Background(), testInput())
		gt.Error(t, err)
		if !errors.Is(err, analyzer.ErrMalformed) {
			t.Errorf("expected ErrMalformed, got %v", err)
		}
		gt.N(t, mock.sessionCount).Equal(1)
	})

	t.Run("low confidence is rejected", func(t *testing.T) {
		mock := respondWith(`{"summary": "unsure", "confidence": 0.1, "risks": []}`)
		svc, err := analyzer.New(mock)
		gt.NoError(t, err).Required()

		_, err = svc.Analyze(context.Background(), testInput())
		gt.Error(t, err)
		if !errors.Is(err, analyzer.ErrLowConfidence) {
			t.Errorf("expected ErrLowConfidence, got %v", err)
		}
	})

	t.Run("confidence threshold is configurable", func(t *testing.T) {
		mock := respondWith(`{"summary": "unsure", "confidence": 0.1, "risks": []}`)
		svc, err := analyzer.New(mock, analyzer.WithMinConfidence(0.05))
		gt.NoError(t, err).Required()

		analysis, err := svc.Analyze(context.Background(), testInput())
		gt.NoError(t, err).Required()
		gt.V(t, analysis.Confidence).Equal(0.1)
	})

	t.Run("unknown category is dropped", func(t *testing.T) {
		mock := respondWith(`{
  "summary": "mixed",
  "confidence": 0.8,
  "risks": [
    {"category": "dataLeakage", "analysis": "known", "mitigations": []},
    {"category": "modelTheft", "analysis": "unknown", "mitigations": []}
  ]
}`)
		svc, err := analyzer.New(mock)
		gt.NoError(t, err).Required()

		analysis, err := svc.Analyze(context.Background(), testInput())
		gt.NoError(t, err).Required()
		gt.A(t, analysis.Risks).Length(1)
		gt.V(t, analysis.Risks[0].Category).Equal(types.RiskDataLeakage)
	})
}

func TestAnalyze_WithRealGemini(t *testing.T) {
	projectID := os.Getenv("TEST_GEMINI_PROJECT")
	if projectID == "" {
		t.Skip("TEST_GEMINI_PROJECT not set")
	}
	location := os.Getenv("TEST_GEMINI_LOCATION")
	if location == "" {
		t.Skip("TEST_GEMINI_LOCATION not set")
	}

	ctx := context.Background()

	llmClient, err := gemini.New(ctx, projectID, location)
	gt.NoError(t, err).Required()

	svc, err := analyzer.New(llmClient)
	gt.NoError(t, err).Required()

	analysis, err := svc.Analyze(ctx, testInput())
	gt.NoError(t, err).Required()

	gt.String(t, analysis.Summary).NotEqual("")
	gt.Number(t, len(analysis.Risks)).GreaterOrEqual(1)
	for _, risk := range analysis.Risks {
		gt.Bool(t, risk.Category.IsValid()).True()
		gt.String(t, risk.Analysis).NotEqual("")
	}
}
