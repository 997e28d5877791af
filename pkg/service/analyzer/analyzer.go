package analyzer

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

//go:embed prompt/system.md
var systemPrompt string

const (
	// DefaultTimeout bounds one generation attempt
	DefaultTimeout = 60 * time.Second
	// DefaultMinConfidence is the lowest acceptable self-reported confidence
	DefaultMinConfidence = 0.3
)

// client implements Service interface
type client struct {
	llmClient     gollem.LLMClient
	timeout       time.Duration
	minConfidence float64
}

// Option is a functional option for client configuration
type Option func(*client)

// WithTimeout sets the per-attempt generation timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *client) {
		c.timeout = timeout
	}
}

// WithMinConfidence sets the confidence threshold below which the
// analysis is rejected as low-confidence
func WithMinConfidence(threshold float64) Option {
	return func(c *client) {
		c.minConfidence = threshold
	}
}

// New creates a new analysis service with the provided LLM client
func New(llmClient gollem.LLMClient, opts ...Option) (Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &client{
		llmClient:     llmClient,
		timeout:       DefaultTimeout,
		minConfidence: DefaultMinConfidence,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Analyze generates risk analysis text for a completed assessment. It
// makes at most two attempts (one retry on transient failure); a
// persistent failure surfaces as ErrUnreachable, a parse failure as
// ErrMalformed, both terminal for the caller.
func (c *client) Analyze(ctx context.Context, input *Input) (*model.Analysis, error) {
	if input == nil {
		return nil, goerr.Wrap(ErrMalformed, "analysis input is required")
	}

	userPrompt := buildUserPrompt(input)
	logger := logging.From(ctx)

	raw, err := c.generate(ctx, userPrompt)
	if err != nil {
		if ctx.Err() != nil {
			return nil, goerr.Wrap(ErrUnreachable, err.Error())
		}
		logger.Warn("analysis generation failed, retrying once", "error", err.Error())
		raw, err = c.generate(ctx, userPrompt)
		if err != nil {
			return nil, goerr.Wrap(ErrUnreachable, err.Error())
		}
	}

	var resp llmResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, goerr.Wrap(ErrMalformed, err.Error(), goerr.V("response", raw))
	}

	if resp.Confidence < c.minConfidence {
		return nil, goerr.Wrap(ErrLowConfidence, "confidence below threshold",
			goerr.V("confidence", resp.Confidence),
			goerr.V("threshold", c.minConfidence))
	}

	analysis := &model.Analysis{
		Summary:    resp.Summary,
		Confidence: resp.Confidence,
	}
	for _, risk := range resp.Risks {
		category := types.RiskCategory(risk.Category)
		if !category.IsValid() {
			logger.Warn("dropping unknown category in analysis response", "category", risk.Category)
			continue
		}
		analysis.Risks = append(analysis.Risks, model.RiskAnalysis{
			Category:    category,
			Analysis:    risk.Analysis,
			Mitigations: risk.Mitigations,
		})
	}

	return analysis, nil
}

// generate runs one schema-constrained generation attempt under the
// configured timeout
func (c *client) generate(ctx context.Context, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildResponseSchema()),
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(userPrompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate analysis content")
	}
	if len(resp.Texts) == 0 {
		return "", goerr.New("LLM returned no content")
	}

	return resp.Texts[0], nil
}

// buildUserPrompt renders the assessment facts for the LLM
func buildUserPrompt(input *Input) string {
	var sb strings.Builder

	sb.WriteString("## System Profile\n\n")
	fmt.Fprintf(&sb, "- Hosting: %s\n", input.Profile.AIModel)
	fmt.Fprintf(&sb, "- Use case: %s\n", input.Profile.UseCase)
	fmt.Fprintf(&sb, "- Data sensitivity: %s\n", input.Profile.DataSensitivity)
	fmt.Fprintf(&sb, "- Industry: %s\n", input.Profile.Industry)
	fmt.Fprintf(&sb, "- Accuracy requirement: %s\n", input.Profile.AccuracyReq)
	fmt.Fprintf(&sb, "- Assessment mode: %s\n\n", input.Mode)

	sb.WriteString("## Risk Scores\n\n")
	for _, score := range input.Scores {
		fmt.Fprintf(&sb, "### %s (%s %s)\n", score.Category, score.Framework.RefID, score.Framework.Name)
		fmt.Fprintf(&sb, "- Base score: %d/100\n", score.BaseScore)
		fmt.Fprintf(&sb, "- Adjusted score: %d/100\n\n", score.AdjustedScore)
	}

	if input.Gap != nil {
		sb.WriteString("## Gap Analysis\n\n")
		fmt.Fprintf(&sb, "- Implemented controls: %d of %d\n", input.Gap.ImplementedControls, input.Gap.TotalControls)
		fmt.Fprintf(&sb, "- Gap percentage: %.1f%%\n", input.Gap.GapPercentage)
		fmt.Fprintf(&sb, "- Total risk reduction achieved: %d points\n\n", input.Gap.RiskReduction)
	}

	if len(input.Recommendations) > 0 {
		sb.WriteString("## Missing Controls (highest impact first)\n\n")
		for _, rec := range input.Recommendations {
			fmt.Fprintf(&sb, "- [%s, weight %d, %s] %s\n", rec.Category, rec.Weight, rec.State, rec.Purpose)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// buildResponseSchema creates the JSON schema for structured output
func buildResponseSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "RiskAnalysisResponse",
		Description: "Free-text risk analysis grounded on deterministic scores",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"summary": {
				Type:        gollem.TypeString,
				Description: "Executive summary of the overall risk posture",
				Required:    true,
			},
			"confidence": {
				Type:        gollem.TypeNumber,
				Description: "Self-reported confidence between 0 and 1",
				Required:    true,
			},
			"risks": {
				Type:        gollem.TypeArray,
				Description: "Per-category analysis, one entry per scored category",
				Required:    true,
				Items: &gollem.Parameter{
					Type: gollem.TypeObject,
					Properties: map[string]*gollem.Parameter{
						"category": {
							Type:        gollem.TypeString,
							Description: "Risk category identifier from the input",
							Required:    true,
						},
						"analysis": {
							Type:        gollem.TypeString,
							Description: "Why this risk applies and what the score implies",
							Required:    true,
						},
						"mitigations": {
							Type:        gollem.TypeArray,
							Description: "Concrete mitigations, most impactful first",
							Items:       &gollem.Parameter{Type: gollem.TypeString},
							Required:    true,
						},
					},
				},
			},
		},
	}
}
