package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/slack-go/slack"
)

// maxNotifiedRecommendations caps how many missing controls one
// notification lists
const maxNotifiedRecommendations = 5

// client implements Service interface
type client struct {
	api     *slack.Client
	channel string
}

// New creates a new Slack notification service with the provided bot
// token and target channel
func New(token, channel string) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channel == "" {
		return nil, goerr.New("Slack channel is required")
	}

	return &client{
		api:     slack.New(token),
		channel: channel,
	}, nil
}

// PostAssessment posts a Block Kit summary of the report
func (c *client) PostAssessment(ctx context.Context, report *model.Report) error {
	if report == nil {
		return goerr.New("report is required")
	}

	blocks := buildAssessmentBlocks(report)

	_, _, err := c.api.PostMessageContext(ctx, c.channel,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(fmt.Sprintf("AI risk assessment %s completed", report.ID), false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post assessment notification",
			goerr.V("channel", c.channel), goerr.V("report_id", report.ID))
	}

	return nil
}

// buildAssessmentBlocks renders the report summary as Block Kit blocks
func buildAssessmentBlocks(report *model.Report) []slack.Block {
	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, "AI Risk Assessment Completed", false, false),
		),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf(
				"*Mode:* %s\n*Compliance score:* %d/100\n*Report:* %s",
				report.Mode, report.ComplianceScore, report.ID,
			), false, false),
			nil, nil,
		),
	}

	if len(report.Scores) > 0 {
		var sb strings.Builder
		for _, score := range report.Scores {
			fmt.Fprintf(&sb, "• *%s*: %d → %d (%s)\n",
				score.Category, score.BaseScore, score.AdjustedScore, score.Framework.RefID)
		}
		blocks = append(blocks,
			slack.NewDividerBlock(),
			slack.NewSectionBlock(
				slack.NewTextBlockObject(slack.MarkdownType, sb.String(), false, false),
				nil, nil,
			),
		)
	}

	if report.Gap != nil {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf(
				"*Controls:* %d/%d implemented (gap %.1f%%), %d risk points reduced",
				report.Gap.ImplementedControls, report.Gap.TotalControls,
				report.Gap.GapPercentage, report.Gap.RiskReduction,
			), false, false),
			nil, nil,
		))
	}

	if len(report.Recommendations) > 0 {
		var sb strings.Builder
		sb.WriteString("*Top missing controls:*\n")
		for i, rec := range report.Recommendations {
			if i >= maxNotifiedRecommendations {
				fmt.Fprintf(&sb, "… and %d more\n", len(report.Recommendations)-i)
				break
			}
			fmt.Fprintf(&sb, "%d. %s (weight %d)\n", i+1, rec.Purpose, rec.Weight)
		}
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, sb.String(), false, false),
			nil, nil,
		))
	}

	return blocks
}
