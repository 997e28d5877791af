package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/service/mailer"
	"github.com/secmon-lab/themis/pkg/service/pdfexport"
	"github.com/secmon-lab/themis/pkg/service/slack"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// ErrMailerNotConfigured is returned when email delivery is requested
// but no SMTP configuration was provided
var ErrMailerNotConfigured = goerr.New("email delivery is not configured")

// DeliveryUseCase distributes a finished report over the configured
// outbound channels
type DeliveryUseCase struct {
	mailer   mailer.Service
	notifier slack.Service
}

// NewDeliveryUseCase creates a new DeliveryUseCase instance
func NewDeliveryUseCase(mailerSvc mailer.Service, notifier slack.Service) *DeliveryUseCase {
	return &DeliveryUseCase{
		mailer:   mailerSvc,
		notifier: notifier,
	}
}

// Email sends the plain-text summary of a report, optionally with the
// rendered PDF attached. The send is synchronous; a transport failure
// surfaces to the caller.
func (uc *DeliveryUseCase) Email(ctx context.Context, report *model.Report, recipients []string, attachPDF bool) error {
	if uc.mailer == nil {
		return ErrMailerNotConfigured
	}
	if report == nil {
		return goerr.New("report is required")
	}

	msg := &mailer.Message{
		Recipients: recipients,
		Subject:    fmt.Sprintf("AI Risk Assessment Report %s", report.ID),
		Body:       buildEmailSummary(report),
	}

	if attachPDF {
		data, err := pdfexport.Render(report)
		if err != nil {
			return goerr.Wrap(err, "failed to render PDF attachment")
		}
		msg.Attachment = &mailer.Attachment{
			Filename:    fmt.Sprintf("risk-assessment-%s.pdf", report.ID),
			ContentType: "application/pdf",
			Data:        data,
		}
	}

	if err := uc.mailer.Send(ctx, msg); err != nil {
		return goerr.Wrap(err, "failed to deliver report email", goerr.V("report_id", report.ID))
	}

	return nil
}

// Distribute fans the report out to all configured channels in
// parallel. Email failures surface to the caller; the Slack post is
// best-effort and only logged.
func (uc *DeliveryUseCase) Distribute(ctx context.Context, report *model.Report, recipients []string, attachPDF bool) error {
	g, ctx := errgroup.WithContext(ctx)

	if uc.mailer != nil && len(recipients) > 0 {
		g.Go(func() error {
			return uc.Email(ctx, report, recipients, attachPDF)
		})
	}

	if uc.notifier != nil {
		g.Go(func() error {
			if err := uc.notifier.PostAssessment(ctx, report); err != nil {
				logging.From(ctx).Error("failed to post assessment notification",
					"error", err.Error(), "report_id", report.ID)
			}
			return nil
		})
	}

	return g.Wait()
}

// buildEmailSummary renders the plain-text body of a report email
func buildEmailSummary(report *model.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "AI System Risk Assessment Report %s\n", report.ID)
	fmt.Fprintf(&sb, "Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&sb, "Mode: %s\n\n", report.Mode)

	sb.WriteString("Risk scores:\n")
	for _, score := range report.Scores {
		fmt.Fprintf(&sb, "  %-16s base %3d  adjusted %3d  (%s %s)\n",
			score.Category, score.BaseScore, score.AdjustedScore,
			score.Framework.RefID, score.Framework.Name)
	}
	fmt.Fprintf(&sb, "\nOverall compliance score: %d/100\n", report.ComplianceScore)

	if report.Gap != nil {
		fmt.Fprintf(&sb, "\nGap analysis: %d of %d controls implemented (gap %.1f%%), %d risk points reduced\n",
			report.Gap.ImplementedControls, report.Gap.TotalControls,
			report.Gap.GapPercentage, report.Gap.RiskReduction)
	}

	if len(report.Recommendations) > 0 {
		sb.WriteString("\nRecommended next controls:\n")
		for i, rec := range report.Recommendations {
			fmt.Fprintf(&sb, "  %d. [%s] %s\n", i+1, rec.Category, rec.Purpose)
		}
	}

	if report.Analysis != nil {
		fmt.Fprintf(&sb, "\nAnalysis summary:\n%s\n", report.Analysis.Summary)
	}

	return sb.String()
}
