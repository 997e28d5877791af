package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/cli/config"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/service/analyzer"
	"github.com/secmon-lab/themis/pkg/service/pdfexport"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdAssess() *cli.Command {
	var input string
	var output string
	var pdfPath string
	var skipAnalysis bool
	var catalogCfg config.Catalog
	var llmCfg config.LLM

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Path to assessment request JSON file (- for stdin)",
			Value:       "-",
			Sources:     cli.EnvVars("THEMIS_ASSESS_INPUT"),
			Destination: &input,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Write the full report JSON to this path",
			Sources:     cli.EnvVars("THEMIS_ASSESS_OUTPUT"),
			Destination: &output,
		},
		&cli.StringFlag{
			Name:        "pdf",
			Usage:       "Write the report PDF to this path",
			Sources:     cli.EnvVars("THEMIS_ASSESS_PDF"),
			Destination: &pdfPath,
		},
		&cli.BoolFlag{
			Name:        "skip-analysis",
			Usage:       "Skip LLM risk analysis even when an LLM is configured",
			Destination: &skipAnalysis,
		},
	}
	flags = append(flags, catalogCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)

	return &cli.Command{
		Name:    "assess",
		Aliases: []string{"a"},
		Usage:   "Run one assessment from a JSON request file",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			catalog, rules, scoring, err := catalogCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load assessment catalog")
			}

			ucOpts := []usecase.Option{
				usecase.WithScoringConfig(scoring),
			}

			if !skipAnalysis {
				llmClient, err := llmCfg.Configure(ctx)
				if err != nil {
					return goerr.Wrap(err, "failed to configure LLM client")
				}
				if llmClient != nil {
					analyzerSvc, err := analyzer.New(llmClient)
					if err != nil {
						return goerr.Wrap(err, "failed to initialize analyzer service")
					}
					ucOpts = append(ucOpts, usecase.WithAnalyzer(analyzerSvc))
				} else {
					logging.Default().Info("LLM not configured, risk analysis will be skipped")
				}
			}

			req, err := readRequest(input)
			if err != nil {
				return err
			}

			uc := usecase.New(catalog, rules, ucOpts...)

			var runOpts []usecase.RunOption
			if skipAnalysis {
				runOpts = append(runOpts, usecase.WithSkipAnalysis())
			}

			report, err := uc.Assessment.Run(ctx, req, runOpts...)
			if err != nil {
				return goerr.Wrap(err, "assessment failed")
			}

			printReport(os.Stdout, report)

			if output != "" {
				data, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return goerr.Wrap(err, "failed to encode report")
				}
				if err := os.WriteFile(output, append(data, '\n'), 0o644); err != nil {
					return goerr.Wrap(err, "failed to write report", goerr.V("path", output))
				}
			}

			if pdfPath != "" {
				data, err := pdfexport.Render(report)
				if err != nil {
					return goerr.Wrap(err, "failed to render PDF")
				}
				if err := os.WriteFile(pdfPath, data, 0o644); err != nil {
					return goerr.Wrap(err, "failed to write PDF", goerr.V("path", pdfPath))
				}
			}

			return nil
		},
	}
}

// readRequest loads an assessment request from a file or stdin
func readRequest(path string) (*model.AssessmentRequest, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read request from stdin")
		}
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read request file", goerr.V("path", path))
		}
	}

	var req model.AssessmentRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, goerr.Wrap(err, "failed to parse request JSON", goerr.V("path", path))
	}

	return &req, nil
}

// printReport writes a human-readable summary of the report
func printReport(w io.Writer, report *model.Report) {
	title := color.New(color.FgCyan, color.Bold)
	label := color.New(color.Bold)

	_, _ = title.Fprintf(w, "AI Risk Assessment %s\n", report.ID)
	_, _ = fmt.Fprintf(w, "Generated: %s  Mode: %s  Catalog: %s\n\n",
		report.GeneratedAt.Format("2006-01-02 15:04:05"), report.Mode, report.CatalogVersion)

	_, _ = label.Fprintln(w, "Risk scores")
	for _, score := range report.Scores {
		c := scoreColor(score.AdjustedScore)
		_, _ = fmt.Fprintf(w, "  %-18s %s", score.Category, c.Sprintf("%3d", score.AdjustedScore))
		if score.AdjustedScore != score.BaseScore {
			_, _ = fmt.Fprintf(w, " (base %d)", score.BaseScore)
		}
		if score.Framework.RefID != "" {
			_, _ = fmt.Fprintf(w, "  [%s %s]", score.Framework.RefID, score.Framework.Name)
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintf(w, "\n%s %d/100\n", label.Sprint("Compliance score:"), report.ComplianceScore)

	if report.Gap != nil {
		_, _ = label.Fprintln(w, "\nGap analysis")
		_, _ = fmt.Fprintf(w, "  Implemented controls: %d/%d (gap %.0f%%)\n",
			report.Gap.ImplementedControls, report.Gap.TotalControls, report.Gap.GapPercentage)
		_, _ = fmt.Fprintf(w, "  Total risk reduction: %d points\n", report.Gap.RiskReduction)
	}

	if len(report.Recommendations) > 0 {
		_, _ = label.Fprintln(w, "\nRecommendations")
		for _, rec := range report.Recommendations {
			_, _ = fmt.Fprintf(w, "  [%2d pts] %s (%s)\n", rec.Weight, rec.Purpose, rec.Category)
		}
	}

	if report.Analysis != nil {
		_, _ = label.Fprintln(w, "\nAnalysis")
		_, _ = fmt.Fprintf(w, "  %s\n  (confidence %.2f)\n", report.Analysis.Summary, report.Analysis.Confidence)
		for _, risk := range report.Analysis.Risks {
			_, _ = fmt.Fprintf(w, "\n  %s: %s\n", risk.Category, risk.Analysis)
			for _, m := range risk.Mitigations {
				_, _ = fmt.Fprintf(w, "    - %s\n", m)
			}
		}
	}
}

// scoreColor maps an adjusted risk score to a severity color
func scoreColor(score int) *color.Color {
	switch {
	case score >= 70:
		return color.New(color.FgRed, color.Bold)
	case score >= 40:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}
