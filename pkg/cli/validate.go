package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/cli/config"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var catalogCfg config.Catalog

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the assessment catalog file",
		Flags:   catalogCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			catalog, rules, scoring, err := catalogCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "catalog validation failed")
			}

			logger.Info("Catalog validation passed",
				"catalog", catalogCfg,
				"version", catalog.Version,
				"question_count", len(catalog.Questions),
				"framework_count", len(catalog.Frameworks),
				"rule_count", len(rules),
			)

			for category, questions := range catalog.QuestionsByCategory() {
				fw := catalog.Framework(category)
				logger.Info("Category validated",
					"category", category,
					"question_count", len(questions),
					"framework", fw.RefID,
				)
			}

			logger.Info("Scoring configuration",
				"score_floor", scoring.ScoreFloor,
				"compliance_floor", scoring.ComplianceFloor,
				"compliance_ceiling", scoring.ComplianceCeiling,
				"reduction_divisor", scoring.ReductionDivisor,
			)

			return nil
		},
	}
}
