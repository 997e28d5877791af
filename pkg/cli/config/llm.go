package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/urfave/cli/v3"
)

// LLM holds configuration for the LLM client used by the risk analyzer
type LLM struct {
	provider      string
	geminiProject string
	geminiLoc     string
	openaiAPIKey  string
}

// Flags returns CLI flags for LLM configuration
func (x *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-provider",
			Usage:       "LLM provider for risk analysis [gemini|openai]",
			Category:    "LLM",
			Value:       "gemini",
			Sources:     cli.EnvVars("THEMIS_LLM_PROVIDER"),
			Destination: &x.provider,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini API",
			Category:    "LLM",
			Sources:     cli.EnvVars("THEMIS_GEMINI_PROJECT"),
			Destination: &x.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Category:    "LLM",
			Value:       "us-central1",
			Sources:     cli.EnvVars("THEMIS_GEMINI_LOCATION"),
			Destination: &x.geminiLoc,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key",
			Category:    "LLM",
			Sources:     cli.EnvVars("THEMIS_OPENAI_API_KEY"),
			Destination: &x.openaiAPIKey,
		},
	}
}

// LogValue returns log attributes for the LLM configuration
func (x LLM) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("provider", x.provider),
		slog.String("gemini_project", x.geminiProject),
		slog.String("gemini_location", x.geminiLoc),
		slog.Bool("openai_key_set", x.openaiAPIKey != ""),
	)
}

// Configure creates a new LLM client from the configured flags.
// Returns nil if no credentials are configured (risk analysis will be
// skipped).
func (x *LLM) Configure(ctx context.Context) (gollem.LLMClient, error) {
	switch x.provider {
	case "gemini":
		if x.geminiProject == "" {
			return nil, nil
		}
		client, err := gemini.New(ctx, x.geminiProject, x.geminiLoc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Gemini client")
		}
		return client, nil

	case "openai":
		if x.openaiAPIKey == "" {
			return nil, nil
		}
		client, err := openai.New(ctx, x.openaiAPIKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create OpenAI client")
		}
		return client, nil

	default:
		return nil, goerr.Wrap(ErrInvalidLLMConfig, "unknown provider", goerr.V("provider", x.provider))
	}
}
