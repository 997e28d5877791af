package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/cli/config"
	httpctrl "github.com/secmon-lab/themis/pkg/controller/http"
	"github.com/secmon-lab/themis/pkg/service/analyzer"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var catalogCfg config.Catalog
	var llmCfg config.LLM
	var smtpCfg config.SMTP
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("THEMIS_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, catalogCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, smtpCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			catalog, rules, scoring, err := catalogCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load assessment catalog")
			}
			logger.Info("Assessment catalog loaded",
				"catalog", catalogCfg,
				"version", catalog.Version,
				"questions", len(catalog.Questions),
				"rules", len(rules),
			)

			ucOpts := []usecase.Option{
				usecase.WithScoringConfig(scoring),
			}

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
				logger.Info("Risk analyzer enabled", "llm", llmCfg)
			} else {
				logger.Info("LLM not configured, risk analysis will be skipped")
			}

			mailSvc, err := smtpCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure mail service")
			}
			if mailSvc != nil {
				ucOpts = append(ucOpts, usecase.WithMailer(mailSvc))
				logger.Info("Email delivery enabled", "smtp", smtpCfg)
			} else {
				logger.Info("SMTP not configured, email delivery disabled")
			}

			slackSvc, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure Slack service")
			}
			if slackSvc != nil {
				ucOpts = append(ucOpts, usecase.WithNotifier(slackSvc))
				logger.Info("Slack notification enabled", "slack", slackCfg)
			} else {
				logger.Info("Slack not configured, notifications disabled")
			}

			uc := usecase.New(catalog, rules, ucOpts...)

			httpHandler, err := httpctrl.New(uc)
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logger.Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logger.Info("Server shutdown completed")
				return nil
			}
		},
	}
}
