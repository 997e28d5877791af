package usecase

import (
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/model/config"
	"github.com/secmon-lab/themis/pkg/service/analyzer"
	"github.com/secmon-lab/themis/pkg/service/mailer"
	"github.com/secmon-lab/themis/pkg/service/slack"
)

// UseCases bundles the application use cases with their shared
// collaborators and configuration
type UseCases struct {
	catalog    *model.Catalog
	rules      []config.RiskRule
	scoringCfg *config.ScoringConfig
	analyzer   analyzer.Service
	mailer     mailer.Service
	notifier   slack.Service

	Assessment *AssessmentUseCase
	Delivery   *DeliveryUseCase
}

// Option is a functional option for UseCases configuration
type Option func(*UseCases)

// WithAnalyzer sets the LLM analysis service. Without it, assessments
// run the deterministic pipeline only.
func WithAnalyzer(svc analyzer.Service) Option {
	return func(uc *UseCases) {
		uc.analyzer = svc
	}
}

// WithMailer enables email delivery of reports
func WithMailer(svc mailer.Service) Option {
	return func(uc *UseCases) {
		uc.mailer = svc
	}
}

// WithNotifier enables Slack notification of completed assessments
func WithNotifier(svc slack.Service) Option {
	return func(uc *UseCases) {
		uc.notifier = svc
	}
}

// WithScoringConfig overrides the default scoring constants
func WithScoringConfig(cfg *config.ScoringConfig) Option {
	return func(uc *UseCases) {
		uc.scoringCfg = cfg
	}
}

// New creates the use cases for a loaded catalog and rule set
func New(catalog *model.Catalog, rules []config.RiskRule, opts ...Option) *UseCases {
	uc := &UseCases{
		catalog:    catalog,
		rules:      rules,
		scoringCfg: config.DefaultScoringConfig(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Assessment = NewAssessmentUseCase(catalog, rules, uc.scoringCfg, uc.analyzer, uc.notifier)
	uc.Delivery = NewDeliveryUseCase(uc.mailer, uc.notifier)

	return uc
}

// Catalog returns the loaded reference data
func (uc *UseCases) Catalog() *model.Catalog {
	return uc.catalog
}

// MailerEnabled reports whether email delivery is configured
func (uc *UseCases) MailerEnabled() bool {
	return uc.mailer != nil
}

// NotifierEnabled reports whether Slack notification is configured
func (uc *UseCases) NotifierEnabled() bool {
	return uc.notifier != nil
}

// AnalyzerEnabled reports whether LLM analysis is configured
func (uc *UseCases) AnalyzerEnabled() bool {
	return uc.analyzer != nil
}
