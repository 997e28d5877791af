package config

import (
	_ "embed"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	domainConfig "github.com/secmon-lab/themis/pkg/domain/model/config"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

//go:embed data/catalog.toml
var defaultCatalogTOML []byte

// Catalog holds the assessment catalog configuration: checklist
// questions, framework references, risk scoring rules, and scoring
// constants. Loaded from a TOML file, with a built-in default.
type Catalog struct {
	path string
}

// CatalogFile is the TOML representation of the assessment catalog
type CatalogFile struct {
	Version    string      `toml:"version"`
	Scoring    ScoringFile `toml:"scoring"`
	Questions  []Question  `toml:"question"`
	Frameworks []Framework `toml:"framework"`
	Rules      []Rule      `toml:"rule"`
}

// ScoringFile holds the scoring constants section
type ScoringFile struct {
	ScoreFloor        *int `toml:"score_floor"`
	ComplianceFloor   *int `toml:"compliance_floor"`
	ComplianceCeiling *int `toml:"compliance_ceiling"`
	ReductionDivisor  *int `toml:"reduction_divisor"`
}

// Question represents one checklist question entry
type Question struct {
	ID       int    `toml:"id"`
	Category string `toml:"category"`
	Question string `toml:"question"`
	Purpose  string `toml:"purpose"`
	Weight   int    `toml:"weight"`
}

// Framework represents one framework reference entry
type Framework struct {
	Category string `toml:"category"`
	RefID    string `toml:"ref_id"`
	Name     string `toml:"name"`
}

// Rule represents one risk scoring rule entry
type Rule struct {
	Category string           `toml:"category"`
	Base     int              `toml:"base"`
	When     []RuleCondition  `toml:"when"`
	Adjust   []RuleAdjustment `toml:"adjust"`
}

// RuleCondition matches one profile field against an exact value
type RuleCondition struct {
	Field  string `toml:"field"`
	Equals string `toml:"equals"`
}

// RuleAdjustment shifts the base score when a profile field matches
type RuleAdjustment struct {
	Field  string `toml:"field"`
	Equals string `toml:"equals"`
	Delta  int    `toml:"delta"`
}

// Flags returns CLI flags for catalog configuration
func (x *Catalog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog",
			Usage:       "Path to assessment catalog TOML file (built-in default if empty)",
			Category:    "Catalog",
			Sources:     cli.EnvVars("THEMIS_CATALOG"),
			Destination: &x.path,
		},
	}
}

// LogValue returns log attributes for the catalog configuration
func (x Catalog) LogValue() slog.Value {
	path := x.path
	if path == "" {
		path = "(built-in)"
	}
	return slog.GroupValue(slog.String("path", path))
}

// Path returns the configured catalog file path, empty for the
// built-in default
func (x *Catalog) Path() string {
	return x.path
}

// Configure loads and validates the catalog, returning its domain
// representations.
func (x *Catalog) Configure() (*model.Catalog, []domainConfig.RiskRule, *domainConfig.ScoringConfig, error) {
	data := defaultCatalogTOML
	if x.path != "" {
		raw, err := os.ReadFile(x.path)
		if err != nil {
			return nil, nil, nil, goerr.Wrap(err, "failed to read catalog file", goerr.V("path", x.path))
		}
		data = raw
	}

	file, err := ParseCatalog(data)
	if err != nil {
		return nil, nil, nil, goerr.Wrap(err, "failed to load catalog", goerr.V("path", x.path))
	}

	catalog := file.ToCatalog()
	if err := catalog.Validate(); err != nil {
		return nil, nil, nil, goerr.Wrap(err, "catalog validation failed", goerr.V("path", x.path))
	}

	rules := file.ToRules()
	if err := domainConfig.ValidateRules(rules); err != nil {
		return nil, nil, nil, goerr.Wrap(err, "rule validation failed", goerr.V("path", x.path))
	}

	scoring := file.ToScoringConfig()
	if err := scoring.Validate(); err != nil {
		return nil, nil, nil, goerr.Wrap(err, "scoring validation failed", goerr.V("path", x.path))
	}

	return catalog, rules, scoring, nil
}

// ParseCatalog parses a TOML catalog document
func ParseCatalog(data []byte) (*CatalogFile, error) {
	var file CatalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidCatalogFile, "failed to parse TOML", goerr.V("cause", err.Error()))
	}
	if file.Version == "" {
		return nil, goerr.Wrap(ErrInvalidCatalogFile, "catalog version is required")
	}
	return &file, nil
}

// ToCatalog converts the file representation to the domain catalog
func (f *CatalogFile) ToCatalog() *model.Catalog {
	questions := make([]model.ChecklistQuestion, len(f.Questions))
	for i, q := range f.Questions {
		questions[i] = model.ChecklistQuestion{
			ID:       q.ID,
			Category: types.RiskCategory(q.Category),
			Question: q.Question,
			Purpose:  q.Purpose,
			Weight:   q.Weight,
		}
	}

	frameworks := make(map[types.RiskCategory]model.Framework, len(f.Frameworks))
	for _, fw := range f.Frameworks {
		category := types.RiskCategory(fw.Category)
		frameworks[category] = model.Framework{
			Category: category,
			RefID:    fw.RefID,
			Name:     fw.Name,
		}
	}

	return &model.Catalog{
		Version:    f.Version,
		Questions:  questions,
		Frameworks: frameworks,
	}
}

// ToRules converts the file representation to the domain rule set,
// preserving file order
func (f *CatalogFile) ToRules() []domainConfig.RiskRule {
	rules := make([]domainConfig.RiskRule, len(f.Rules))
	for i, r := range f.Rules {
		when := make([]domainConfig.Condition, len(r.When))
		for j, c := range r.When {
			when[j] = domainConfig.Condition{Field: c.Field, Equals: c.Equals}
		}
		adjust := make([]domainConfig.Adjustment, len(r.Adjust))
		for j, a := range r.Adjust {
			adjust[j] = domainConfig.Adjustment{Field: a.Field, Equals: a.Equals, Delta: a.Delta}
		}
		rules[i] = domainConfig.RiskRule{
			Category:  types.RiskCategory(r.Category),
			BaseScore: r.Base,
			When:      when,
			Adjust:    adjust,
		}
	}
	return rules
}

// ToScoringConfig converts the scoring section to the domain scoring
// configuration. Unset fields keep their defaults.
func (f *CatalogFile) ToScoringConfig() *domainConfig.ScoringConfig {
	cfg := domainConfig.DefaultScoringConfig()
	if f.Scoring.ScoreFloor != nil {
		cfg.ScoreFloor = *f.Scoring.ScoreFloor
	}
	if f.Scoring.ComplianceFloor != nil {
		cfg.ComplianceFloor = *f.Scoring.ComplianceFloor
	}
	if f.Scoring.ComplianceCeiling != nil {
		cfg.ComplianceCeiling = *f.Scoring.ComplianceCeiling
	}
	if f.Scoring.ReductionDivisor != nil {
		cfg.ReductionDivisor = *f.Scoring.ReductionDivisor
	}
	return cfg
}
