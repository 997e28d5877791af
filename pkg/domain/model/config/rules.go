package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// Condition matches one system profile field against an exact value
type Condition struct {
	Field  string
	Equals string
}

// Adjustment shifts a rule's base score when a profile field matches
type Adjustment struct {
	Field  string
	Equals string
	Delta  int
}

// RiskRule maps system profile facts to a base risk score for one
// category. A rule applies when all of its conditions match; a rule
// with no conditions always applies. Rules are evaluated in order and
// the first applicable rule per category wins, so alternatives for the
// same category express an OR over profile values.
type RiskRule struct {
	Category  types.RiskCategory
	BaseScore int
	When      []Condition
	Adjust    []Adjustment
}

// Validate checks one rule for configuration errors
func (r *RiskRule) Validate() error {
	if err := r.Category.Validate(); err != nil {
		return goerr.Wrap(err, "invalid rule category")
	}
	if r.BaseScore < 0 || r.BaseScore > 100 {
		return goerr.New("rule base score must be in [0,100]",
			goerr.V("category", r.Category), goerr.V("base", r.BaseScore))
	}
	for _, cond := range r.When {
		if cond.Field == "" || cond.Equals == "" {
			return goerr.New("rule condition requires field and value",
				goerr.V("category", r.Category))
		}
	}
	for _, adj := range r.Adjust {
		if adj.Field == "" || adj.Equals == "" {
			return goerr.New("rule adjustment requires field and value",
				goerr.V("category", r.Category))
		}
	}
	return nil
}

// ValidateRules checks a whole rule set. An empty rule set is a
// configuration error: every assessment would come out with no
// applicable risks.
func ValidateRules(rules []RiskRule) error {
	if len(rules) == 0 {
		return goerr.New("risk rule set must not be empty")
	}
	for i := range rules {
		if err := rules[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid risk rule", goerr.V("index", i))
		}
	}
	return nil
}
