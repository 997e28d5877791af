package types

import (
	"github.com/m-mizutani/goerr/v2"
)

// RiskCategory identifies one of the fixed AI risk classes
type RiskCategory string

const (
	RiskHallucination   RiskCategory = "hallucination"
	RiskPromptInjection RiskCategory = "promptInjection"
	RiskDataLeakage     RiskCategory = "dataLeakage"
)

// RiskCategories returns all risk categories in their canonical order
func RiskCategories() []RiskCategory {
	return []RiskCategory{
		RiskHallucination,
		RiskPromptInjection,
		RiskDataLeakage,
	}
}

// IsValid reports whether the category is a member of the fixed set
func (c RiskCategory) IsValid() bool {
	switch c {
	case RiskHallucination, RiskPromptInjection, RiskDataLeakage:
		return true
	}
	return false
}

// Validate checks if the RiskCategory is valid
func (c RiskCategory) Validate() error {
	if c == "" {
		return goerr.New("risk category cannot be empty")
	}
	if !c.IsValid() {
		return goerr.New("unknown risk category", goerr.V("category", c))
	}
	return nil
}

// String returns the string representation of RiskCategory
func (c RiskCategory) String() string {
	return string(c)
}
