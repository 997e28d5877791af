package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// Framework maps a risk category to its external framework reference
type Framework struct {
	Category types.RiskCategory `json:"category"`
	RefID    string             `json:"refId"`
	Name     string             `json:"name"`
}

// Catalog is the static reference data for assessments: the checklist
// question set and the framework lookup table. Loaded once at process
// start and read-only afterwards.
type Catalog struct {
	Version    string
	Questions  []ChecklistQuestion
	Frameworks map[types.RiskCategory]Framework
}

// Validate fails fast on configuration errors that would otherwise
// silently produce a zero-effect gap analysis: an empty question set,
// non-positive IDs or weights, duplicate IDs, or unknown categories.
func (c *Catalog) Validate() error {
	if len(c.Questions) == 0 {
		return goerr.New("checklist catalog must not be empty")
	}

	seen := make(map[int]bool, len(c.Questions))
	for _, q := range c.Questions {
		if q.ID <= 0 {
			return goerr.New("question ID must be positive", goerr.V("id", q.ID))
		}
		if seen[q.ID] {
			return goerr.New("duplicate question ID", goerr.V("id", q.ID))
		}
		seen[q.ID] = true

		if err := q.Category.Validate(); err != nil {
			return goerr.Wrap(err, "invalid question category", goerr.V("id", q.ID))
		}
		if q.Question == "" {
			return goerr.New("question text is required", goerr.V("id", q.ID))
		}
		if q.Weight <= 0 {
			return goerr.New("question weight must be positive",
				goerr.V("id", q.ID), goerr.V("weight", q.Weight))
		}
	}

	for category, fw := range c.Frameworks {
		if err := category.Validate(); err != nil {
			return goerr.Wrap(err, "invalid framework category")
		}
		if fw.RefID == "" || fw.Name == "" {
			return goerr.New("framework reference requires id and name",
				goerr.V("category", category))
		}
	}

	return nil
}

// Framework returns the framework reference for a category. A zero
// Framework is returned when the category has no entry.
func (c *Catalog) Framework(category types.RiskCategory) Framework {
	return c.Frameworks[category]
}

// QuestionsByCategory groups catalog questions by risk category,
// preserving catalog order within each group
func (c *Catalog) QuestionsByCategory() map[types.RiskCategory][]ChecklistQuestion {
	grouped := make(map[types.RiskCategory][]ChecklistQuestion)
	for _, q := range c.Questions {
		grouped[q.Category] = append(grouped[q.Category], q)
	}
	return grouped
}
