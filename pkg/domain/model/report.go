package model

import (
	"time"

	"github.com/secmon-lab/themis/pkg/domain/types"
)

// ScoreEntry is the scoring result for one risk category
type ScoreEntry struct {
	Category      types.RiskCategory `json:"category"`
	BaseScore     int                `json:"baseScore"`
	AdjustedScore int                `json:"adjustedScore"`
	Framework     Framework          `json:"framework"`
}

// ControlStatus is the derived implementation status of one checklist question
type ControlStatus struct {
	QuestionID  int                `json:"questionId"`
	Implemented bool               `json:"implemented"`
	State       types.ControlState `json:"state"`
	Category    types.RiskCategory `json:"category"`
	Weight      int                `json:"weight"`
}

// GapAnalysis is the structured gap report produced by crediting
// implemented controls against base risk scores
type GapAnalysis struct {
	ImplementedControls int                        `json:"implementedControls"`
	TotalControls       int                        `json:"totalControls"`
	GapPercentage       float64                    `json:"gapPercentage"`
	RiskReduction       int                        `json:"riskReduction"`
	CategoryReduction   map[types.RiskCategory]int `json:"categoryReduction"`
	Controls            []ControlStatus            `json:"controls"`
}

// Recommendation is one gap-closing suggestion, derived from a
// not-implemented checklist question
type Recommendation struct {
	QuestionID int                `json:"questionId"`
	Purpose    string             `json:"questionPurpose"`
	Category   types.RiskCategory `json:"category"`
	Weight     int                `json:"weight"`
	State      types.ControlState `json:"state"`
}

// RiskAnalysis is the LLM-generated analysis text for one category
type RiskAnalysis struct {
	Category    types.RiskCategory `json:"category"`
	Analysis    string             `json:"analysis"`
	Mitigations []string           `json:"mitigations"`
}

// Analysis is the free-text result obtained from the external
// text-generation service. Opaque pass-through as far as the scorer
// is concerned.
type Analysis struct {
	Summary    string         `json:"summary"`
	Confidence float64        `json:"confidence"`
	Risks      []RiskAnalysis `json:"risks"`
}

// Report is the full assessment result returned to the caller. Created
// fresh per request and never stored.
type Report struct {
	ID              string               `json:"id"`
	GeneratedAt     time.Time            `json:"generatedAt"`
	Mode            types.AssessmentMode `json:"mode"`
	Profile         SystemProfile        `json:"profile"`
	Scores          []ScoreEntry         `json:"scores"`
	ComplianceScore int                  `json:"complianceScore"`
	Gap             *GapAnalysis         `json:"gapAnalysis,omitempty"`
	Recommendations []Recommendation     `json:"recommendations,omitempty"`
	Analysis        *Analysis            `json:"analysis,omitempty"`
	CatalogVersion  string               `json:"catalogVersion"`
}
