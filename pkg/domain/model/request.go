package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// ErrInvalidRequest marks assessment requests rejected by validation
var ErrInvalidRequest = goerr.New("invalid assessment request")

// AssessmentRequest is one assessment submission. The presence of a
// checklist selects the gap analysis branch.
type AssessmentRequest struct {
	Profile   SystemProfile   `json:"profile"`
	Checklist []ChecklistItem `json:"checklist,omitempty"`
}

// Mode returns the request branch implied by the submission
func (r *AssessmentRequest) Mode() types.AssessmentMode {
	if len(r.Checklist) > 0 {
		return types.ModeGapAnalysis
	}
	return types.ModeDirect
}

// Validate normalizes optional profile fields and rejects unknown values
// with field-level errors. Checklist answers are deliberately not
// validated here: malformed answers degrade to not-implemented during
// scoring instead of failing the request.
func (r *AssessmentRequest) Validate() error {
	r.Profile.Normalize()
	if err := r.Profile.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidRequest, err.Error())
	}

	for _, item := range r.Checklist {
		if item.QuestionID <= 0 {
			return goerr.Wrap(ErrInvalidRequest, "checklist question ID must be positive",
				goerr.V("questionId", item.QuestionID))
		}
	}

	return nil
}
