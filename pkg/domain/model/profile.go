package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// SystemProfile is the set of structured facts about the AI system under
// assessment. Every recognized field and its valid value set is enumerated
// in pkg/domain/types; unknown values are rejected, never silently defaulted.
type SystemProfile struct {
	AIModel         types.HostingType         `json:"aiModel"`
	UseCase         types.UseCase             `json:"useCase"`
	DataSensitivity types.DataSensitivity     `json:"dataSensitivity"`
	Industry        types.Industry            `json:"industry"`
	AccuracyReq     types.AccuracyRequirement `json:"accuracyReq"`
}

// Normalize fills the optional fields with their documented defaults.
// Required fields are left as-is for Validate to reject.
func (p *SystemProfile) Normalize() {
	p.UseCase = p.UseCase.Normalize()
	p.Industry = p.Industry.Normalize()
}

// Validate checks every profile field against its valid value set
func (p *SystemProfile) Validate() error {
	if err := p.AIModel.Validate(); err != nil {
		return goerr.Wrap(err, "invalid profile", goerr.V("field", "aiModel"))
	}
	if err := p.UseCase.Validate(); err != nil {
		return goerr.Wrap(err, "invalid profile", goerr.V("field", "useCase"))
	}
	if err := p.DataSensitivity.Validate(); err != nil {
		return goerr.Wrap(err, "invalid profile", goerr.V("field", "dataSensitivity"))
	}
	if err := p.Industry.Validate(); err != nil {
		return goerr.Wrap(err, "invalid profile", goerr.V("field", "industry"))
	}
	if err := p.AccuracyReq.Validate(); err != nil {
		return goerr.Wrap(err, "invalid profile", goerr.V("field", "accuracyReq"))
	}
	return nil
}

// FieldValue resolves a profile field by its wire name. Used by the risk
// rule table, whose match conditions reference fields by name.
func (p *SystemProfile) FieldValue(name string) (string, bool) {
	switch name {
	case "aiModel":
		return p.AIModel.String(), true
	case "useCase":
		return p.UseCase.String(), true
	case "dataSensitivity":
		return p.DataSensitivity.String(), true
	case "industry":
		return p.Industry.String(), true
	case "accuracyReq":
		return p.AccuracyReq.String(), true
	}
	return "", false
}
