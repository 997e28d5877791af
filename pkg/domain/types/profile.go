package types

import (
	"github.com/m-mizutani/goerr/v2"
)

// HostingType describes how the AI model is hosted
type HostingType string

const (
	HostingSelfHosted   HostingType = "selfHosted"
	HostingManagedCloud HostingType = "managedCloud"
	HostingPublicAPI    HostingType = "publicApi"
	HostingFineTuned    HostingType = "fineTuned"
)

// Validate checks if the HostingType is a recognized value
func (h HostingType) Validate() error {
	switch h {
	case HostingSelfHosted, HostingManagedCloud, HostingPublicAPI, HostingFineTuned:
		return nil
	case "":
		return goerr.New("aiModel is required")
	}
	return goerr.New("unknown aiModel value", goerr.V("value", h))
}

// String returns the string representation of HostingType
func (h HostingType) String() string {
	return string(h)
}

// UseCase describes what the AI system is used for
type UseCase string

const (
	UseCaseCustomerFacing    UseCase = "customerFacing"
	UseCaseInternalTools     UseCase = "internalTools"
	UseCaseDecisionSupport   UseCase = "decisionSupport"
	UseCaseContentGeneration UseCase = "contentGeneration"
	UseCaseGeneral           UseCase = "general"
)

// Normalize maps an empty use case to the general default
func (u UseCase) Normalize() UseCase {
	if u == "" {
		return UseCaseGeneral
	}
	return u
}

// Validate checks if the UseCase is a recognized value
func (u UseCase) Validate() error {
	switch u {
	case UseCaseCustomerFacing, UseCaseInternalTools, UseCaseDecisionSupport,
		UseCaseContentGeneration, UseCaseGeneral:
		return nil
	}
	return goerr.New("unknown useCase value", goerr.V("value", u))
}

// String returns the string representation of UseCase
func (u UseCase) String() string {
	return string(u)
}

// DataSensitivity classifies the data the AI system handles
type DataSensitivity string

const (
	SensitivityPublic       DataSensitivity = "public"
	SensitivityInternal     DataSensitivity = "internal"
	SensitivityConfidential DataSensitivity = "confidential"
	SensitivityPII          DataSensitivity = "pii"
	SensitivityRegulated    DataSensitivity = "regulated"
)

// Validate checks if the DataSensitivity is a recognized value
func (d DataSensitivity) Validate() error {
	switch d {
	case SensitivityPublic, SensitivityInternal, SensitivityConfidential,
		SensitivityPII, SensitivityRegulated:
		return nil
	case "":
		return goerr.New("dataSensitivity is required")
	}
	return goerr.New("unknown dataSensitivity value", goerr.V("value", d))
}

// String returns the string representation of DataSensitivity
func (d DataSensitivity) String() string {
	return string(d)
}

// Industry is the organization's business domain
type Industry string

const (
	IndustryFinance       Industry = "finance"
	IndustryHealthcare    Industry = "healthcare"
	IndustryLegal         Industry = "legal"
	IndustryTechnology    Industry = "technology"
	IndustryManufacturing Industry = "manufacturing"
	IndustryRetail        Industry = "retail"
	IndustryEducation     Industry = "education"
	IndustryGovernment    Industry = "government"
	IndustryOther         Industry = "other"
)

// Normalize maps an empty industry to other
func (i Industry) Normalize() Industry {
	if i == "" {
		return IndustryOther
	}
	return i
}

// Validate checks if the Industry is a recognized value
func (i Industry) Validate() error {
	switch i {
	case IndustryFinance, IndustryHealthcare, IndustryLegal, IndustryTechnology,
		IndustryManufacturing, IndustryRetail, IndustryEducation,
		IndustryGovernment, IndustryOther:
		return nil
	}
	return goerr.New("unknown industry value", goerr.V("value", i))
}

// String returns the string representation of Industry
func (i Industry) String() string {
	return string(i)
}

// AccuracyRequirement is how strict the correctness requirement is
type AccuracyRequirement string

const (
	AccuracyBestEffort AccuracyRequirement = "bestEffort"
	AccuracyHigh       AccuracyRequirement = "high"
	AccuracyCritical   AccuracyRequirement = "critical"
)

// Validate checks if the AccuracyRequirement is a recognized value
func (a AccuracyRequirement) Validate() error {
	switch a {
	case AccuracyBestEffort, AccuracyHigh, AccuracyCritical:
		return nil
	case "":
		return goerr.New("accuracyReq is required")
	}
	return goerr.New("unknown accuracyReq value", goerr.V("value", a))
}

// String returns the string representation of AccuracyRequirement
func (a AccuracyRequirement) String() string {
	return string(a)
}
