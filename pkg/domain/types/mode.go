package types

// AssessmentMode selects the request branch of an assessment
type AssessmentMode string

const (
	// ModeDirect is a direct assessment without a checklist
	ModeDirect AssessmentMode = "direct"
	// ModeGapAnalysis credits implemented controls against base scores
	ModeGapAnalysis AssessmentMode = "gapAnalysis"
)

// String returns the string representation of AssessmentMode
func (m AssessmentMode) String() string {
	return string(m)
}
