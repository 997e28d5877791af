package types

// ChecklistAnswer is a user-supplied answer to a checklist question
type ChecklistAnswer string

const (
	// AnswerYes means the control is implemented
	AnswerYes ChecklistAnswer = "yes"
	// AnswerNo means the control is not implemented
	AnswerNo ChecklistAnswer = "no"
	// AnswerNA means the control does not apply to this system
	AnswerNA ChecklistAnswer = "na"
)

// IsValid reports whether the answer is one of the recognized values
func (a ChecklistAnswer) IsValid() bool {
	switch a {
	case AnswerYes, AnswerNo, AnswerNA:
		return true
	}
	return false
}

// Implemented reports whether this answer counts as an implemented control.
// Only an exact "yes" counts; malformed answers degrade to not-implemented.
func (a ChecklistAnswer) Implemented() bool {
	return a == AnswerYes
}

// String returns the string representation of ChecklistAnswer
func (a ChecklistAnswer) String() string {
	return string(a)
}

// ControlState classifies the outcome of one checklist question for reporting.
// Scoring only distinguishes implemented from everything else, but the report
// keeps declined, not-applicable and unanswered apart for auditability.
type ControlState string

const (
	ControlImplemented   ControlState = "implemented"
	ControlDeclined      ControlState = "declined"
	ControlNotApplicable ControlState = "notApplicable"
	ControlUnanswered    ControlState = "unanswered"
)

// ControlStateOf derives the reporting state from an answer. The answered
// flag distinguishes a missing entry from an explicit answer; malformed
// answer values are treated as unanswered.
func ControlStateOf(answer ChecklistAnswer, answered bool) ControlState {
	if !answered {
		return ControlUnanswered
	}
	switch answer {
	case AnswerYes:
		return ControlImplemented
	case AnswerNo:
		return ControlDeclined
	case AnswerNA:
		return ControlNotApplicable
	}
	return ControlUnanswered
}

// String returns the string representation of ControlState
func (s ControlState) String() string {
	return string(s)
}
