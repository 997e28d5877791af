package model

import (
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// ChecklistQuestion is one statically defined control question. The full
// question set is fixed reference data loaded once at startup.
type ChecklistQuestion struct {
	ID       int                `json:"id"`
	Category types.RiskCategory `json:"category"`
	Question string             `json:"question"`
	Purpose  string             `json:"purpose"`
	Weight   int                `json:"weight"`
}

// ChecklistItem is one user-supplied answer keyed by question ID
type ChecklistItem struct {
	QuestionID int                   `json:"questionId"`
	Answer     types.ChecklistAnswer `json:"answer"`
}

// AnswerMap converts a checklist submission into an answer lookup.
// A complete submission has exactly one answer per question ID; if a
// duplicate slips through, the last answer wins.
func AnswerMap(items []ChecklistItem) map[int]types.ChecklistAnswer {
	answers := make(map[int]types.ChecklistAnswer, len(items))
	for _, item := range items {
		answers[item.QuestionID] = item.Answer
	}
	return answers
}
