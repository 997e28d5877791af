package slack

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model"
)

// Service defines the interface for posting assessment notifications
type Service interface {
	// PostAssessment posts a summary of a completed assessment to the
	// configured channel
	PostAssessment(ctx context.Context, report *model.Report) error
}
