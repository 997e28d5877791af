package analyzer

// Export internal functions for testing
var (
	BuildUserPrompt     = buildUserPrompt
	BuildResponseSchema = buildResponseSchema
)
