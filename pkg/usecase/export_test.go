package usecase

// Export internal functions for testing
var BuildEmailSummary = buildEmailSummary
