package cli

// Exported for tests
var (
	ReadRequest = readRequest
	PrintReport = printReport
)
