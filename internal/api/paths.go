// Package api provides the prediction service client.
package api

// GJSON paths for extracting values from prediction service responses.
const (
	PathAnswer   = "answer"
	PathError    = "error"
	PathQuestion = "question"
	PathMessage  = "message"
)

// maxErrorBody caps how much of a failed response body is kept for diagnostics
const maxErrorBody = 4096
