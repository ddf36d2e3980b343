// Package models contains data types and constants for the prediction API.
package models

// Endpoints for the prediction API, relative to the configured base URL
const (
	DefaultBaseURL = "http://localhost:8000"
	PathPredict    = "/predict"
	PathHealth     = "/"
)

// Placeholder texts shown in the output region. They are displayed as-is,
// never translated at runtime.
const (
	// PlaceholderInitial is the output region's content before any answer
	PlaceholderInitial = "الإجابة ستظهر هنا..."
	// PlaceholderSearching is shown while a request is in flight
	PlaceholderSearching = "جاري البحث عن الإجابة..."
	// PlaceholderNoAnswer is shown when the backend answered without an answer field
	PlaceholderNoAnswer = "لم يتم العثور على إجابة واضحة."
)

// Fixed user-facing messages
const (
	MessageEmptyQuestion = "Please enter a question."
	MessageFetchFailed   = "Error fetching answer"
)

// JSONHeaders returns the headers sent with every predict request
func JSONHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
}
