package models

// PredictRequest is the body POSTed to the predict endpoint
type PredictRequest struct {
	Question string `json:"question"`
}

// PredictResponse is the body returned by the predict endpoint.
// Every field is optional: a successful response normally carries Answer,
// a failed one Error.
type PredictResponse struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
	Error    string `json:"error,omitempty"`
}

// HealthResponse is the body returned by the health endpoint
type HealthResponse struct {
	Message string `json:"message"`
}

// Answer is the client-side result of one predict call
type Answer struct {
	Question string
	Text     string
	// ServerError holds an "error" field found in a 2xx body. It does not make
	// the call fail; it only explains why Text is empty.
	ServerError string
}

// HasAnswer reports whether the backend returned a non-empty answer
func (a *Answer) HasAnswer() bool {
	return a != nil && a.Text != ""
}

// Display returns the text the output region should show for this answer
func (a *Answer) Display() string {
	if !a.HasAnswer() {
		return PlaceholderNoAnswer
	}
	return a.Text
}
