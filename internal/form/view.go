// Package form implements the question form: one request/response cycle per
// submit, rendered through a View.
package form

// View is the set of display regions the controller drives
type View interface {
	// Alert notifies the user synchronously, e.g. for an empty question.
	Alert(message string)
	// SetSubmitEnabled enables or disables the submit control.
	SetSubmitEnabled(enabled bool)
	// SetLoading swaps the submit affordance for the loading indicator.
	SetLoading(loading bool)
	// SetError shows or hides the error region.
	SetError(visible bool, message string)
	// SetOutput replaces the output region. placeholder marks informational
	// text (searching, no answer, initial) as opposed to a real answer.
	SetOutput(text string, placeholder bool)
}

// StateView is an in-memory View. Terminal front ends render from it.
type StateView struct {
	SubmitEnabled bool
	Loading       bool
	ErrorVisible  bool
	ErrorMessage  string
	Output        string
	OutputIsHint  bool
	LastAlert     string
	Alerts        int
}

// NewStateView returns a view in the idle state with the initial placeholder
func NewStateView(initialOutput string) *StateView {
	return &StateView{
		SubmitEnabled: true,
		Output:        initialOutput,
		OutputIsHint:  true,
	}
}

func (v *StateView) Alert(message string) {
	v.LastAlert = message
	v.Alerts++
}

func (v *StateView) SetSubmitEnabled(enabled bool) { v.SubmitEnabled = enabled }

func (v *StateView) SetLoading(loading bool) { v.Loading = loading }

func (v *StateView) SetError(visible bool, message string) {
	v.ErrorVisible = visible
	if visible {
		v.ErrorMessage = message
	} else {
		v.ErrorMessage = ""
	}
}

func (v *StateView) SetOutput(text string, placeholder bool) {
	v.Output = text
	v.OutputIsHint = placeholder
}

// DismissAlert clears the pending alert
func (v *StateView) DismissAlert() {
	v.LastAlert = ""
}
