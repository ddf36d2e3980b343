package inference

import (
	"fmt"
	"strings"
)

// ResponseMarker separates the prompt from the generated answer
const ResponseMarker = "### Response:"

const promptTemplate = `Below is an instruction that describes a task, paired with an input that provides further context. Write a response that appropriately completes the request.

### Instruction:
Answer the following question in Arabic:

### Input:
%s

` + ResponseMarker + "\n"

// FormatPrompt wraps question in the instruction template the model was tuned on
func FormatPrompt(question string) string {
	return fmt.Sprintf(promptTemplate, question)
}

// ExtractAnswer returns the text following the first response marker, up to
// the next one if the model produced several. Output without a marker is
// returned whole. Both are trimmed.
func ExtractAnswer(generated string) string {
	parts := strings.Split(generated, ResponseMarker)
	if len(parts) < 2 {
		return strings.TrimSpace(generated)
	}
	return strings.TrimSpace(parts[1])
}
