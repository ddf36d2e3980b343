package render

import "strings"

// Markdown renders markdown content for terminal display.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	return renderer.Render(content)
}

// MarkdownWithWidth renders with default options at the given width.
func MarkdownWithWidth(content string, width int) (string, error) {
	return Markdown(content, DefaultOptions().WithWidth(width))
}

// Answer renders an answer for display, falling back to the raw text when
// markdown rendering fails. Trailing newlines added by glamour are dropped.
func Answer(text string, opts Options) string {
	rendered, err := Markdown(text, opts)
	if err != nil {
		return text
	}
	return strings.TrimRight(rendered, "\n")
}
