// Package render provides markdown rendering and color themes for terminal output.
package render

import (
	"os"

	"github.com/diogo/askweb/internal/config"
)

// Options configures the markdown renderer behavior.
type Options struct {
	// Width is the word-wrap column (default: 80)
	Width int

	// Style is a glamour style name ("dark", "light", "notty", ...) or a path to a JSON style
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return FromMarkdownConfig(config.DefaultMarkdownConfig())
}

// FromMarkdownConfig converts the persisted markdown settings into Options
func FromMarkdownConfig(md config.MarkdownConfig) Options {
	opts := Options{
		Width:            80,
		Style:            "dark",
		EnableEmoji:      md.EnableEmoji,
		PreserveNewLines: md.PreserveNewLines,
		TableWrap:        md.TableWrap,
		InlineTableLinks: md.InlineTableLinks,
	}
	if md.Style != "" {
		opts.Style = md.Style
	}
	return opts
}

// OptionsFor returns render options for cfg at the given width.
// GLAMOUR_STYLE takes precedence over the configured style.
func OptionsFor(cfg config.Config, width int) Options {
	opts := FromMarkdownConfig(cfg.Markdown)
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}
	return opts.WithWidth(width)
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	if width > 0 {
		o.Width = width
	}
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}
