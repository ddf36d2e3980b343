package render

import (
	"strings"
	"testing"

	"github.com/diogo/askweb/internal/config"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Width != 80 {
		t.Errorf("expected Width=80, got %d", opts.Width)
	}
	if opts.Style != "dark" {
		t.Errorf("expected Style='dark', got %s", opts.Style)
	}
	if !opts.EnableEmoji || !opts.PreserveNewLines || !opts.TableWrap {
		t.Errorf("unexpected defaults: %+v", opts)
	}
	if opts.InlineTableLinks {
		t.Error("expected InlineTableLinks=false")
	}
}

func TestOptionsWithWidth(t *testing.T) {
	if got := DefaultOptions().WithWidth(120).Width; got != 120 {
		t.Errorf("expected Width=120, got %d", got)
	}
	if got := DefaultOptions().WithWidth(0).Width; got != 80 {
		t.Errorf("non-positive width should keep the default, got %d", got)
	}
}

func TestOptionsFor(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Markdown.Style = "light"
	cfg.Markdown.EnableEmoji = false

	opts := OptionsFor(cfg, 60)
	if opts.Style != "light" || opts.Width != 60 || opts.EnableEmoji {
		t.Errorf("OptionsFor() = %+v", opts)
	}

	t.Setenv("GLAMOUR_STYLE", "notty")
	if got := OptionsFor(cfg, 60).Style; got != "notty" {
		t.Errorf("GLAMOUR_STYLE should win, got %s", got)
	}
}

func TestFromMarkdownConfig_EmptyStyle(t *testing.T) {
	md := config.DefaultMarkdownConfig()
	md.Style = ""
	if got := FromMarkdownConfig(md).Style; got != "dark" {
		t.Errorf("empty style should fall back to dark, got %s", got)
	}
}

func TestMarkdown(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		width    int
		contains string
	}{
		{"heading", "# Hello World", 80, "Hello"},
		{"bold", "This is **bold** text", 80, "bold"},
		{"list", "- first\n- second", 80, "second"},
		{"narrow width", "# Long heading that should wrap", 40, "Long"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output, err := Markdown(tc.input, DefaultOptions().WithWidth(tc.width))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(output, tc.contains) {
				t.Errorf("output should contain %q, got: %s", tc.contains, output)
			}
		})
	}
}

func TestMarkdownInvalidStyle(t *testing.T) {
	_, err := Markdown("# Test", DefaultOptions().WithStyle("nonexistent_style_path"))
	if err == nil {
		t.Error("expected error for invalid style path")
	}
}

func TestAnswer(t *testing.T) {
	out := Answer("Paris", DefaultOptions().WithStyle("notty"))
	if !strings.Contains(out, "Paris") {
		t.Errorf("Answer() = %q", out)
	}
	if strings.HasSuffix(out, "\n") {
		t.Error("Answer() should trim trailing newlines")
	}

	// Rendering failure falls back to the raw text
	raw := Answer("**raw**", DefaultOptions().WithStyle("nonexistent_style_path"))
	if raw != "**raw**" {
		t.Errorf("Answer() fallback = %q", raw)
	}
}

func TestRendererPool(t *testing.T) {
	ClearCache()
	if CacheSize() != 0 {
		t.Fatalf("CacheSize() after clear = %d", CacheSize())
	}

	opts := DefaultOptions().WithStyle("notty")
	for i := 0; i < 3; i++ {
		if _, err := Markdown("x", opts); err != nil {
			t.Fatalf("Markdown() error: %v", err)
		}
	}
	if CacheSize() != 1 {
		t.Errorf("CacheSize() = %d, want 1", CacheSize())
	}

	if _, err := Markdown("x", opts.WithWidth(40)); err != nil {
		t.Fatalf("Markdown() error: %v", err)
	}
	if CacheSize() != 2 {
		t.Errorf("CacheSize() = %d, want 2", CacheSize())
	}
}
