package markdown

import (
	"bytes"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark/ast"

	"github.com/zjrosen/rubymark/internal/ruby"
)

// noMarginStyle is a JSON style that removes document margins.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// fallbackParser parses with the same extensions glamour enables, so annotations are
// found in the same places glamour will look for text.
var fallbackParser = New(Options{GFM: true})

// FallbackSource rewrites every annotation in a Markdown document as base（reading）
// and returns the new source. Notation inside code spans, code blocks and raw HTML
// is left alone. Returns source itself when there is nothing to rewrite.
func FallbackSource(source []byte) []byte {
	if !bytes.Contains(source, []byte(ruby.Open)) {
		return source
	}

	var nodes []*Ruby
	_ = ast.Walk(fallbackParser.Parse(source), func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if r, ok := n.(*Ruby); ok {
				nodes = append(nodes, r)
				return ast.WalkSkipChildren, nil
			}
		}
		return ast.WalkContinue, nil
	})
	if len(nodes) == 0 {
		return source
	}

	out := make([]byte, 0, len(source)+len(nodes)*2*len(ruby.FallbackOpen))
	pos := 0
	for _, n := range nodes {
		out = append(out, source[pos:n.Raw.Start]...)
		out = append(out, n.Base...)
		out = append(out, ruby.FallbackOpen...)
		out = append(out, n.Reading...)
		out = append(out, ruby.FallbackClose...)
		pos = n.Raw.Stop
	}
	return append(out, source[pos:]...)
}

// TerminalRenderer renders Markdown with ruby notation as styled terminal output.
// Terminals cannot stack text, so annotations use the fallback form.
type TerminalRenderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// NewTerminal creates a terminal renderer with the given width and style.
// style should be "dark", "light", "notty" or a path to a glamour JSON style.
// Defaults to "dark" if empty.
func NewTerminal(width int, style string) (*TerminalRenderer, error) {
	if style == "" {
		style = "dark"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &TerminalRenderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *TerminalRenderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output.
func (r *TerminalRenderer) Render(markdown string) (string, error) {
	return r.renderer.Render(string(FallbackSource([]byte(markdown))))
}
