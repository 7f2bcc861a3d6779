// Package markdown wires ruby annotations into goldmark: an AST transformer that
// runs the scanner over text nodes after inline parsing, AST nodes for the result,
// and renderers for HTML and the terminal.
package markdown

import (
	"bytes"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

type rubyExtension struct {
	options []Option
}

// Extension adds ruby annotation support with the default markup.
var Extension = NewExtension()

// NewExtension returns a goldmark.Extender with the given hook overrides.
func NewExtension(opts ...Option) goldmark.Extender {
	return &rubyExtension{options: opts}
}

// Extend implements goldmark.Extender.
func (e *rubyExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(NewTransformer(), 500),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(NewHTMLRenderer(e.options...), 500),
	))
}

// Options configures a Renderer.
type Options struct {
	XHTML     bool
	Unsafe    bool
	HardWraps bool
	GFM       bool
	Hooks     []Option
}

// Renderer converts Markdown with ruby notation to HTML.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	return &Renderer{md: newGoldmark(opts)}
}

func newGoldmark(opts Options) goldmark.Markdown {
	extensions := []goldmark.Extender{NewExtension(opts.Hooks...)}
	if opts.GFM {
		extensions = append(extensions, extension.GFM)
	}

	var htmlOpts []renderer.Option
	if opts.XHTML {
		htmlOpts = append(htmlOpts, html.WithXHTML())
	}
	if opts.Unsafe {
		htmlOpts = append(htmlOpts, html.WithUnsafe())
	}
	if opts.HardWraps {
		htmlOpts = append(htmlOpts, html.WithHardWraps())
	}

	return goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithRendererOptions(htmlOpts...),
	)
}

// Render transforms markdown to HTML.
func (r *Renderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderTo(&buf, []byte(markdown)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderTo writes the HTML for source to w.
func (r *Renderer) RenderTo(w io.Writer, source []byte) error {
	return r.md.Convert(source, w)
}

// Parse returns the document tree for source, with ruby nodes in place.
func (r *Renderer) Parse(source []byte) ast.Node {
	return r.md.Parser().Parse(text.NewReader(source))
}
