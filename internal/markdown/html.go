package markdown

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Hook writes the markup for one boundary of a ruby element.
type Hook func(w util.BufWriter, n ast.Node)

// Tag returns a Hook that writes markup verbatim.
func Tag(markup string) Hook {
	return func(w util.BufWriter, _ ast.Node) {
		_, _ = w.WriteString(markup)
	}
}

// Hooks are the six markup boundaries of a rendered annotation:
//
//	<ruby>base<rp>（</rp><rt>reading</rt><rp>）</rp></ruby>
type Hooks struct {
	RubyOpen   Hook
	RubyClose  Hook
	TextOpen   Hook
	TextClose  Hook
	ParenOpen  Hook
	ParenClose Hook
}

// DefaultHooks returns the standard HTML ruby markup.
func DefaultHooks() Hooks {
	return Hooks{
		RubyOpen:   Tag("<ruby>"),
		RubyClose:  Tag("</ruby>"),
		TextOpen:   Tag("<rt>"),
		TextClose:  Tag("</rt>"),
		ParenOpen:  Tag("<rp>"),
		ParenClose: Tag("</rp>"),
	}
}

// Option overrides one or more hooks.
type Option func(*Hooks)

// WithRubyOpen overrides the markup written before the base text.
func WithRubyOpen(h Hook) Option { return func(c *Hooks) { c.RubyOpen = h } }

// WithRubyClose overrides the markup written after the closing fallback paren.
func WithRubyClose(h Hook) Option { return func(c *Hooks) { c.RubyClose = h } }

// WithTextOpen overrides the markup written before the reading.
func WithTextOpen(h Hook) Option { return func(c *Hooks) { c.TextOpen = h } }

// WithTextClose overrides the markup written after the reading.
func WithTextClose(h Hook) Option { return func(c *Hooks) { c.TextClose = h } }

// WithParenOpen overrides the markup written before each fallback paren.
func WithParenOpen(h Hook) Option { return func(c *Hooks) { c.ParenOpen = h } }

// WithParenClose overrides the markup written after each fallback paren.
func WithParenClose(h Hook) Option { return func(c *Hooks) { c.ParenClose = h } }

// HTMLRenderer renders Ruby, RubyText and RubyParen nodes.
// It implements renderer.NodeRenderer.
type HTMLRenderer struct {
	html.Config
	hooks Hooks
}

// NewHTMLRenderer returns an HTMLRenderer using DefaultHooks with opts applied.
func NewHTMLRenderer(opts ...Option) renderer.NodeRenderer {
	r := &HTMLRenderer{
		Config: html.NewConfig(),
		hooks:  DefaultHooks(),
	}
	for _, opt := range opts {
		opt(&r.hooks)
	}
	return r
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *HTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindRuby, r.pair(r.hooks.RubyOpen, r.hooks.RubyClose))
	reg.Register(KindRubyText, r.pair(r.hooks.TextOpen, r.hooks.TextClose))
	reg.Register(KindRubyParen, r.pair(r.hooks.ParenOpen, r.hooks.ParenClose))
}

func (r *HTMLRenderer) pair(enter, leave Hook) renderer.NodeRendererFunc {
	return func(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
		h := leave
		if entering {
			h = enter
		}
		if h != nil {
			h(w, n)
		}
		return ast.WalkContinue, nil
	}
}
