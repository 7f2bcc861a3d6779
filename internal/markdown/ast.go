package markdown

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Ruby is an annotated run of text. Its children are, in order: the base text,
// a RubyParen holding （, a RubyText holding the reading, and a RubyParen holding ）.
type Ruby struct {
	ast.BaseInline

	// Raw covers the notation in the source, separator and markers included.
	Raw     text.Segment
	Base    string
	Reading string
}

// KindRuby is the NodeKind of Ruby.
var KindRuby = ast.NewNodeKind("Ruby")

// Kind implements ast.Node.
func (n *Ruby) Kind() ast.NodeKind {
	return KindRuby
}

// Dump implements ast.Node.
func (n *Ruby) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Base":    n.Base,
		"Reading": n.Reading,
	}, nil)
}

// NewRuby returns an empty Ruby node.
func NewRuby() *Ruby {
	return &Ruby{}
}

// RubyText holds the reading (the <rt> element).
type RubyText struct {
	ast.BaseInline
}

// KindRubyText is the NodeKind of RubyText.
var KindRubyText = ast.NewNodeKind("RubyText")

// Kind implements ast.Node.
func (n *RubyText) Kind() ast.NodeKind {
	return KindRubyText
}

// Dump implements ast.Node.
func (n *RubyText) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// NewRubyText returns an empty RubyText node.
func NewRubyText() *RubyText {
	return &RubyText{}
}

// RubyParen holds a fallback parenthesis (the <rp> element).
type RubyParen struct {
	ast.BaseInline
}

// KindRubyParen is the NodeKind of RubyParen.
var KindRubyParen = ast.NewNodeKind("RubyParen")

// Kind implements ast.Node.
func (n *RubyParen) Kind() ast.NodeKind {
	return KindRubyParen
}

// Dump implements ast.Node.
func (n *RubyParen) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// NewRubyParen returns a RubyParen node containing paren.
func NewRubyParen(paren string) *RubyParen {
	n := &RubyParen{}
	n.AppendChild(n, ast.NewString([]byte(paren)))
	return n
}
