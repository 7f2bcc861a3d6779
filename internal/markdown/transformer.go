package markdown

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/zjrosen/rubymark/internal/log"
	"github.com/zjrosen/rubymark/internal/ruby"
)

// Transformer rewrites ruby notation in text nodes once inline parsing is done.
// It implements parser.ASTTransformer.
type Transformer struct{}

// NewTransformer returns a Transformer.
func NewTransformer() *Transformer {
	return &Transformer{}
}

// Transform implements parser.ASTTransformer.
func (t *Transformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	containers, rewritten := 0, 0

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if skipChildren(n) {
			return ast.WalkSkipChildren, nil
		}
		if !hasTextChild(n) {
			return ast.WalkContinue, nil
		}

		containers++
		children, changed := Rewrite(childList(n), source)
		if changed {
			rewritten++
			n.RemoveChildren(n)
			for _, c := range children {
				n.AppendChild(n, c)
			}
		}
		return ast.WalkContinue, nil
	})

	if rewritten > 0 {
		log.Debug(log.CatRender, "ruby transform", "containers", containers, "rewritten", rewritten)
	}
}

// skipChildren reports whether n holds content the notation must not reach into.
func skipChildren(n ast.Node) bool {
	switch n.Kind() {
	case ast.KindCodeSpan, ast.KindRawHTML, ast.KindImage,
		ast.KindCodeBlock, ast.KindFencedCodeBlock, ast.KindHTMLBlock,
		KindRuby:
		return true
	}
	return false
}

func hasTextChild(n ast.Node) bool {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Kind() == ast.KindText {
			return true
		}
	}
	return false
}

func childList(n ast.Node) []ast.Node {
	children := make([]ast.Node, 0, n.ChildCount())
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		children = append(children, c)
	}
	return children
}

// Rewrite scans the text of one inline container's children. It returns children
// itself when nothing matched, otherwise a new list in which matching text is replaced
// by text and Ruby nodes. Nodes that are not plain text pass through untouched.
//
// The parser may split one stretch of prose into several adjacent text nodes (at a
// failed link or autolink, for example), so contiguous text nodes are scanned as one.
func Rewrite(children []ast.Node, source []byte) ([]ast.Node, bool) {
	var out []ast.Node
	changed := false

	for i := 0; i < len(children); {
		j := textRunEnd(children, i)
		var replacement []ast.Node
		if j > i {
			start := children[i].(*ast.Text).Segment.Start
			last := children[j-1].(*ast.Text)
			if segs, found := ruby.Scan(string(source[start:last.Segment.Stop])); found {
				replacement = splitText(start, last, segs)
			}
		} else {
			j = i + 1
		}

		if replacement == nil {
			if changed {
				out = append(out, children[i:j]...)
			}
			i = j
			continue
		}
		if !changed {
			out = make([]ast.Node, 0, len(children)+len(replacement))
			out = append(out, children[:i]...)
			changed = true
		}
		out = append(out, replacement...)
		i = j
	}

	if !changed {
		return children, false
	}
	return out, true
}

// scannable returns n as a text node whose value is exactly its source range.
func scannable(n ast.Node) (*ast.Text, bool) {
	t, ok := n.(*ast.Text)
	if !ok || t.IsRaw() || t.Segment.Padding != 0 {
		return nil, false
	}
	return t, true
}

// textRunEnd returns the end (exclusive) of the run of source-contiguous text nodes
// starting at children[i], or i if children[i] is not scannable text.
func textRunEnd(children []ast.Node, i int) int {
	prev, ok := scannable(children[i])
	if !ok {
		return i
	}
	j := i + 1
	for ; j < len(children); j++ {
		t, ok := scannable(children[j])
		if !ok || prev.SoftLineBreak() || prev.HardLineBreak() || prev.Segment.Stop != t.Segment.Start {
			break
		}
		prev = t
	}
	return j
}

// splitText builds the nodes replacing a text run starting at off in the source and
// ending with last. Segment spans are relative to off.
func splitText(off int, last *ast.Text, segs []ruby.Segment) []ast.Node {
	at := func(s ruby.Span) text.Segment {
		return text.NewSegment(off+s.Start, off+s.Stop)
	}

	nodes := make([]ast.Node, 0, len(segs)+1)
	var tail *ast.Text
	for _, seg := range segs {
		if seg.Kind == ruby.KindText {
			tail = ast.NewTextSegment(at(seg.Span))
			nodes = append(nodes, tail)
			continue
		}
		tail = nil

		n := NewRuby()
		n.Raw = at(seg.Span)
		n.Base = seg.Base
		n.Reading = seg.Reading
		n.AppendChild(n, ast.NewTextSegment(at(seg.BaseSpan)))
		n.AppendChild(n, NewRubyParen(ruby.FallbackOpen))
		rt := NewRubyText()
		rt.AppendChild(rt, ast.NewTextSegment(at(seg.ReadingSpan)))
		n.AppendChild(n, rt)
		n.AppendChild(n, NewRubyParen(ruby.FallbackClose))
		nodes = append(nodes, n)
	}

	// The line break that ended the run now belongs after the last piece.
	if last.SoftLineBreak() || last.HardLineBreak() {
		if tail == nil {
			tail = ast.NewTextSegment(text.NewSegment(last.Segment.Stop, last.Segment.Stop))
			nodes = append(nodes, tail)
		}
		tail.SetSoftLineBreak(last.SoftLineBreak())
		tail.SetHardLineBreak(last.HardLineBreak())
	}
	return nodes
}
