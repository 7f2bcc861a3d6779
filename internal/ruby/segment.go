// Package ruby scans prose for Aozora Bunko ruby notation (漢字《かんじ》, ｜言葉《ことば》)
// and splits it into plain text and annotation segments.
//
// The scanner knows nothing about Markdown or HTML. It takes one flat string and
// returns tagged data; the host decides how annotations are rendered.
package ruby

import (
	"fmt"
)

// Notation characters.
const (
	Separator = "｜"
	Open      = "《"
	Close     = "》"

	// FallbackOpen and FallbackClose wrap the reading for renderers without ruby support.
	FallbackOpen  = "（"
	FallbackClose = "）"
)

// Kind identifies the type of a Segment.
type Kind int

const (
	KindText Kind = iota
	KindAnnotation
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindAnnotation:
		return "annotation"
	default:
		return "unknown"
	}
}

// Span is a half-open byte range [Start, Stop) into the scanned string.
type Span struct {
	Start int
	Stop  int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.Stop - s.Start
}

// Segment is one piece of a scanned string.
//
// A KindText segment carries Text verbatim. A KindAnnotation segment carries Base
// and Reading, both non-empty, with their positions in BaseSpan and ReadingSpan.
// Span always covers the bytes of the input the segment replaces, including the
// separator and marker characters of an annotation.
type Segment struct {
	Kind        Kind
	Span        Span
	Text        string
	Base        string
	Reading     string
	BaseSpan    Span
	ReadingSpan Span
}

// String renders the segment for logs and test failures.
func (s Segment) String() string {
	if s.Kind == KindAnnotation {
		return fmt.Sprintf("Annotation(base=%q, reading=%q)", s.Base, s.Reading)
	}
	return fmt.Sprintf("Text(%q)", s.Text)
}

// Literal returns the characters the segment contributes to reconstructed text:
// the text itself, or base followed by reading for an annotation.
func (s Segment) Literal() string {
	if s.Kind == KindAnnotation {
		return s.Base + s.Reading
	}
	return s.Text
}

func textSegment(src string, start, stop int) Segment {
	return Segment{
		Kind: KindText,
		Span: Span{Start: start, Stop: stop},
		Text: src[start:stop],
	}
}
