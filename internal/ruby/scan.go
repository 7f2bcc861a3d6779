package ruby

import (
	"strings"
)

// HasMarker reports whether text contains an open marker and is worth scanning.
func HasMarker(text string) bool {
	return strings.Contains(text, Open)
}

// Scan splits text into plain text and annotation segments, in input order.
//
// Two forms are recognized, tried in this order at every position:
//
//	｜base《reading》  explicit; base is the shortest run up to 《 and may be any text
//	漢字《reading》    implicit; base is a maximal run of Han characters and 々仝〆〇ヶ
//
// The reading ends at the first 》. Matches never overlap and never cross a line break.
//
// If nothing matched, Scan returns (nil, false) and the caller must keep its
// original text. Scan never fails: malformed notation is left as plain text.
// Runs in time linear in len(text) and is safe for concurrent use.
func Scan(text string) ([]Segment, bool) {
	if !HasMarker(text) {
		return nil, false
	}

	s := &scanner{text: text}
	var out []Segment
	plain := 0

	for start := 0; start < len(text); {
		next := s.setLine(start)
		for i := start; i < s.lineEnd && s.lastOpen >= i; {
			m, ok := s.match(i)
			if !ok {
				if s.exhausted {
					break
				}
				i = s.skip(i)
				continue
			}

			// Zero-width captures cannot come out of the strategies; if one ever did,
			// its characters stay in the pending plain text.
			if m.base.Len() > 0 && m.reading.Len() > 0 {
				if m.start > plain {
					out = append(out, textSegment(text, plain, m.start))
				}
				out = append(out, Segment{
					Kind:        KindAnnotation,
					Span:        Span{Start: m.start, Stop: m.end},
					Base:        text[m.base.Start:m.base.Stop],
					Reading:     text[m.reading.Start:m.reading.Stop],
					BaseSpan:    m.base,
					ReadingSpan: m.reading,
				})
				plain = m.end
			}
			i = m.end
		}
		start = next
	}

	if len(out) == 0 {
		return nil, false
	}
	if plain < len(text) {
		out = append(out, textSegment(text, plain, len(text)))
	}
	return out, true
}

// Fallback renders text with every annotation written as base（reading）, the form
// shown by readers that cannot display ruby.
func Fallback(text string) string {
	segments, ok := Scan(text)
	if !ok {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, seg := range segments {
		if seg.Kind == KindAnnotation {
			b.WriteString(seg.Base)
			b.WriteString(FallbackOpen)
			b.WriteString(seg.Reading)
			b.WriteString(FallbackClose)
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}
