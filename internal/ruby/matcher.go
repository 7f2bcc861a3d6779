package ruby

import (
	"strings"
	"unicode/utf8"
)

// match is one candidate annotation found at a cursor position.
type match struct {
	start   int
	end     int
	base    Span
	reading Span
}

// strategy tries to match an annotation starting exactly at byte i of the current line.
type strategy func(s *scanner, i int) (match, bool)

// strategies are tried in order at each cursor position; the first match wins.
var strategies = []strategy{
	explicitAt,
	implicitAt,
}

// lineTerminators end a match candidate, the same characters a regex `.` refuses.
const lineTerminators = "\n\r\u2028\u2029"

// scanner holds the per-call cursor state for one Scan.
type scanner struct {
	text string

	lineEnd   int
	lastOpen  int
	lastClose int

	// exhausted is set once a reading could not be closed. No later candidate on the
	// same line can close either: every later open marker sits at or after the one
	// that failed, and there is no close marker past it.
	exhausted bool
}

// setLine positions the scanner on the line starting at start and returns
// the start of the following line.
func (s *scanner) setLine(start int) int {
	rest := s.text[start:]
	n := strings.IndexAny(rest, lineTerminators)
	next := len(s.text)
	if n < 0 {
		s.lineEnd = len(s.text)
	} else {
		s.lineEnd = start + n
		_, w := utf8.DecodeRuneInString(s.text[s.lineEnd:])
		next = s.lineEnd + w
	}

	line := s.text[start:s.lineEnd]
	s.lastOpen = offset(start, strings.LastIndex(line, Open))
	s.lastClose = offset(start, strings.LastIndex(line, Close))
	s.exhausted = false
	return next
}

func offset(base, n int) int {
	if n < 0 {
		return -1
	}
	return base + n
}

// match runs the strategies at i.
func (s *scanner) match(i int) (match, bool) {
	for _, try := range strategies {
		if m, ok := try(s, i); ok {
			return m, true
		}
		if s.exhausted {
			break
		}
	}
	return match{}, false
}

// skip returns the next cursor position after an unsuccessful match at i.
// A base run that failed as a whole fails from every position inside it too,
// so the cursor jumps over it.
func (s *scanner) skip(i int) int {
	if end := baseRunEnd(s.text[i:s.lineEnd]); end > 0 {
		return i + end
	}
	_, w := utf8.DecodeRuneInString(s.text[i:s.lineEnd])
	return i + w
}

// indexFrom returns the first position of marker at or after from on the current
// line, or -1. last is the marker's last position on the line.
func (s *scanner) indexFrom(marker string, from, last int) int {
	if last < from {
		return -1
	}
	return from + strings.Index(s.text[from:s.lineEnd], marker)
}

// readingAt completes a candidate whose base ends at the open marker at open.
// The reading is the shortest non-empty run closed by the first close marker.
func (s *scanner) readingAt(start int, base Span, open int) (match, bool) {
	r := open + len(Open)
	if r >= s.lineEnd {
		s.exhausted = true
		return match{}, false
	}
	_, w := utf8.DecodeRuneInString(s.text[r:s.lineEnd])
	c := s.indexFrom(Close, r+w, s.lastClose)
	if c < 0 {
		s.exhausted = true
		return match{}, false
	}
	return match{
		start:   start,
		end:     c + len(Close),
		base:    base,
		reading: Span{Start: r, Stop: c},
	}, true
}

// explicitAt matches ｜base《reading》. The base is the shortest non-empty run
// up to the next open marker and may hold any character.
func explicitAt(s *scanner, i int) (match, bool) {
	if !strings.HasPrefix(s.text[i:s.lineEnd], Separator) {
		return match{}, false
	}
	b := i + len(Separator)
	if b >= s.lineEnd {
		return match{}, false
	}
	_, w := utf8.DecodeRuneInString(s.text[b:s.lineEnd])
	open := s.indexFrom(Open, b+w, s.lastOpen)
	if open < 0 {
		return match{}, false
	}
	return s.readingAt(i, Span{Start: b, Stop: open}, open)
}

// implicitAt matches 漢字《reading》: a maximal run of base characters directly
// followed by the open marker.
func implicitAt(s *scanner, i int) (match, bool) {
	end := i + baseRunEnd(s.text[i:s.lineEnd])
	if end == i || !strings.HasPrefix(s.text[end:s.lineEnd], Open) {
		return match{}, false
	}
	return s.readingAt(i, Span{Start: i, Stop: end}, end)
}
