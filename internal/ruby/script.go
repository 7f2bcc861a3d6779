package ruby

import (
	"unicode"
	"unicode/utf8"
)

// IsBaseRune reports whether r can form the base of an annotation without a separator:
// Han script plus the iteration and counter marks 々 仝 〆 〇 ヶ.
func IsBaseRune(r rune) bool {
	switch r {
	case '々', '仝', '〆', '〇', 'ヶ':
		return true
	}
	return unicode.Is(unicode.Han, r)
}

// baseRunEnd returns the end of the run of base runes starting at s[0].
// The run stops at the first rune that is not a base rune, including
// variation selectors and combining marks. Returns 0 if s does not start with one.
func baseRunEnd(s string) int {
	end := 0
	for end < len(s) {
		r, size := utf8.DecodeRuneInString(s[end:])
		if !IsBaseRune(r) {
			break
		}
		end += size
	}
	return end
}
