package ruby

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsBaseRune(t *testing.T) {
	for _, r := range "漢字頁々仝〆〇ヶ𠮷" {
		require.True(t, IsBaseRune(r), "expected %q to be a base rune", r)
	}
	for _, r := range "かなカナaZ1 　、。｜《》ー" {
		require.False(t, IsBaseRune(r), "expected %q not to be a base rune", r)
	}
}

func TestBaseRunEnd(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"かな", 0},
		{"漢字かな", len("漢字")},
		{"漢字《", len("漢字")},
		{"葛\U000E0100《", len("葛")},
		{"辻\ufe00字 ", len("辻")},
		{"漢\u0301字", len("漢")},
		{"\u0301漢", 0},
		{"\xff漢", 0},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, baseRunEnd(tt.input), "baseRunEnd(%q)", tt.input)
	}
}
