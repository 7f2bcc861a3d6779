package markdown

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestFallbackSource(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "implicit",
			input: "この漢字《かんじ》にルビを振る。",
			want:  "この漢字（かんじ）にルビを振る。",
		},
		{
			name:  "explicit",
			input: "一｜頁《ページ》も進んでいない。",
			want:  "一頁（ページ）も進んでいない。",
		},
		{
			name:  "code span is untouched",
			input: "`漢字《かんじ》`と漢字《かんじ》",
			want:  "`漢字《かんじ》`と漢字（かんじ）",
		},
		{
			name:  "fenced code is untouched",
			input: "```\n漢字《かんじ》\n```\n\n漢字《かんじ》\n",
			want:  "```\n漢字《かんじ》\n```\n\n漢字（かんじ）\n",
		},
		{
			name:  "markdown around annotations is kept",
			input: "# 羅生門《らしょうもん》\n\n**下人《げにん》** が",
			want:  "# 羅生門（らしょうもん）\n\n**下人（げにん）** が",
		},
		{
			name:  "unmatched marker",
			input: "Markdown《マークダウン》",
			want:  "Markdown《マークダウン》",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, string(FallbackSource([]byte(tt.input))))
		})
	}
}

func TestFallbackSource_NoMarkerReturnsSource(t *testing.T) {
	src := []byte("今日は天気がいい。")
	got := FallbackSource(src)
	require.Same(t, &src[0], &got[0])
}

func TestNewTerminal(t *testing.T) {
	r, err := NewTerminal(80, "")
	require.NoError(t, err, "unexpected error")
	require.NotNil(t, r, "expected non-nil renderer")
	require.Equal(t, 80, r.Width())
}

func TestTerminalRenderer_Width(t *testing.T) {
	for _, w := range []int{40, 80, 120} {
		r, err := NewTerminal(w, "notty")
		require.NoError(t, err, "NewTerminal(%d) error", w)
		require.Equal(t, w, r.Width())
	}
}

func TestTerminalRenderer_Render_Fallback(t *testing.T) {
	r, err := NewTerminal(80, "notty")
	require.NoError(t, err, "NewTerminal error")

	result, err := r.Render("この漢字《かんじ》にルビを振る。")
	require.NoError(t, err, "Render error")

	stripped := ansi.Strip(result)
	require.Contains(t, stripped, "漢字（かんじ）")
	require.NotContains(t, stripped, "《")
}

func TestTerminalRenderer_Render_Styled(t *testing.T) {
	r, err := NewTerminal(80, "dark")
	require.NoError(t, err, "NewTerminal error")

	result, err := r.Render("- 漢字《かんじ》\n- かな")
	require.NoError(t, err, "Render error")

	stripped := ansi.Strip(result)
	require.Contains(t, stripped, "かんじ")
	require.Contains(t, stripped, "かな")
}

func TestTerminalRenderer_Render_EmptyString(t *testing.T) {
	r, err := NewTerminal(80, "")
	require.NoError(t, err, "NewTerminal error")

	result, err := r.Render("")
	require.NoError(t, err, "Render error")
	require.LessOrEqual(t, len(result), 10, "expected minimal output for empty string, got: %q", result)
}
