package presentation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/rubymark/internal/ruby"
)

func TestNewScanResult_Annotations(t *testing.T) {
	r := NewScanResult("この漢字《かんじ》に", false)
	require.True(t, r.Matched)
	require.Empty(t, r.Fallback)
	require.Equal(t, []SegmentDTO{
		{Kind: "text", Span: [2]int{0, 6}, Text: "この"},
		{Kind: "annotation", Span: [2]int{6, 27}, Base: "漢字", Reading: "かんじ", Raw: "漢字《かんじ》"},
		{Kind: "text", Span: [2]int{27, 30}, Text: "に"},
	}, r.Segments)
}

func TestSegmentDTO_IsAnnotation(t *testing.T) {
	r := NewScanResult("この漢字《かんじ》", false)
	require.Len(t, r.Segments, 2)
	require.False(t, r.Segments[0].IsAnnotation())
	require.True(t, r.Segments[1].IsAnnotation())
	require.Equal(t, ruby.KindAnnotation.String(), r.Segments[1].Kind)
}

func TestNewScanResult_Unmatched(t *testing.T) {
	r := NewScanResult("Markdown《マークダウン》", true)
	require.False(t, r.Matched)
	require.Equal(t, []SegmentDTO{
		{Kind: "text", Span: [2]int{0, len("Markdown《マークダウン》")}, Text: "Markdown《マークダウン》"},
	}, r.Segments)
	require.Equal(t, "Markdown《マークダウン》", r.Fallback)
}

func TestNewScanResult_Empty(t *testing.T) {
	r := NewScanResult("", false)
	require.False(t, r.Matched)
	require.NotNil(t, r.Segments, "segments serialize as an empty list")
	require.Empty(t, r.Segments)
}

func TestNewScanResult_Fallback(t *testing.T) {
	r := NewScanResult("一｜頁《ページ》も", true)
	require.Equal(t, "一頁（ページ）も", r.Fallback)
	require.Equal(t, "｜頁《ページ》", r.Segments[1].Raw)
}
