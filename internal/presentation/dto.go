package presentation

import (
	"github.com/zjrosen/rubymark/internal/ruby"
)

// ScanResultDTO is the outcome of scanning one input.
type ScanResultDTO struct {
	Input    string       `json:"input" yaml:"input"`
	Matched  bool         `json:"matched" yaml:"matched"`
	Segments []SegmentDTO `json:"segments" yaml:"segments"`
	Fallback string       `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// SegmentDTO represents one scanned segment for presentation.
type SegmentDTO struct {
	Kind    string `json:"kind" yaml:"kind"`
	Span    [2]int `json:"span" yaml:"span,flow"`
	Text    string `json:"text,omitempty" yaml:"text,omitempty"`
	Base    string `json:"base,omitempty" yaml:"base,omitempty"`
	Reading string `json:"reading,omitempty" yaml:"reading,omitempty"`
	Raw     string `json:"raw,omitempty" yaml:"raw,omitempty"` // source text of an annotation
}

// IsAnnotation reports whether the segment is a ruby annotation.
func (s SegmentDTO) IsAnnotation() bool {
	return s.Kind == ruby.KindAnnotation.String()
}

// FromSegment converts a scanned segment. input is the string that was scanned.
func FromSegment(input string, seg ruby.Segment) SegmentDTO {
	dto := SegmentDTO{
		Kind: seg.Kind.String(),
		Span: [2]int{seg.Span.Start, seg.Span.Stop},
	}
	if seg.Kind == ruby.KindAnnotation {
		dto.Base = seg.Base
		dto.Reading = seg.Reading
		dto.Raw = input[seg.Span.Start:seg.Span.Stop]
	} else {
		dto.Text = seg.Text
	}
	return dto
}

// NewScanResult scans input and converts the outcome. Unmatched input is
// reported as a single text segment. withFallback adds the base（reading） form.
func NewScanResult(input string, withFallback bool) ScanResultDTO {
	result := ScanResultDTO{Input: input}

	segs, matched := ruby.Scan(input)
	result.Matched = matched
	if !matched {
		if input != "" {
			result.Segments = []SegmentDTO{{Kind: ruby.KindText.String(), Span: [2]int{0, len(input)}, Text: input}}
		}
	} else {
		result.Segments = make([]SegmentDTO, len(segs))
		for i, seg := range segs {
			result.Segments[i] = FromSegment(input, seg)
		}
	}
	if result.Segments == nil {
		result.Segments = []SegmentDTO{}
	}

	if withFallback {
		result.Fallback = ruby.Fallback(input)
	}
	return result
}
