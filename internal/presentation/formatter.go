// Package presentation formats scan results for the command line.
package presentation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"gopkg.in/yaml.v3"
)

// Output names accepted by Format.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// ErrUnknownOutput is returned by Format for an unsupported output name.
var ErrUnknownOutput = errors.New("unknown output format")

// maxCellWidth caps the display width of the text and reading columns.
const maxCellWidth = 40

const ellipsis = "…"

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	annotationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	inputStyle      = lipgloss.NewStyle().Faint(true)

	// Control characters would break table rows.
	cellEscaper = strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`, "\u2028", `\u2028`, "\u2029", `\u2029`)
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// Format writes results in the named output format.
func (f *Formatter) Format(output string, results []ScanResultDTO) error {
	switch output {
	case OutputTable, "":
		return f.FormatTable(results)
	case OutputJSON:
		return f.FormatJSON(results)
	case OutputYAML:
		return f.FormatYAML(results)
	}
	return fmt.Errorf("%w %q (want %s, %s, or %s)", ErrUnknownOutput, output, OutputTable, OutputJSON, OutputYAML)
}

// FormatJSON formats scan results as indented JSON.
func (f *Formatter) FormatJSON(results []ScanResultDTO) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(results)
}

// FormatYAML formats scan results as a YAML sequence.
func (f *Formatter) FormatYAML(results []ScanResultDTO) error {
	encoder := yaml.NewEncoder(f.writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(results); err != nil {
		return err
	}
	return encoder.Close()
}

// FormatTable writes one aligned table per result, separated by blank lines.
// Column widths are measured in terminal cells, so wide kana and kanji line up.
func (f *Formatter) FormatTable(results []ScanResultDTO) error {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeTable(&b, r)
	}
	_, err := io.WriteString(f.writer, b.String())
	return err
}

func writeTable(b *strings.Builder, r ScanResultDTO) {
	b.WriteString(inputStyle.Render(cell(r.Input, 0)))
	b.WriteByte('\n')

	rows := [][]string{{"KIND", "SPAN", "TEXT", "READING"}}
	annotated := make([]bool, 1, len(r.Segments)+1)
	for _, s := range r.Segments {
		text := s.Text
		if s.IsAnnotation() {
			text = s.Base
		}
		annotated = append(annotated, s.IsAnnotation())
		rows = append(rows, []string{
			s.Kind,
			strconv.Itoa(s.Span[0]) + "-" + strconv.Itoa(s.Span[1]),
			cell(text, maxCellWidth),
			cell(s.Reading, maxCellWidth),
		})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for c, v := range row {
			widths[c] = max(widths[c], runewidth.StringWidth(v))
		}
	}

	for n, row := range rows {
		var line strings.Builder
		for c, v := range row {
			if c > 0 {
				line.WriteString("  ")
			}
			if c < len(row)-1 {
				v = runewidth.FillRight(v, widths[c])
			}
			line.WriteString(v)
		}
		out := strings.TrimRight(line.String(), " ")

		switch {
		case n == 0:
			out = headerStyle.Render(out)
		case annotated[n]:
			out = annotationStyle.Render(out)
		}
		b.WriteString(out)
		b.WriteByte('\n')
	}

	if r.Fallback != "" {
		b.WriteString(headerStyle.Render("FALLBACK"))
		b.WriteString("  ")
		b.WriteString(cell(r.Fallback, 0))
		b.WriteByte('\n')
	}
}

// cell escapes control characters and truncates to width cells (0 means no limit).
func cell(s string, width int) string {
	s = cellEscaper.Replace(s)
	if width > 0 {
		s = truncate(s, width)
	}
	return s
}

// truncate shortens s to at most width cells, ending in "…". It cuts between
// grapheme clusters so a variation selector or combining mark stays with its base.
func truncate(s string, width int) string {
	if uniseg.StringWidth(s) <= width {
		return s
	}
	budget := width - runewidth.StringWidth(ellipsis)
	var b strings.Builder
	used := 0
	state := -1
	for rest := s; len(rest) > 0; {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if used+w > budget {
			break
		}
		b.WriteString(cluster)
		used += w
	}
	b.WriteString(ellipsis)
	return b.String()
}
