package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/rubymark/internal/log"
	"github.com/zjrosen/rubymark/internal/presentation"
)

var scanCmd = &cobra.Command{
	Use:   "scan [text...]",
	Short: "Show how plain text splits into text and annotations",
	Long: `Scan plain text (not Markdown) for ruby notation and print the segments.

Each argument is scanned separately. Standard input is scanned as a single
text when no arguments are given.

Examples:
  rubymark scan 'この漢字《かんじ》にルビを振る。'
  rubymark scan -o json '｜今日《きょう》は天気《てんき》がいい。'
  rubymark scan --fallback < chapter1.txt`,
	RunE: runScan,
}

var (
	scanOutput   string
	scanFallback bool
)

func init() {
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", presentation.OutputTable, "output format: table, json, or yaml")
	scanCmd.Flags().BoolVar(&scanFallback, "fallback", false, "include the base（reading） rendering of each input")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	inputs := args
	if len(inputs) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		inputs = []string{string(data)}
	}

	results := make([]presentation.ScanResultDTO, 0, len(inputs))
	annotations := 0
	for _, in := range inputs {
		r := presentation.NewScanResult(in, scanFallback)
		for _, s := range r.Segments {
			if s.IsAnnotation() {
				annotations++
			}
		}
		results = append(results, r)
	}
	log.Debug(log.CatScan, "scanned", "inputs", len(inputs), "annotations", annotations)

	return presentation.NewFormatter(cmd.OutOrStdout()).Format(scanOutput, results)
}
