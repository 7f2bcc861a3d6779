package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zjrosen/rubymark/internal/config"
	"github.com/zjrosen/rubymark/internal/log"
	"github.com/zjrosen/rubymark/internal/watcher"
)

var renderCmd = &cobra.Command{
	Use:   "render [files...]",
	Short: "Render Markdown files with ruby annotations",
	Long: `Render Markdown with Aozora Bunko ruby notation.

Reads standard input when no files are given. Output goes to standard output
unless --output names a file.

Formats:
  html      <ruby>漢字<rp>（</rp><rt>かんじ</rt><rp>）</rp></ruby>
  terminal  styled output for the terminal, annotations as 漢字（かんじ）
  fallback  the Markdown source with annotations rewritten as 漢字（かんじ）

Examples:
  rubymark render chapter1.md
  rubymark render -f terminal chapter1.md
  rubymark render -o book.html chapter1.md chapter2.md
  rubymark render --watch -o chapter1.html chapter1.md
  cat chapter1.md | rubymark render -f fallback`,
	RunE: runRender,
}

var (
	renderOutput string
	renderWatch  bool
)

func init() {
	f := renderCmd.Flags()
	f.StringP("format", "f", config.FormatHTML, "output format: html, terminal, or fallback")
	f.StringVarP(&renderOutput, "output", "o", "", "write output to this file instead of stdout")
	f.BoolVarP(&renderWatch, "watch", "w", false, "re-render when input files change")
	f.Int("width", 80, "word wrap width for terminal output")
	f.String("style", "dark", "terminal style: dark, light, notty, or a JSON style path")
	f.Bool("xhtml", false, "emit XHTML-style self-closing tags")
	f.Bool("unsafe", false, "pass raw HTML through")
	f.Bool("hard-wraps", false, "render soft line breaks as <br>")
	f.Bool("gfm", true, "enable GitHub Flavored Markdown")
	f.Duration("debounce", 0, "quiet period before re-rendering in watch mode")
	f.Bool("no-cache", false, "disable the render cache")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	if renderWatch && len(args) == 0 {
		return fmt.Errorf("--watch needs at least one file")
	}

	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	if err := renderAll(cmd.Context(), p, args, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
		return err
	}
	if !renderWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New(watcher.Config{Paths: args, Debounce: cfg.Watch.Debounce})
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "watching %d file(s), press Ctrl+C to stop\n", len(args))

	return watchLoop(ctx, changes, func(changed []string) error {
		log.Info(log.CatWatcher, "re-rendering", "changed", len(changed))
		return renderAll(ctx, p, args, cmd.InOrStdin(), cmd.OutOrStdout())
	})
}

// watchLoop calls onChange for each batch until ctx is done or changes closes.
// Render errors are reported and watching continues.
func watchLoop(ctx context.Context, changes <-chan []string, onChange func([]string) error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case changed, ok := <-changes:
			if !ok {
				return nil
			}
			if err := onChange(changed); err != nil {
				log.ErrorErr(log.CatWatcher, "re-render failed", err)
			}
		}
	}
}

// renderAll renders each file, or stdin when files is empty, to --output or out.
func renderAll(ctx context.Context, p *pipeline, files []string, in io.Reader, out io.Writer) error {
	var sources [][]byte
	if len(files) == 0 {
		src, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		sources = append(sources, src)
	}
	for _, name := range files {
		src, err := os.ReadFile(name) //nolint:gosec // G304: user-supplied input file
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		sources = append(sources, src)
	}

	var rendered []byte
	for i, src := range sources {
		name := "stdin"
		if len(files) > 0 {
			name = files[i]
		}
		s, err := p.Render(ctx, name, src)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", name, err)
		}
		rendered = append(rendered, s...)
	}

	if renderOutput == "" {
		_, err := out.Write(rendered)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(renderOutput), 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(renderOutput, rendered, 0o644); err != nil { //nolint:gosec // G306: rendered documents are meant to be shared
		return fmt.Errorf("writing %s: %w", renderOutput, err)
	}
	log.Debug(log.CatRender, "wrote output", "path", renderOutput, "bytes", len(rendered))
	return nil
}
