package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gotikz/gotikz/pkg/latex"
	"github.com/gotikz/gotikz/pkg/pipeline"
	"github.com/gotikz/gotikz/pkg/tikz"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	output    string   // output file path (single format) or base path (multiple)
	formats   []string // output formats: "pdf", "png", "svg", "tex"
	dpi       int      // PNG resolution, 0 means the configured file DPI
	engine    string   // LaTeX engine override
	libraries []string // TikZ libraries to load
	fira      bool     // use the Fira font setup
	noCache   bool     // disable the artifact cache
	refresh   bool     // recompile even on a cache hit
}

// buildCommand creates the build command for compiling TikZ source files.
//
// The input file holds the body of a tikzpicture environment; the command
// wraps it in a full document, compiles it, and writes one file per
// requested format.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts
	var formatsStr string

	cmd := &cobra.Command{
		Use:   "build [file]",
		Short: "Compile a TikZ picture and write its artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			pic, err := c.loadPicture(args[0], &opts)
			if err != nil {
				return err
			}
			return c.runBuild(cmd.Context(), pic, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): pdf (default), png, svg, tex (comma-separated)")
	cmd.Flags().IntVar(&opts.dpi, "dpi", 0, "PNG resolution (default: configured file DPI)")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "LaTeX engine (default: configured engine)")
	cmd.Flags().StringSliceVarP(&opts.libraries, "library", "l", nil, "TikZ libraries to load")
	cmd.Flags().BoolVar(&opts.fira, "fira", false, "typeset with the Fira font family")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompile even when cached")

	return cmd
}

// loadPicture reads a TikZ source file and wraps it in a picture.
func (c *CLI) loadPicture(path string, opts *buildOpts) (*tikz.Picture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	pic := tikz.NewPicture(tikz.WithLogger(c.Logger))
	if len(opts.libraries) > 0 {
		pic.UseTikzLibrary(opts.libraries...)
	}
	if opts.fira {
		pic.Fira()
	}
	pic.Raw(strings.TrimRight(string(data), "\n"))
	return pic, nil
}

// runBuild compiles the picture and writes the requested artifacts next to
// the input file unless --output says otherwise.
func (c *CLI) runBuild(ctx context.Context, pic *tikz.Picture, input string, opts *buildOpts) error {
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Compiling with %s...", c.engine(opts.engine)))
	spinner.Start()

	result, err := runner.Execute(ctx, pic, pipeline.Options{
		Engine:  c.engine(opts.engine),
		Refresh: opts.refresh,
		Formats: opts.formats,
		DPI:     c.dpi(opts.dpi),
		Logger:  c.Logger,
	})
	if err != nil {
		spinner.Stop()
		if ce, ok := latex.AsCompileError(err); ok {
			printError("LaTeX failed")
			printDetail("%s", ce.Diagnostic())
			return err
		}
		return err
	}
	spinner.Stop()

	base := outputBase(opts.output, input)
	for _, format := range opts.formats {
		path := base + "." + format
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	prog.done(fmt.Sprintf("Rendered %d artifact(s)", len(opts.formats)))
	printStats(len(opts.formats), result.CacheInfo.CompileHit && result.CacheInfo.ConvertHit)
	return nil
}

// engine resolves the engine flag against the configuration.
func (c *CLI) engine(flag string) string {
	if flag != "" {
		return flag
	}
	return c.Config.Engine
}

// dpi resolves the dpi flag against the configuration.
func (c *CLI) dpi(flag int) int {
	if flag > 0 {
		return flag
	}
	return c.Config.FileDPI
}

// outputBase derives the base output path from the output and input file
// paths. If output is empty, it strips the extension from input. If output
// carries a format extension (.pdf, .png, ...), that extension is stripped
// so per-format suffixes can be appended.
func outputBase(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
