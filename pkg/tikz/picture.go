package tikz

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/gotikz/gotikz/pkg/cache"
	"github.com/gotikz/gotikz/pkg/latex"
	"github.com/gotikz/gotikz/pkg/render"
)

// Picture is a complete drawing: a top-level scope plus the LaTeX document
// wrapped around it. Building compiles the document to a PDF in a working
// directory, named by the hash of the full document text so unchanged
// pictures are never recompiled.
type Picture struct {
	Scope

	preamble []string
	docCodes []string

	engine  string
	workDir string
	ownsDir bool
	noCache bool
	logger  *log.Logger
}

// Option configures a Picture.
type Option func(*Picture)

// WithOptions sets the tikzpicture environment options.
func WithOptions(opts *Options) Option {
	return func(p *Picture) { p.opts = opts }
}

// WithTempDir sets the working directory for compilation artifacts. The
// caller owns the directory; Close will not remove it.
func WithTempDir(dir string) Option {
	return func(p *Picture) {
		p.workDir = dir
		p.ownsDir = false
	}
}

// WithoutCache forces recompilation on every build, even when a PDF for
// the current document text already exists.
func WithoutCache() Option {
	return func(p *Picture) { p.noCache = true }
}

// WithEngine sets the LaTeX executable used for compilation.
func WithEngine(engine string) Option {
	return func(p *Picture) { p.engine = engine }
}

// WithLogger sets the logger used for build progress and diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(p *Picture) { p.logger = logger }
}

// WithTikzLibrary loads TikZ libraries in the document preamble.
func WithTikzLibrary(names ...string) Option {
	return func(p *Picture) { p.UseTikzLibrary(names...) }
}

// WithTikzSet applies picture-wide \tikzset options ahead of any drawing
// commands.
func WithTikzSet(opts *Options) Option {
	return func(p *Picture) { p.TikzSet(opts) }
}

// NewPicture creates an empty picture.
func NewPicture(opts ...Option) *Picture {
	p := &Picture{logger: log.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AddPreamble adds LaTeX code to the document preamble. Adding the same
// code twice keeps a single copy, so helpers can be called repeatedly
// without bloating the document.
func (p *Picture) AddPreamble(code string) {
	for _, line := range p.preamble {
		if line == code {
			return
		}
	}
	p.preamble = append(p.preamble, code)
}

// UseTikzLibrary adds a \usetikzlibrary command to the preamble.
func (p *Picture) UseTikzLibrary(names ...string) {
	p.AddPreamble("\\usetikzlibrary{" + strings.Join(names, ",") + "}")
}

// UsePackage adds a \usepackage command to the preamble, with optional
// package options.
func (p *Picture) UsePackage(name string, options ...string) {
	code := "\\usepackage"
	if len(options) > 0 {
		code += "[" + strings.Join(options, ",") + "]"
	}
	code += "{" + name + "}"
	p.AddPreamble(code)
}

// AddDocumentCode adds LaTeX code to the document body, before the
// picture.
func (p *Picture) AddDocumentCode(code string) {
	p.docCodes = append(p.docCodes, code)
}

// Fira sets the document font to Fira, also for math. Fira Math works
// only with xelatex and lualatex.
func (p *Picture) Fira() {
	p.UsePackage("FiraSans", "sfdefault")
	p.UsePackage("unicode-math", "mathrm=sym")
	p.AddPreamble("\\setmathfont{Fira Math}[math-style=ISO," +
		"bold-style=ISO,nabla=upright,partial=upright]")
}

// Code renders the picture as a tikzpicture environment.
func (p *Picture) Code(trans Transform) string {
	return "\\begin{tikzpicture}" + p.opts.Code() + "\n" +
		p.childCode(trans) + "\n\\end{tikzpicture}"
}

// DocumentCode renders the complete compilable LaTeX document: the
// standard prologue, user preamble, extra document code, and the picture.
func (p *Picture) DocumentCode() string {
	lines := []string{
		"\\documentclass{article}",
		"\\usepackage{tikz}",
		"\\usetikzlibrary{external}",
		"\\tikzexternalize",
	}
	lines = append(lines, p.preamble...)
	lines = append(lines,
		"\\begin{document}",
		strings.Join(p.docCodes, "\n"),
		p.Code(nil),
		"\\end{document}",
	)
	return strings.Join(lines, "\n")
}

// ensureWorkDir lazily creates an owned scratch directory when none was
// configured.
func (p *Picture) ensureWorkDir() (string, error) {
	if p.workDir != "" {
		return p.workDir, nil
	}
	dir, err := latex.ScratchDir()
	if err != nil {
		return "", err
	}
	p.workDir = dir
	p.ownsDir = true
	return dir, nil
}

// Build compiles the picture and returns the path of the produced PDF.
// The PDF file name embeds the hash of the document text; when a file
// for the current text already exists, compilation is skipped.
func (p *Picture) Build(ctx context.Context) (string, error) {
	dir, err := p.ensureWorkDir()
	if err != nil {
		return "", err
	}

	doc := p.DocumentCode()
	hash := cache.Hash([]byte(doc))
	pdf := filepath.Join(dir, "tikz-"+hash+".pdf")

	if !p.noCache {
		if _, err := os.Stat(pdf); err == nil {
			p.logger.Debug("picture unchanged, reusing pdf", "hash", hash[:12])
			return pdf, nil
		}
	}

	p.logger.Debug("compiling picture", "engine", p.engine, "hash", hash[:12])
	compiler := &latex.Compiler{Executable: p.engine}
	if err := compiler.Compile(ctx, dir, doc+"\n"); err != nil {
		return "", err
	}

	// The compiler names its output after the externalized job; move it
	// to the hash-named file the cache check looks for.
	if err := os.Rename(filepath.Join(dir, latex.ProducedPDF), pdf); err != nil {
		return "", err
	}
	return pdf, nil
}

// WriteImage builds the picture and writes it to an image file. The file
// type is determined from the extension and can be PDF, PNG, or SVG. For
// PNG a dpi of 0 uses render.FileDPI.
func (p *Picture) WriteImage(ctx context.Context, filename string, dpi int) error {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf", ".png", ".svg":
	default:
		return fmt.Errorf("format %s is not supported", strings.TrimPrefix(ext, "."))
	}

	pdf, err := p.Build(ctx)
	if err != nil {
		return err
	}

	switch ext {
	case ".pdf":
		data, err := os.ReadFile(pdf)
		if err != nil {
			return err
		}
		return os.WriteFile(filename, data, 0644)
	case ".png":
		data, err := render.ToPNG(ctx, pdf, dpi)
		if err != nil {
			return err
		}
		return os.WriteFile(filename, data, 0644)
	default:
		data, err := render.ToSVG(ctx, pdf)
		if err != nil {
			return err
		}
		return os.WriteFile(filename, data, 0644)
	}
}

// PNG builds the picture and returns PNG data. A dpi of 0 uses
// render.DisplayDPI.
func (p *Picture) PNG(ctx context.Context, dpi int) ([]byte, error) {
	if dpi <= 0 {
		dpi = render.DisplayDPI
	}
	pdf, err := p.Build(ctx)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, pdf, dpi)
}

// SVG builds the picture and returns SVG data.
func (p *Picture) SVG(ctx context.Context) ([]byte, error) {
	pdf, err := p.Build(ctx)
	if err != nil {
		return nil, err
	}
	return render.ToSVG(ctx, pdf)
}

// SafePNG is like PNG but swallows compilation failures: the compiler
// diagnostic is logged and nil data is returned. Other errors propagate.
func (p *Picture) SafePNG(ctx context.Context, dpi int) ([]byte, error) {
	data, err := p.PNG(ctx, dpi)
	if err != nil {
		if ce, ok := latex.AsCompileError(err); ok {
			p.logger.Error("LaTeX has failed")
			p.logger.Error(ce.Diagnostic())
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// Close removes the scratch directory when the picture owns one. Pictures
// built into a caller-provided directory leave it untouched.
func (p *Picture) Close() error {
	if !p.ownsDir || p.workDir == "" {
		return nil
	}
	dir := p.workDir
	p.workDir = ""
	p.ownsDir = false
	return os.RemoveAll(dir)
}
