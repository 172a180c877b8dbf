package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gotikz/gotikz/pkg/cache"
	"github.com/gotikz/gotikz/pkg/latex"
	"github.com/gotikz/gotikz/pkg/tikz"
)

// stubCompiler writes a fake PDF instead of running LaTeX.
type stubCompiler struct {
	calls int
}

func (c *stubCompiler) Compile(ctx context.Context, dir, doc string) error {
	c.calls++
	return os.WriteFile(filepath.Join(dir, latex.ProducedPDF), []byte("%PDF-stub"), 0644)
}

// stubConverter returns canned bytes instead of running pdftocairo.
type stubConverter struct {
	pngCalls int
	svgCalls int
}

func (c *stubConverter) ToPNG(ctx context.Context, pdfPath string, dpi int) ([]byte, error) {
	c.pngCalls++
	return []byte("png-stub"), nil
}

func (c *stubConverter) ToSVG(ctx context.Context, pdfPath string) ([]byte, error) {
	c.svgCalls++
	return []byte("svg-stub"), nil
}

func testRunner(t *testing.T) (*Runner, *stubCompiler, *stubConverter) {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	compiler := &stubCompiler{}
	converter := &stubConverter{}
	r := NewRunner(fc, nil, nil)
	r.Compiler = compiler
	r.Converter = converter
	return r, compiler, converter
}

func testPicture(t *testing.T) *tikz.Picture {
	t.Helper()
	pic := tikz.NewPicture()
	if err := pic.Draw(tikz.NewOptions("thick"), tikz.XY(0, 0), tikz.LineTo(tikz.XY(1, 1))); err != nil {
		t.Fatalf("Draw error: %v", err)
	}
	return pic
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	r, compiler, converter := testRunner(t)
	defer r.Close()

	opts := Options{Formats: []string{FormatPDF, FormatPNG, FormatTeX}}
	result, err := r.Execute(ctx, testPicture(t), opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if result.CacheInfo.CompileHit || result.CacheInfo.ConvertHit {
		t.Error("first run should miss both caches")
	}
	if compiler.calls != 1 {
		t.Errorf("compiler called %d times, want 1", compiler.calls)
	}
	if converter.pngCalls != 1 {
		t.Errorf("converter called %d times, want 1", converter.pngCalls)
	}

	if string(result.Artifacts[FormatPDF]) != "%PDF-stub" {
		t.Errorf("pdf artifact = %q", result.Artifacts[FormatPDF])
	}
	if string(result.Artifacts[FormatPNG]) != "png-stub" {
		t.Errorf("png artifact = %q", result.Artifacts[FormatPNG])
	}
	if !strings.Contains(string(result.Artifacts[FormatTeX]), "\\begin{tikzpicture}") {
		t.Error("tex artifact should contain the document source")
	}

	if result.DocumentHash == "" || result.Code == "" {
		t.Error("result should carry document hash and picture code")
	}
}

func TestExecuteCacheHit(t *testing.T) {
	ctx := context.Background()
	r, compiler, converter := testRunner(t)
	defer r.Close()

	opts := Options{Formats: []string{FormatPDF, FormatPNG}}
	if _, err := r.Execute(ctx, testPicture(t), opts); err != nil {
		t.Fatalf("first Execute error: %v", err)
	}

	// An identical picture hits both stages without invoking the tools.
	result, err := r.Execute(ctx, testPicture(t), Options{Formats: []string{FormatPDF, FormatPNG}})
	if err != nil {
		t.Fatalf("second Execute error: %v", err)
	}
	if !result.CacheInfo.CompileHit || !result.CacheInfo.ConvertHit {
		t.Errorf("second run should hit both caches: %+v", result.CacheInfo)
	}
	if compiler.calls != 1 || converter.pngCalls != 1 {
		t.Errorf("cached run invoked tools: compile=%d png=%d", compiler.calls, converter.pngCalls)
	}
}

func TestExecuteRefresh(t *testing.T) {
	ctx := context.Background()
	r, compiler, _ := testRunner(t)
	defer r.Close()

	if _, err := r.Execute(ctx, testPicture(t), Options{}); err != nil {
		t.Fatalf("first Execute error: %v", err)
	}
	result, err := r.Execute(ctx, testPicture(t), Options{Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute error: %v", err)
	}
	if result.CacheInfo.CompileHit {
		t.Error("refresh should bypass the document cache")
	}
	if compiler.calls != 2 {
		t.Errorf("compiler called %d times, want 2", compiler.calls)
	}
}

func TestExecuteDPISeparatesArtifacts(t *testing.T) {
	ctx := context.Background()
	r, _, converter := testRunner(t)
	defer r.Close()

	if _, err := r.Execute(ctx, testPicture(t), Options{Formats: []string{FormatPNG}, DPI: 96}); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if _, err := r.Execute(ctx, testPicture(t), Options{Formats: []string{FormatPNG}, DPI: 300}); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if converter.pngCalls != 2 {
		t.Errorf("different DPI should not share artifacts: %d calls", converter.pngCalls)
	}
}

func TestExecuteInvalidFormat(t *testing.T) {
	r, _, _ := testRunner(t)
	defer r.Close()

	_, err := r.Execute(context.Background(), testPicture(t), Options{Formats: []string{"bmp"}})
	if err == nil {
		t.Fatal("invalid format should error")
	}
	if !strings.Contains(err.Error(), `invalid format: "bmp"`) {
		t.Errorf("error should name the format: %v", err)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("error: %v", err)
	}
	if opts.Engine != latex.DefaultEngine {
		t.Errorf("Engine = %q", opts.Engine)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatPDF {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.DPI != DefaultDPI {
		t.Errorf("DPI = %d", opts.DPI)
	}

	// idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call error: %v", err)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{DPI: 300}

	// DPI only keys bitmap output
	if got := opts.ArtifactKeyOpts(FormatPNG).DPI; got != 300 {
		t.Errorf("png DPI = %d", got)
	}
	if got := opts.ArtifactKeyOpts(FormatSVG).DPI; got != 0 {
		t.Errorf("svg DPI = %d, want 0", got)
	}
}
