package preview

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/gotikz/gotikz/pkg/cache"
	"github.com/gotikz/gotikz/pkg/latex"
	"github.com/gotikz/gotikz/pkg/pipeline"
	"github.com/gotikz/gotikz/pkg/tikz"
)

// stubCompiler writes a fake PDF, or fails with a compiler error.
type stubCompiler struct {
	fail bool
}

func (c *stubCompiler) Compile(ctx context.Context, dir, doc string) error {
	if c.fail {
		return &latex.CompileError{Engine: "xelatex", Log: "stuff\n! Undefined control sequence.\nl.7"}
	}
	return os.WriteFile(filepath.Join(dir, latex.ProducedPDF), []byte("%PDF-stub"), 0644)
}

type stubConverter struct{}

func (stubConverter) ToPNG(ctx context.Context, pdfPath string, dpi int) ([]byte, error) {
	return []byte("png-stub"), nil
}

func (stubConverter) ToSVG(ctx context.Context, pdfPath string) ([]byte, error) {
	return []byte("svg-stub"), nil
}

func testServer(t *testing.T, compiler pipeline.Compiler) *httptest.Server {
	t.Helper()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(fc, nil, logger)
	runner.Compiler = compiler
	runner.Converter = stubConverter{}

	pic := tikz.NewPicture()
	if err := pic.Draw(nil, tikz.XY(0, 0), tikz.LineTo(tikz.XY(1, 1))); err != nil {
		t.Fatalf("Draw error: %v", err)
	}

	ts := httptest.NewServer(NewServer(runner, pic, logger).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestDemoPage(t *testing.T) {
	ts := testServer(t, &stubCompiler{})

	resp, body := get(t, ts.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(body, "data:image/png;base64,") {
		t.Error("demo page should embed the PNG")
	}
	// TikZ code appears HTML-escaped
	if !strings.Contains(body, `\draw (0,0) -- (1,1);`) {
		t.Errorf("demo page should show the picture code:\n%s", body)
	}
}

func TestArtifactEndpoints(t *testing.T) {
	ts := testServer(t, &stubCompiler{})

	tests := []struct {
		path        string
		contentType string
		body        string
	}{
		{"/picture.png", "image/png", "png-stub"},
		{"/picture.png?dpi=300", "image/png", "png-stub"},
		{"/picture.svg", "image/svg+xml", "svg-stub"},
		{"/picture.pdf", "application/pdf", "%PDF-stub"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts.URL+tt.path)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			if body != tt.body {
				t.Errorf("body = %q, want %q", body, tt.body)
			}
		})
	}
}

func TestInvalidDPI(t *testing.T) {
	ts := testServer(t, &stubCompiler{})

	resp, body := get(t, ts.URL+"/picture.png?dpi=banana")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "banana") {
		t.Errorf("error should name the value: %q", body)
	}
}

func TestCompileFailure(t *testing.T) {
	ts := testServer(t, &stubCompiler{fail: true})

	// artifact endpoints answer 502 with the trimmed diagnostic
	resp, body := get(t, ts.URL+"/picture.png")
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.HasPrefix(body, "! Undefined control sequence.") {
		t.Errorf("body should start at the TeX error marker: %q", body)
	}

	// the demo page still renders, with the diagnostic inline
	resp, body = get(t, ts.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("demo status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Undefined control sequence") {
		t.Error("demo page should show the diagnostic")
	}
}
