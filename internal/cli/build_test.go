package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTikz(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "figure.tikz")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestLoadPicture(t *testing.T) {
	c := newTestCLI(t)
	path := writeTikz(t, "\\draw (0,0) -- (1,1);\n")

	pic, err := c.loadPicture(path, &buildOpts{})
	if err != nil {
		t.Fatalf("loadPicture error: %v", err)
	}

	code := pic.Code(nil)
	if !strings.Contains(code, `\draw (0,0) -- (1,1);`) {
		t.Errorf("picture should contain the source:\n%s", code)
	}
	// trailing newline from the file must not add an empty line
	if strings.Contains(code, ";\n\n") {
		t.Errorf("trailing newline should be trimmed:\n%s", code)
	}
}

func TestLoadPictureWithLibraries(t *testing.T) {
	c := newTestCLI(t)
	path := writeTikz(t, "\\draw (0,0) to (1,1);")

	pic, err := c.loadPicture(path, &buildOpts{libraries: []string{"arrows", "calc"}})
	if err != nil {
		t.Fatalf("loadPicture error: %v", err)
	}

	doc := pic.DocumentCode()
	if !strings.Contains(doc, `\usetikzlibrary{arrows,calc}`) {
		t.Errorf("document should load the requested libraries:\n%s", doc)
	}
}

func TestLoadPictureMissingFile(t *testing.T) {
	c := newTestCLI(t)
	if _, err := c.loadPicture(filepath.Join(t.TempDir(), "nope.tikz"), &buildOpts{}); err == nil {
		t.Error("missing file should error")
	}
}
