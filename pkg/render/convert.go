// Package render converts compiled PDF artifacts to bitmap and vector
// formats. Conversion is delegated wholesale to the external pdftocairo
// tool (poppler); this package only shells out and reports failures.
package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

// DPI defaults, matching common screen and print resolutions.
const (
	// DisplayDPI is the resolution used for interactive display.
	DisplayDPI = 96

	// FileDPI is the resolution used for PNG files written to disk.
	FileDPI = 300
)

// ToPNG renders the first page of a PDF to PNG at the given resolution.
// A dpi of 0 uses FileDPI.
// Requires poppler: brew install poppler (macOS), apt install poppler-utils (Linux).
func ToPNG(ctx context.Context, pdfPath string, dpi int) ([]byte, error) {
	if dpi <= 0 {
		dpi = FileDPI
	}
	return pdftocairo(ctx, pdfPath, "png", "-png", "-singlefile", "-transp", "-r", strconv.Itoa(dpi))
}

// ToSVG converts the first page of a PDF to SVG.
// Requires poppler: brew install poppler (macOS), apt install poppler-utils (Linux).
func ToSVG(ctx context.Context, pdfPath string) ([]byte, error) {
	return pdftocairo(ctx, pdfPath, "svg", "-svg")
}

// pdftocairo shells out to pdftocairo for format conversion, writing the
// converted page to stdout.
func pdftocairo(ctx context.Context, pdfPath, format string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath("pdftocairo"); err != nil {
		return nil, fmt.Errorf("%s export requires poppler. Install with:\n  macOS:  brew install poppler\n  Linux:  apt install poppler-utils", format)
	}

	args = append(args, "-f", "1", "-l", "1", pdfPath, "-")
	cmd := exec.CommandContext(ctx, "pdftocairo", args...)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftocairo: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
