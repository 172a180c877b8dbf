// Package pipeline provides the core build pipeline for gotikz.
//
// This package implements the complete compile → convert pipeline that
// can be used by CLI and preview server components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Compile: Run the LaTeX engine on the picture's document, producing a PDF
//  2. Convert: Render the PDF into the requested output formats (PNG, SVG)
//
// Both stages are cached. The compile stage is keyed by the hash of the
// full document text; the convert stage by the document hash plus the
// conversion parameters.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Formats: []string{"png"},
//	    DPI:     300,
//	}
//	result, err := runner.Execute(ctx, pic, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gotikz/gotikz/pkg/cache"
	"github.com/gotikz/gotikz/pkg/latex"
	"github.com/gotikz/gotikz/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Preview Server
// =============================================================================

// DefaultDPI is the default resolution for PNG output.
const DefaultDPI = render.FileDPI

// Format constants for output formats.
const (
	FormatPDF = "pdf"
	FormatPNG = "png"
	FormatSVG = "svg"
	FormatTeX = "tex"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPDF: true,
	FormatPNG: true,
	FormatSVG: true,
	FormatTeX: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the build pipeline.
// This struct supports JSON serialization for preview server requests.
type Options struct {
	// Compile options
	Engine  string `json:"engine,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`

	// Convert options
	Formats []string `json:"formats,omitempty"`
	DPI     int      `json:"dpi,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Code is the rendered tikzpicture fragment.
	Code string

	// DocumentHash is the content hash of the full compilable document.
	DocumentHash string

	// Artifacts contains outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	CompileTime time.Duration
	ConvertTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	CompileHit bool // Whether the compiled PDF came from cache
	ConvertHit bool // Whether all converted artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: pdf, png, svg, tex)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Engine == "" {
		o.Engine = latex.DefaultEngine
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPDF}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for converting to a format.
// The DPI only matters for bitmap output, so vector formats share a key
// across resolutions.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	if format == FormatPNG {
		opts.DPI = o.DPI
	}
	return opts
}
