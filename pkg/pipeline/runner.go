package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gotikz/gotikz/pkg/cache"
	"github.com/gotikz/gotikz/pkg/latex"
	"github.com/gotikz/gotikz/pkg/observability"
	"github.com/gotikz/gotikz/pkg/render"
	"github.com/gotikz/gotikz/pkg/tikz"
)

// Compiler turns a LaTeX document into latex.ProducedPDF inside dir.
// *latex.Compiler is the production implementation; tests substitute stubs.
type Compiler interface {
	Compile(ctx context.Context, dir, doc string) error
}

// Converter renders a compiled PDF into other formats. The zero-value
// PopplerConverter is the production implementation.
type Converter interface {
	ToPNG(ctx context.Context, pdfPath string, dpi int) ([]byte, error)
	ToSVG(ctx context.Context, pdfPath string) ([]byte, error)
}

// PopplerConverter converts through the external pdftocairo tool.
type PopplerConverter struct{}

func (PopplerConverter) ToPNG(ctx context.Context, pdfPath string, dpi int) ([]byte, error) {
	return render.ToPNG(ctx, pdfPath, dpi)
}

func (PopplerConverter) ToSVG(ctx context.Context, pdfPath string) ([]byte, error) {
	return render.ToSVG(ctx, pdfPath)
}

// Runner encapsulates pipeline execution with caching.
// Both CLI and preview server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache     cache.Cache
	Keyer     cache.Keyer
	Compiler  Compiler
	Converter Converter
	Logger    *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:     c,
		Keyer:     keyer,
		Converter: PopplerConverter{},
		Logger:    logger,
	}
}

// Execute runs the complete compile → convert pipeline with caching.
func (r *Runner) Execute(ctx context.Context, pic *tikz.Picture, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	doc := pic.DocumentCode()
	result := &Result{
		Code:         pic.Code(nil),
		DocumentHash: cache.Hash([]byte(doc)),
		Artifacts:    make(map[string][]byte),
	}

	// Stage 1: Compile
	compileStart := time.Now()
	pdfData, compileHit, err := r.CompileWithCacheInfo(ctx, doc, result.DocumentHash, opts)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	result.Stats.CompileTime = time.Since(compileStart)
	result.CacheInfo.CompileHit = compileHit

	r.Logger.Info("compiled document",
		"hash", result.DocumentHash[:12],
		"cached", compileHit,
		"duration", result.Stats.CompileTime)

	// Stage 2: Convert
	convertStart := time.Now()
	artifacts, convertHit, err := r.ConvertWithCacheInfo(ctx, doc, result.DocumentHash, pdfData, opts)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.ConvertTime = time.Since(convertStart)
	result.CacheInfo.ConvertHit = convertHit

	r.Logger.Info("converted outputs",
		"formats", opts.Formats,
		"duration", result.Stats.ConvertTime)

	return result, nil
}

// CompileWithCacheInfo compiles the document with caching and returns the
// PDF bytes and cache hit info.
func (r *Runner) CompileWithCacheInfo(ctx context.Context, doc, docHash string, opts Options) ([]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.DocumentKey(docHash)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "document")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "document")
	}

	// Compile into a scratch directory
	dir, err := latex.ScratchDir()
	if err != nil {
		return nil, false, err
	}
	defer os.RemoveAll(dir)

	observability.Pipeline().OnCompileStart(ctx, opts.Engine)
	start := time.Now()
	err = r.compiler(opts).Compile(ctx, dir, doc)
	observability.Pipeline().OnCompileComplete(ctx, opts.Engine, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(filepath.Join(dir, latex.ProducedPDF))
	if err != nil {
		return nil, false, fmt.Errorf("read compiled pdf: %w", err)
	}

	// Cache the result
	if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLDocument); err == nil {
		observability.Cache().OnCacheSet(ctx, "document", len(data))
	}

	return data, false, nil
}

// ConvertWithCacheInfo produces all requested artifacts with caching and
// returns cache hit info. The tex and pdf formats are derived directly
// from the inputs; png and svg run the converter on a cache miss.
func (r *Runner) ConvertWithCacheInfo(ctx context.Context, doc, docHash string, pdfData []byte, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	artifacts := make(map[string][]byte, len(opts.Formats))
	missing := make([]string, 0, len(opts.Formats))

	for _, format := range opts.Formats {
		switch {
		case format == FormatTeX:
			artifacts[format] = []byte(doc)
		case format == FormatPDF:
			artifacts[format] = pdfData
		case opts.Refresh:
			missing = append(missing, format)
		default:
			cacheKey := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
			} else {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				missing = append(missing, format)
			}
		}
	}

	if len(missing) == 0 {
		return artifacts, true, nil
	}

	// The converter reads the PDF from disk, so materialize the bytes
	// into a scratch file.
	pdfPath, cleanup, err := writeScratchPDF(pdfData)
	if err != nil {
		return nil, false, err
	}
	defer cleanup()

	observability.Pipeline().OnConvertStart(ctx, missing)
	start := time.Now()
	err = r.convertFormats(ctx, pdfPath, docHash, missing, artifacts, opts)
	observability.Pipeline().OnConvertComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	return artifacts, false, nil
}

// convertFormats runs the converter for each missing format and caches the
// results.
func (r *Runner) convertFormats(ctx context.Context, pdfPath, docHash string, formats []string, artifacts map[string][]byte, opts Options) error {
	for _, format := range formats {
		var data []byte
		var err error
		switch format {
		case FormatPNG:
			data, err = r.converter().ToPNG(ctx, pdfPath, opts.DPI)
		case FormatSVG:
			data, err = r.converter().ToSVG(ctx, pdfPath)
		default:
			err = ValidateFormat(format)
		}
		if err != nil {
			return fmt.Errorf("convert %s: %w", format, err)
		}
		artifacts[format] = data

		cacheKey := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return nil
}

// writeScratchPDF writes PDF bytes to a temp file and returns its path and
// a cleanup func.
func writeScratchPDF(data []byte) (string, func(), error) {
	f, err := os.CreateTemp("", "gotikz-*.pdf")
	if err != nil {
		return "", nil, err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", nil, err
	}
	return f.Name(), func() { os.Remove(f.Name()) }, nil
}

// compiler returns the configured compiler, defaulting to latex.Compiler
// with the engine from the options.
func (r *Runner) compiler(opts Options) Compiler {
	if r.Compiler != nil {
		return r.Compiler
	}
	return &latex.Compiler{Executable: opts.Engine}
}

// converter returns the configured converter, defaulting to poppler.
func (r *Runner) converter() Converter {
	if r.Converter != nil {
		return r.Converter
	}
	return PopplerConverter{}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
