// Package pkg provides the core libraries for gotikz TikZ picture building.
//
// # Overview
//
// gotikz generates TikZ/PGF markup programmatically, compiles it with a
// LaTeX engine, and converts the result to image formats. The pkg
// directory is organized into five main areas:
//
//  1. [tikz] - Picture assembly (options, coordinates, path operations, scopes)
//  2. [latex] - LaTeX compilation (engine invocation, error diagnostics)
//  3. [render] - PDF conversion to PNG and SVG via poppler
//  4. [pipeline] - Orchestration (compile → convert, both cached)
//  5. [cache] - Content-addressed caching (file, redis)
//
// # Architecture
//
// The typical data flow through gotikz:
//
//	tikz.Picture (typed drawing API)
//	         ↓
//	    [tikz] package (deterministic TikZ/LaTeX markup)
//	         ↓
//	    [latex] package (xelatex compilation)
//	         ↓
//	    [render] package (pdftocairo conversion)
//	         ↓
//	    PDF/PNG/SVG output
//
// # Quick Start
//
// Draw a picture and render it to a PNG file:
//
//	import (
//	    "context"
//	    "github.com/gotikz/gotikz/pkg/tikz"
//	)
//
//	// 1. Assemble the picture
//	pic := tikz.NewPicture()
//	pic.Draw(tikz.NewOptions("thick"), tikz.XY(0, 0), tikz.LineTo(tikz.XY(1, 1)))
//	pic.Fill(tikz.NewOptions("blue!20"), tikz.XY(1, 1), tikz.Circle(0.5))
//
//	// 2. Compile and convert
//	err := pic.WriteImage(context.Background(), "figure.png", 300)
//
// For repeated builds, the [pipeline] package adds content-addressed
// caching so unchanged documents skip LaTeX entirely:
//
//	runner := pipeline.NewRunner(fileCache, nil, logger)
//	result, err := runner.Execute(ctx, pic, pipeline.Options{
//	    Formats: []string{pipeline.FormatPNG, pipeline.FormatSVG},
//	})
//
// # Main Packages
//
//   - tikz: options, coordinates, operations, actions, scopes, pictures
//   - latex: compiler invocation and CompileError diagnostics
//   - render: pdftocairo wrappers for PNG and SVG
//   - pipeline: cached compile/convert runner with stage stats
//   - cache: Cache interface with file, redis, and null backends
//   - preview: HTTP server showing a live rendering of one picture
//   - config: TOML configuration for engine, DPI, and cache backends
//   - observability: hook registries for pipeline, cache, and HTTP events
package pkg
