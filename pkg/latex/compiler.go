// Package latex wraps the external LaTeX toolchain. It is the only place
// the library starts a compiler process; everything above it works with the
// produced PDF artifact.
//
// Compilation uses TikZ's externalization arguments directly: a normal run
// of the external library would re-invoke the compiler with these special
// arguments to write each picture out as an individual PDF, so invoking
// them ourselves yields a PDF of just the tikzpicture contents instead of a
// full document page (PGF manual, section 53).
package latex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
)

// DefaultEngine is the LaTeX executable used when none is configured.
const DefaultEngine = "xelatex"

const (
	// SourceName is the file the document is written to inside the
	// working directory. The externalization job name derives from it.
	SourceName = "tikz.tex"

	// JobName is the externalized figure job, so the compiler produces
	// JobName + ".pdf" in the working directory.
	JobName = "tikz-figure0"
)

// ProducedPDF is the artifact file name the compiler leaves in the working
// directory on success.
const ProducedPDF = JobName + ".pdf"

// CompileError reports a failed compiler run, carrying the captured
// process output for diagnosis.
type CompileError struct {
	Engine string
	Log    string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s failed\n%s", e.Engine, e.Log)
}

// Diagnostic returns the captured log trimmed to the first TeX error
// marker ("! "), or the full log when no marker is present.
func (e *CompileError) Diagnostic() string {
	if i := bytes.Index([]byte(e.Log), []byte("! ")); i >= 0 {
		return e.Log[i:]
	}
	return e.Log
}

// AsCompileError unwraps a *CompileError from an error chain.
func AsCompileError(err error) (*CompileError, bool) {
	var ce *CompileError
	ok := errors.As(err, &ce)
	return ce, ok
}

// Compiler invokes an external LaTeX executable. The zero value uses
// DefaultEngine.
type Compiler struct {
	// Executable is the compiler binary name or path.
	Executable string
}

// engine returns the configured executable, defaulting to DefaultEngine.
func (c *Compiler) engine() string {
	if c == nil || c.Executable == "" {
		return DefaultEngine
	}
	return c.Executable
}

// Compile writes doc into dir as SourceName and runs the compiler there
// with the externalization arguments, blocking until it exits. On success
// the working directory contains ProducedPDF. A nonzero exit returns a
// *CompileError with the combined captured output; the context cancels the
// process when done.
func (c *Compiler) Compile(ctx context.Context, dir, doc string) error {
	engine := c.engine()
	if _, err := exec.LookPath(engine); err != nil {
		return fmt.Errorf("compiling requires a LaTeX toolchain with %s on PATH", engine)
	}

	src := filepath.Join(dir, SourceName)
	if err := os.WriteFile(src, []byte(doc), 0644); err != nil {
		return fmt.Errorf("write %s: %w", SourceName, err)
	}

	cmd := exec.CommandContext(ctx, engine,
		"-jobname", JobName,
		`\def\tikzexternalrealjob{tikz}\input{tikz}`,
	)
	cmd.Dir = dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &CompileError{Engine: engine, Log: out.String()}
	}
	return nil
}

// ScratchDir creates a fresh working directory for compiler artifacts
// under the system temp directory.
func ScratchDir() (string, error) {
	dir := filepath.Join(os.TempDir(), "gotikz-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}
	return dir, nil
}
