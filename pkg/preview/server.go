// Package preview serves a live rendering of a picture over HTTP.
//
// The server exposes a demo page showing the rendered picture next to its
// TikZ code, plus raw artifact endpoints (/picture.png, /picture.svg,
// /picture.pdf). It is a development aid: point a browser at it, edit the
// picture source, reload. All rendering goes through the pipeline Runner,
// so repeated loads of an unchanged picture are cache hits.
package preview

import (
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gotikz/gotikz/pkg/latex"
	"github.com/gotikz/gotikz/pkg/observability"
	"github.com/gotikz/gotikz/pkg/pipeline"
	"github.com/gotikz/gotikz/pkg/render"
	"github.com/gotikz/gotikz/pkg/tikz"
)

// demoTemplate shows the rendered picture on the left and the TikZ code on
// the right.
var demoTemplate = template.Must(template.New("demo").Parse(`<!DOCTYPE html>
<html>
<head><title>gotikz preview</title></head>
<body>
<div style="background-color:#e0e0e0;margin:0">
  <div>
    <div style="padding:10px;float:left">
      <img src="{{.PNG}}">
    </div>
    <pre
        style="width:47%;margin:0;padding:10px;float:right;white-space:pre-wrap;font-size:smaller"
        >{{.Code}}</pre>
  </div>
  <div style="clear:both"></div>
</div>
{{if .Diagnostic}}<pre style="color:#a00;padding:10px">{{.Diagnostic}}</pre>{{end}}
</body>
</html>
`))

// Server renders one picture over HTTP.
type Server struct {
	runner     *pipeline.Runner
	picture    *tikz.Picture
	logger     *log.Logger
	displayDPI int
}

// Option configures a Server.
type Option func(*Server)

// WithDisplayDPI sets the resolution used for the demo page's PNG.
func WithDisplayDPI(dpi int) Option {
	return func(s *Server) { s.displayDPI = dpi }
}

// NewServer creates a preview server for a picture.
func NewServer(runner *pipeline.Runner, pic *tikz.Picture, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:     runner,
		picture:    pic,
		logger:     logger,
		displayDPI: render.DisplayDPI,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/", s.handleDemo)
	r.Get("/picture.png", s.handlePNG)
	r.Get("/picture.svg", s.handleSVG)
	r.Get("/picture.pdf", s.handlePDF)
	return r
}

// ListenAndServe runs the server until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	s.logger.Info("preview server listening", "addr", addr)
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// instrument emits request and response events to the registered HTTP
// hooks and the logger.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), duration)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "duration", duration)
	})
}

// handleDemo renders the demo page. A failed compilation still renders the
// page, with an empty image and the compiler diagnostic below.
func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	data := struct {
		PNG        template.URL
		Code       string
		Diagnostic string
	}{
		Code: s.picture.Code(nil),
	}

	result, err := s.execute(r.Context(), pipeline.FormatPNG, s.displayDPI)
	switch {
	case err == nil:
		b64 := base64.StdEncoding.EncodeToString(result.Artifacts[pipeline.FormatPNG])
		data.PNG = template.URL("data:image/png;base64," + b64)
	default:
		ce, ok := latex.AsCompileError(err)
		if !ok {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		s.logger.Error("LaTeX has failed")
		data.Diagnostic = ce.Diagnostic()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := demoTemplate.Execute(w, data); err != nil {
		s.logger.Error("render demo page", "err", err)
	}
}

func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	dpi := s.displayDPI
	if q := r.URL.Query().Get("dpi"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil || parsed <= 0 {
			http.Error(w, fmt.Sprintf("invalid dpi: %q", q), http.StatusBadRequest)
			return
		}
		dpi = parsed
	}
	s.serveArtifact(w, r, pipeline.FormatPNG, dpi, "image/png")
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, pipeline.FormatSVG, 0, "image/svg+xml")
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, pipeline.FormatPDF, 0, "application/pdf")
}

// serveArtifact runs the pipeline for one format and writes the result. A
// compiler failure maps to 502 with the trimmed diagnostic as the body.
func (s *Server) serveArtifact(w http.ResponseWriter, r *http.Request, format string, dpi int, contentType string) {
	result, err := s.execute(r.Context(), format, dpi)
	if err != nil {
		if ce, ok := latex.AsCompileError(err); ok {
			http.Error(w, ce.Diagnostic(), http.StatusBadGateway)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *Server) execute(ctx context.Context, format string, dpi int) (*pipeline.Result, error) {
	return s.runner.Execute(ctx, s.picture, pipeline.Options{
		Formats: []string{format},
		DPI:     dpi,
		Logger:  s.logger,
	})
}
