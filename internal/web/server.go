// Package web serves the browser chat UI and a small JSON API on top of a
// query engine. Every successful chat is recorded in the ledger and history.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/davetashner/tally/internal/config"
	"github.com/davetashner/tally/internal/query"
)

//go:embed templates/*.html
var templateFS embed.FS

const shutdownTimeout = 10 * time.Second

// Server is the chat UI.
type Server struct {
	engine *query.Engine
	models []string
	theme  string
	tmpl   *template.Template
}

// Option configures a Server.
type Option func(*Server)

// WithModels sets the model choices offered in the sidebar. The first entry
// is the default selection.
func WithModels(models []string) Option {
	return func(s *Server) {
		if len(models) > 0 {
			s.models = append([]string(nil), models...)
		}
	}
}

// WithTheme sets the default theme, "dark" or "light".
func WithTheme(theme string) Option {
	return func(s *Server) {
		if _, ok := palettes[theme]; ok {
			s.theme = theme
		}
	}
}

// New creates a Server. The engine must record history.
func New(engine *query.Engine, opts ...Option) (*Server, error) {
	if engine == nil {
		return nil, errors.New("web: engine is required")
	}
	if engine.History() == nil {
		return nil, errors.New("web: engine must record history")
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}

	s := &Server{
		engine: engine,
		models: append([]string(nil), config.DefaultModels...),
		theme:  "dark",
		tmpl:   tmpl,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Handler returns the router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/chat", s.handleChat)
	r.Post("/tokens/reset", s.handleResetTokens)
	r.Post("/history/clear", s.handleClearHistory)
	r.Get("/final.json", s.handleFinal)

	r.Route("/api", func(api chi.Router) {
		api.Get("/usage", s.handleAPIUsage)
		api.Get("/history", s.handleAPIHistory)
		api.Post("/ask", s.handleAPIAsk)
	})
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("web: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("web UI listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("web: serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("web: shutdown: %w", err)
		}
		slog.Info("web UI stopped")
		return nil
	})
	return g.Wait()
}

// requestLogger logs one line per request through slog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Debug("http request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// pickModel returns m when it is one of the offered models, otherwise the
// default.
func (s *Server) pickModel(m string) string {
	if slices.Contains(s.models, m) {
		return m
	}
	return s.models[0]
}

func (s *Server) pickTheme(t string) string {
	if _, ok := palettes[t]; ok {
		return t
	}
	return s.theme
}
