package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/lotuschain/gnome-ext-builder/internal/core"
)

//go:embed templates/index.html
var templateFS embed.FS

// RequestIDHeader carries the per-request identifier.
const RequestIDHeader = "X-Request-ID"

// ShutdownTimeout bounds graceful shutdown once the serve context ends.
const ShutdownTimeout = 10 * time.Second

// Generator is the pipeline the server drives.
type Generator interface {
	Generate(ctx context.Context, description string) (*core.ArtifactPair, error)
	Provider() core.Provider
}

// Options configures a Server.
type Options struct {
	Generator Generator

	// Model is shown on the page and reported by /healthz.
	Model string

	// ProviderName is the configured provider identifier (gemini, anthropic).
	ProviderName string

	// CredentialConfigured reports whether a credential was found at startup.
	CredentialConfigured bool

	Logger *zap.Logger
}

// Server serves the form page and the JSON generation API.
// At most one generation runs at a time.
type Server struct {
	gen        Generator
	model      string
	provider   string
	credential bool
	logger     *zap.Logger
	page       *template.Template
	busy       atomic.Bool
}

// New creates a server.
func New(opts Options) (*Server, error) {
	if opts.Generator == nil {
		return nil, errors.New("web: generator is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &Server{
		gen:        opts.Generator,
		model:      opts.Model,
		provider:   opts.ProviderName,
		credential: opts.CredentialConfigured,
		logger:     logger.Named("web"),
		page:       page,
	}, nil
}

// Handler returns the root handler, accepting HTTP/1.1 and cleartext HTTP/2.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /{$}", s.handleFormSubmit)
	mux.HandleFunc("POST /api/generate", s.handleAPIGenerate)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return h2c.NewHandler(s.withRequestID(mux), &http2.Server{})
}

// Serve accepts connections on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

type ctxKey struct{}

// withRequestID tags every request with an id and logs its outcome.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		logger := s.logger.With(zap.String("request_id", id))
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), ctxKey{}, logger)))

		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	if logger, ok := r.Context().Value(ctxKey{}).(*zap.Logger); ok {
		return logger
	}
	return s.logger
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
