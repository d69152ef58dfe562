package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/conexus/internal/config"
	"github.com/MrSnakeDoc/conexus/internal/httpserver/deps"
	"github.com/MrSnakeDoc/conexus/internal/httpserver/mw"
	"github.com/MrSnakeDoc/conexus/internal/httpserver/respond"
	"github.com/MrSnakeDoc/conexus/internal/httpserver/routes"
	"github.com/MrSnakeDoc/conexus/internal/logger"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	http   *http.Server
	logger logger.Logger
}

// NewRouter builds the router: pipeline stages first, then the JSON
// fallbacks, then every registered route.
func NewRouter(d deps.Deps, p mw.Pipeline) chi.Router {
	r := chi.NewRouter()
	r.Use(p.Middlewares(d.Logger)...)

	// set before routes are registered so mounted sub-routers inherit them
	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed(r))

	routes.RegisterAll(r, d)
	return r
}

// New builds the HTTP server (router, middlewares, route registration).
func New(cfg *config.Config, d deps.Deps, p mw.Pipeline) *Server {
	s := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           NewRouter(d, p),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return &Server{
		http:   s,
		logger: d.Logger,
	}
}

// Start runs the HTTP server (blocks until error or shutdown).
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve runs the server on an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("HTTP server listening", logger.String("addr", ln.Addr().String()))
	err := s.http.Serve(ln)
	// http.ErrServerClosed is expected on graceful shutdown.
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully shuts down the server with the provided context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down...")
	return s.http.Shutdown(ctx)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, http.StatusNotFound, respond.CodeRouteNotFound, "no route for "+r.URL.Path)
}

var probeMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

// methodNotAllowed answers 405 with the Allow header computed from the
// routing tree.
func methodNotAllowed(router chi.Routes) http.HandlerFunc {
	idx := &allowIndex{router: router}
	return func(w http.ResponseWriter, r *http.Request) {
		if allowed := idx.allowed(r.URL.Path); len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
		}
		respond.Error(w, http.StatusMethodNotAllowed, respond.CodeMethodNotAllowed,
			r.Method+" not allowed on "+r.URL.Path)
	}
}

// allowIndex flattens the routing tree into one mux of concrete routes.
// Matching the router itself is not enough: Mount registers its prefix as a
// catch-all stub, which answers every method without consulting the
// sub-router. chi.Walk skips those stubs and joins sub-router patterns.
// The index is built on first use, once every route is registered.
type allowIndex struct {
	router chi.Routes
	once   sync.Once
	flat   *chi.Mux
}

func (a *allowIndex) allowed(path string) []string {
	a.once.Do(func() {
		a.flat = chi.NewMux()
		noop := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
		_ = chi.Walk(a.router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
			a.flat.Method(method, trimTrailingSlashes(route), noop)
			return nil
		})
	})

	path = trimTrailingSlashes(path)
	var allowed []string
	for _, m := range probeMethods {
		if a.flat.Match(chi.NewRouteContext(), m, path) {
			allowed = append(allowed, m)
		}
	}
	return allowed
}

func trimTrailingSlashes(p string) string {
	p = strings.TrimRight(p, "/")
	if p == "" {
		return "/"
	}
	return p
}
