package router

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

type HandlerFunc func(http.ResponseWriter, *http.Request)

// Middleware wraps the whole router, chi style.
type Middleware func(http.Handler) http.Handler

type route struct {
	method   string
	pattern  string
	segments []string
	handler  HandlerFunc
}

type mount struct {
	prefix  string
	handler http.Handler
}

// Router matches METHOD + path. A "*" segment matches exactly one path
// segment; the matched values are available through Wildcards. Wildcard
// routes are tried in registration order, so register specific routes first.
type Router struct {
	exact     map[string]HandlerFunc // key = METHOD:PATH
	wildcards []route
	paths     map[string]bool
	mounts    []mount
	mws       []Middleware
	logger    *zap.Logger

	once    sync.Once
	handler http.Handler
}

func New(logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		exact:  make(map[string]HandlerFunc),
		paths:  make(map[string]bool),
		logger: logger,
	}
}

// Use appends middleware. It must be called before the first request.
func (r *Router) Use(mws ...Middleware) {
	r.mws = append(r.mws, mws...)
}

// Handle serves every path starting with prefix, for any method. A prefix
// without a trailing slash is an exact path.
func (r *Router) Handle(prefix string, h http.Handler) {
	r.mounts = append(r.mounts, mount{prefix: prefix, handler: h})
}

// --- Register paths ---
func (r *Router) register(method, path string, handler HandlerFunc) {
	r.paths[path] = true
	if !strings.Contains(path, "*") {
		r.exact[method+":"+path] = handler
		return
	}
	r.wildcards = append(r.wildcards, route{
		method:   method,
		pattern:  path,
		segments: split(path),
		handler:  handler,
	})
}

func (r *Router) GET(path string, handler HandlerFunc)   { r.register(http.MethodGet, path, handler) }
func (r *Router) POST(path string, handler HandlerFunc)  { r.register(http.MethodPost, path, handler) }
func (r *Router) PUT(path string, handler HandlerFunc)   { r.register(http.MethodPut, path, handler) }
func (r *Router) PATCH(path string, handler HandlerFunc) { r.register(http.MethodPatch, path, handler) }
func (r *Router) DELETE(path string, handler HandlerFunc) {
	r.register(http.MethodDelete, path, handler)
}

// Paths returns the registered route patterns.
func (r *Router) Paths() map[string]bool {
	return r.paths
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.once.Do(func() {
		var h http.Handler = http.HandlerFunc(r.dispatch)
		for i := len(r.mws) - 1; i >= 0; i-- {
			h = r.mws[i](h)
		}
		r.handler = h
	})
	r.handler.ServeHTTP(w, req)
}

func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)

	r.route(ww, req)

	r.logger.Info("request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", ww.Status()),
		zap.Int("bytes", ww.BytesWritten()),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", middleware.GetReqID(req.Context())),
	)
}

func (r *Router) route(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path
	if h, ok := r.exact[req.Method+":"+path]; ok {
		h(w, req)
		return
	}

	segments := split(path)
	pathMatched := r.paths[path]
	for _, rt := range r.wildcards {
		values, ok := match(segments, rt.segments)
		if !ok {
			continue
		}
		if rt.method != req.Method {
			pathMatched = true
			continue
		}
		rt.handler(w, req.WithContext(context.WithValue(req.Context(), wildcardsKey{}, values)))
		return
	}

	for _, m := range r.mounts {
		if path == m.prefix || (strings.HasSuffix(m.prefix, "/") && strings.HasPrefix(path, m.prefix)) {
			m.handler.ServeHTTP(w, req)
			return
		}
	}

	if pathMatched {
		Error(w, req, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	Error(w, req, http.StatusNotFound, errors.New("not found"))
}

type wildcardsKey struct{}

// Wildcards returns the path segments matched by "*" in the route pattern.
func Wildcards(req *http.Request) []string {
	values, _ := req.Context().Value(wildcardsKey{}).([]string)
	return values
}

// Param returns the i-th wildcard value, or "".
func Param(req *http.Request, i int) string {
	values := Wildcards(req)
	if i < 0 || i >= len(values) {
		return ""
	}
	return values[i]
}

// Error writes a JSON {"error": ...} body.
func Error(w http.ResponseWriter, req *http.Request, status int, err error) {
	render.Status(req, status)
	render.JSON(w, req, map[string]string{"error": err.Error()})
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func match(requestSegments, routeSegments []string) ([]string, bool) {
	if len(requestSegments) != len(routeSegments) {
		return nil, false
	}
	var values []string
	for i, routeSegment := range routeSegments {
		if routeSegment == "*" {
			if requestSegments[i] == "" {
				return nil, false
			}
			values = append(values, requestSegments[i])
			continue
		}
		if requestSegments[i] != routeSegment {
			return nil, false
		}
	}
	return values, true
}

// --- Start server ---

// Start serves until ctx is cancelled, then shuts down within timeout.
func (r *Router) Start(ctx context.Context, addr string, timeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("server started", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	r.logger.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}
