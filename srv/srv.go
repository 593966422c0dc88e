// Package srv provides the HTTP plumbing of the msgcheck API: a mux with
// error-returning handlers, request logging, panic recovery, request ids
// and a server runner with graceful shutdown.
//
// Example usage:
//
//	mux := srv.NewMux()
//	mux.Get("/healthz", func(c *srv.HttpContext) error {
//		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
//	})
//
//	handler := srv.MiddlewareChain(srv.RequestID, srv.Logging, srv.Recover)(mux)
//	err := srv.RunServer(ctx, handler, "localhost", "8080", func() error {
//		return nil
//	})
package srv

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// Middleware wraps an http.Handler with additional behaviour.
type Middleware func(next http.Handler) http.Handler

// MiddlewareChain combines middleware into one. The first middleware in the
// list is the outermost wrapper:
//
//	MiddlewareChain(Logging, Recover)(mux) // Logging(Recover(mux))
func MiddlewareChain(m ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		for i := len(m) - 1; i >= 0; i-- {
			next = m[i](next)
		}
		return next
	}
}

// MiddlewareWriter captures the status code written by a handler.
type MiddlewareWriter struct {
	http.ResponseWriter
	StatusCode int
}

// WriteHeader records statusCode and forwards it.
func (w *MiddlewareWriter) WriteHeader(statusCode int) {
	w.StatusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

type requestIDKey struct{}

// RequestID assigns every request an id, taken from the X-Request-Id header
// when the client sent one. The id is echoed in the response header and
// stored in the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// RequestIDFrom returns the request id stored by RequestID, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Logging logs every completed request with its status code.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		mw := &MiddlewareWriter{w, http.StatusOK}
		next.ServeHTTP(mw, r)
		slog.With(
			slog.String("name", "srv.Logging"),
			slog.String("request-id", RequestIDFrom(r.Context())),
			slog.Int("status", mw.StatusCode),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration", time.Since(start)),
			slog.String("user-agent", r.UserAgent()),
			slog.String("remote-addr", r.RemoteAddr),
		).Info("request completed")
	})
}

// Recover turns a panic in next into a logged 500 response.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				slog.With(
					slog.String("name", "srv.Recover"),
					slog.String("request-id", RequestIDFrom(r.Context())),
					slog.Any("error", err),
				).Error("recovered from panic")
				_ = NewHttpContext(w, r).JSON(http.StatusInternalServerError, errorBody{Error: http.StatusText(http.StatusInternalServerError)})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Mux
// =============================================================================

// HandlerFunc handles a request and may return an error for the mux's
// error handler.
type HandlerFunc func(c *HttpContext) error

// ErrorHandlerFunc renders an error returned by a HandlerFunc.
type ErrorHandlerFunc func(c *HttpContext, err error)

type errorBody struct {
	Error string `json:"error"`
}

// Mux is an http.ServeMux whose handlers return errors.
type Mux struct {
	mux          *http.ServeMux
	errorHandler ErrorHandlerFunc
}

// NewMux creates a Mux with the default error handler.
func NewMux() *Mux {
	return &Mux{
		mux:          http.NewServeMux(),
		errorHandler: defaultErrorHandler,
	}
}

func defaultErrorHandler(c *HttpContext, err error) {
	slog.With(
		slog.String("name", "srv.defaultErrorHandler"),
		slog.String("path", c.Path()),
		slog.Any("error", err),
	).Error("request failed")
	_ = c.JSON(http.StatusInternalServerError, errorBody{Error: http.StatusText(http.StatusInternalServerError)})
}

// Mux returns the underlying ServeMux.
func (m *Mux) Mux() *http.ServeMux {
	return m.mux
}

// ErrorHandler replaces the error handler.
func (m *Mux) ErrorHandler(h ErrorHandlerFunc) {
	if h != nil {
		m.errorHandler = h
	}
}

// Handle registers a plain http.Handler.
func (m *Mux) Handle(pattern string, handler http.Handler) {
	m.mux.Handle(pattern, handler)
}

// HandleFunc registers a plain handler function.
func (m *Mux) HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	m.mux.HandleFunc(pattern, handler)
}

// Get registers h for GET requests on path.
func (m *Mux) Get(path string, h HandlerFunc) {
	m.route(http.MethodGet, path, h)
}

// Post registers h for POST requests on path.
func (m *Mux) Post(path string, h HandlerFunc) {
	m.route(http.MethodPost, path, h)
}

// Put registers h for PUT requests on path.
func (m *Mux) Put(path string, h HandlerFunc) {
	m.route(http.MethodPut, path, h)
}

// Delete registers h for DELETE requests on path.
func (m *Mux) Delete(path string, h HandlerFunc) {
	m.route(http.MethodDelete, path, h)
}

func (m *Mux) route(method, path string, h HandlerFunc) {
	m.mux.HandleFunc(method+" "+path, func(w http.ResponseWriter, r *http.Request) {
		c := NewHttpContext(w, r)
		if err := h(c); err != nil {
			m.errorHandler(c, err)
		}
	})
}

// ServeHTTP implements http.Handler.
func (m *Mux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mux.ServeHTTP(w, r)
}

// =============================================================================
// Server
// =============================================================================

// RunServer serves handler on host:port until ctx is cancelled or the
// process receives SIGINT or SIGTERM. Empty host and port default to
// 0.0.0.0 and 8000. On shutdown in-flight requests get up to 10 seconds to
// finish, then cleanup runs.
func RunServer(ctx context.Context, handler http.Handler, host string, port string, cleanup func() error) error {
	if host == "" {
		host = "0.0.0.0"
	}
	if port == "" {
		port = "8000"
	}

	server := http.Server{
		Addr:              host + ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
			return
		}
		close(serverErrCh)
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.With(
		slog.String("name", "srv.RunServer"),
		slog.String("addr", server.Addr),
	).Info("server started")

	select {
	case <-ctx.Done():
	case err := <-serverErrCh:
		if err != nil {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cleanup != nil {
		if err := cleanup(); err != nil {
			return err
		}
	}
	return nil
}
