package srv

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMiddlewareChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := MiddlewareChain(mark("first"), mark("second"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Join(order, ",") != "first,second,handler" {
		t.Fatalf("unexpected order %v", order)
	}
}

func TestMiddlewareWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	mw := &MiddlewareWriter{rec, http.StatusOK}
	mw.WriteHeader(http.StatusTeapot)

	if mw.StatusCode != http.StatusTeapot || rec.Code != http.StatusTeapot {
		t.Fatalf("status not captured: %d / %d", mw.StatusCode, rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get(HeaderRequestID) != seen {
		t.Fatalf("generated id %q not echoed (header %q)", seen, rec.Header().Get(HeaderRequestID))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if seen != "abc-123" || rec.Header().Get(HeaderRequestID) != "abc-123" {
		t.Fatalf("client id not kept: %q", seen)
	}

	if RequestIDFrom(context.Background()) != "" {
		t.Fatal("expected empty id without middleware")
	}
}

func TestLoggingPassesThrough(t *testing.T) {
	handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/validate", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRecover(t *testing.T) {
	handler := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"error":"Internal Server Error"}` {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestMux_Routes(t *testing.T) {
	mux := NewMux()
	if mux.Mux() == nil {
		t.Fatal("expected underlying ServeMux")
	}

	mux.Get("/items", func(c *HttpContext) error {
		return c.String(http.StatusOK, "get")
	})
	mux.Post("/items", func(c *HttpContext) error {
		return c.String(http.StatusCreated, "post")
	})
	mux.Put("/items", func(c *HttpContext) error {
		return c.String(http.StatusOK, "put")
	})
	mux.Delete("/items", func(c *HttpContext) error {
		return c.String(http.StatusNoContent, "")
	})
	mux.HandleFunc("/raw", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	tests := []struct {
		method   string
		path     string
		wantCode int
		wantBody string
	}{
		{http.MethodGet, "/items", http.StatusOK, "get"},
		{http.MethodPost, "/items", http.StatusCreated, "post"},
		{http.MethodPut, "/items", http.StatusOK, "put"},
		{http.MethodDelete, "/items", http.StatusNoContent, ""},
		{http.MethodPatch, "/items", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/raw", http.StatusTeapot, ""},
		{http.MethodGet, "/missing", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Fatalf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestMux_ErrorHandler(t *testing.T) {
	mux := NewMux()

	var captured error
	mux.ErrorHandler(func(c *HttpContext, err error) {
		captured = err
		_ = c.JSON(http.StatusBadRequest, map[string]string{"error": "custom: " + err.Error()})
	})
	mux.Get("/error", func(c *HttpContext) error {
		return errors.New("test error")
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/error", nil))

	if captured == nil || captured.Error() != "test error" {
		t.Fatalf("error not captured: %v", captured)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"error":"custom: test error"}` {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestMux_DefaultErrorHandler(t *testing.T) {
	mux := NewMux()
	mux.ErrorHandler(nil)
	mux.Post("/error", func(c *HttpContext) error {
		return errors.New("internal error")
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/error", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"error":"Internal Server Error"}` {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	_, port, _ := net.SplitHostPort(l.Addr().String())
	return port
}

func TestRunServer_ShutdownOnCancel(t *testing.T) {
	port := freePort(t)
	ctx, cancel := context.WithCancel(context.Background())

	cleaned := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- RunServer(ctx, http.NotFoundHandler(), "127.0.0.1", port, func() error {
			close(cleaned)
			return nil
		})
	}()

	deadline := time.Now().Add(5 * time.Second)
	for {
		conn, err := net.Dial("tcp", "127.0.0.1:"+port)
		if err == nil {
			conn.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not start: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("RunServer returned %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("RunServer did not return after cancel")
	}

	select {
	case <-cleaned:
	default:
		t.Fatal("cleanup was not called")
	}
}

func TestRunServer_CleanupError(t *testing.T) {
	port := freePort(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	want := errors.New("cleanup failed")
	err := RunServer(ctx, http.NotFoundHandler(), "127.0.0.1", port, func() error {
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("RunServer error = %v, want %v", err, want)
	}
}

func TestRunServer_ListenError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	_, port, _ := net.SplitHostPort(l.Addr().String())

	err = RunServer(context.Background(), http.NotFoundHandler(), "127.0.0.1", port, nil)
	if err == nil {
		t.Fatal("expected error for a port already in use")
	}
}
