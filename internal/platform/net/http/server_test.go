package http_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"custintel/internal/platform/config"
	phttp "custintel/internal/platform/net/http"
)

func localServer(t *testing.T, opts ...func(*chi.Mux)) *phttp.Server {
	t.Helper()
	return phttp.NewServer(config.FromMap(map[string]string{
		"API_PORT":           "127.0.0.1:0",
		"API_SHUTDOWN_GRACE": "1s",
	}), opts...)
}

// start runs srv in the background and returns its bound address and Run's result
func start(t *testing.T, ctx context.Context, srv *phttp.Server) (string, <-chan error) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	for deadline := time.Now().Add(2 * time.Second); strings.HasSuffix(srv.Addr(), ":0"); {
		if time.Now().After(deadline) {
			t.Fatal("server never bound a port")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return srv.Addr(), done
}

func finished(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

func TestServer_ServesUntilCancel(t *testing.T) {
	configured := false
	srv := localServer(t, func(*chi.Mux) { configured = true })
	if !configured {
		t.Fatal("router option not applied")
	}
	srv.Router().Get("/meta/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"healthy"}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	addr, done := start(t, ctx, srv)

	res, err := http.Get("http://" + addr + "/meta/health")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(res.Body)
	_ = res.Body.Close()
	if res.StatusCode != http.StatusOK || !strings.Contains(string(body), "healthy") {
		t.Fatalf("health: %d %s", res.StatusCode, body)
	}

	cancel()
	if err := finished(t, done); err != nil {
		t.Fatalf("run after cancel: %v", err)
	}
}

func TestServer_ShutdownEndsRun(t *testing.T) {
	srv := localServer(t)
	_, done := start(t, context.Background(), srv)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if err := finished(t, done); err != nil {
		t.Fatalf("run after shutdown: %v", err)
	}
}

func TestServer_Addr(t *testing.T) {
	srv := phttp.NewServer(config.FromMap(map[string]string{"API_PORT": ":12345"}))
	if got := srv.Addr(); got != ":12345" {
		t.Fatalf("want :12345 got %s", got)
	}

	bad := phttp.NewServer(config.FromMap(map[string]string{"API_PORT": "127.0.0.1:abc"}))
	if err := bad.Run(context.Background()); err == nil {
		t.Fatal("want error for invalid addr")
	}
}
