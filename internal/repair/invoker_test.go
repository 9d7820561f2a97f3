package repair

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/LindsayRex/searchfix/internal/faults"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startAdminServer serves the given handler on a unix socket and returns the
// socket path. Cleanup closes the server and waits for it to drain.
func startAdminServer(t *testing.T, handler http.Handler) string {
	t.Helper()

	socketPath := filepath.Join(t.TempDir(), "admin.sock")
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("Listen(unix, %q) = %v", socketPath, err)
	}

	srv := &http.Server{Handler: handler}
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Serve(ln)
	}()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		<-done
	})
	return socketPath
}

func newTestInvoker(t *testing.T, socketPath string) Invoker {
	t.Helper()
	inv := NewInvoker(Config{SocketPath: socketPath, Timeout: 5 * time.Second}, testLogger())
	t.Cleanup(func() {
		inv.(*socketInvoker).client.CloseIdleConnections()
	})
	return inv
}

func TestResetIndex_Success(t *testing.T) {
	var gotMethod, gotPath string
	socketPath := startAdminServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusAccepted)
	}))

	inv := newTestInvoker(t, socketPath)
	if err := inv.ResetIndex(context.Background()); err != nil {
		t.Fatalf("ResetIndex() = %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, want POST", gotMethod)
	}
	if gotPath != resetPath {
		t.Errorf("path = %q, want %q", gotPath, resetPath)
	}
}

func TestResetIndex_MissingSocket(t *testing.T) {
	inv := newTestInvoker(t, filepath.Join(t.TempDir(), "absent.sock"))

	err := inv.ResetIndex(context.Background())
	if err == nil {
		t.Fatal("ResetIndex() = nil, want error for missing socket")
	}
	if !faults.IsRepairUnavailable(err) {
		t.Errorf("ResetIndex() error = %v, want repair-unavailable classification", err)
	}
}

func TestResetIndex_ConnectionRefused(t *testing.T) {
	// A socket file nothing listens on: present on disk, but connecting
	// fails. Must classify as unavailable, not as a generic error.
	socketPath := filepath.Join(t.TempDir(), "dead.sock")
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("Listen = %v", err)
	}
	ln.(*net.UnixListener).SetUnlinkOnClose(false)
	ln.Close()
	if _, err := os.Stat(socketPath); err != nil {
		t.Fatalf("socket file not left behind by listener: %v", err)
	}

	inv := newTestInvoker(t, socketPath)
	err = inv.ResetIndex(context.Background())
	if err == nil {
		t.Fatal("ResetIndex() = nil, want error for dead socket")
	}
	if !faults.IsRepairUnavailable(err) {
		t.Errorf("ResetIndex() error = %v, want repair-unavailable classification", err)
	}
}

func TestResetIndex_ServerError(t *testing.T) {
	socketPath := startAdminServer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "index rebuild already in progress", http.StatusConflict)
	}))

	inv := newTestInvoker(t, socketPath)
	err := inv.ResetIndex(context.Background())
	if err == nil {
		t.Fatal("ResetIndex() = nil, want error for HTTP 409")
	}
	if faults.IsRepairUnavailable(err) {
		t.Error("HTTP error misclassified as repair-unavailable: the interface did respond")
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.SocketPath != DefaultSocketPath {
		t.Errorf("SocketPath = %q, want %q", cfg.SocketPath, DefaultSocketPath)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
}
