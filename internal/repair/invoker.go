package repair

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"

	"github.com/LindsayRex/searchfix/internal/faults"
)

// resetPath is the administrative reset endpoint.
const resetPath = "/v1/admin/reset-index"

// maxErrorBody is the maximum number of bytes read from an error response body.
const maxErrorBody = 4096

// Invoker abstracts the indexing subsystem's administrative reset API.
type Invoker interface {
	// ResetIndex asks the administrative interface to rebuild the index
	// from scratch. It fails with faults.ErrRepairUnavailable when the
	// interface cannot be reached — a normal, handled condition on hosts
	// where the daemon does not expose it.
	ResetIndex(ctx context.Context) error
}

// socketInvoker implements Invoker over the daemon's administrative unix
// socket.
type socketInvoker struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// NewInvoker returns an Invoker that talks to the daemon's administrative
// unix socket.
func NewInvoker(cfg Config, logger *slog.Logger) Invoker {
	cfg.ApplyDefaults()
	socketPath := cfg.SocketPath
	return &socketInvoker{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
					var d net.Dialer
					return d.DialContext(ctx, "unix", socketPath)
				},
			},
		},
		logger: logger.With("component", "repair"),
	}
}

func (inv *socketInvoker) ResetIndex(ctx context.Context) error {
	if _, err := os.Stat(inv.cfg.SocketPath); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("repair: reset index: socket %s: %w", inv.cfg.SocketPath, faults.ErrRepairUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "http://localhost"+resetPath, nil)
	if err != nil {
		return fmt.Errorf("repair: reset index: %w", err)
	}

	resp, err := inv.client.Do(req)
	if err != nil {
		// Connection-level failures mean the interface is not serving.
		return fmt.Errorf("repair: reset index: %w: %w", faults.ErrRepairUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("repair: reset index: HTTP %d: %s", resp.StatusCode, string(body))
	}

	inv.logger.Info("administrative index reset accepted", "socket", inv.cfg.SocketPath)
	return nil
}
