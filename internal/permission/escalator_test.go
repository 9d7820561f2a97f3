package permission

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/LindsayRex/searchfix/internal/faults"
	"github.com/LindsayRex/searchfix/internal/privilege"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTakeOwnership_DeniedWhenNotElevated(t *testing.T) {
	esc := NewEscalator(privilege.Static(false), testLogger())

	err := esc.TakeOwnership(context.Background(), t.TempDir())
	if err == nil {
		t.Fatal("TakeOwnership() = nil, want error for non-elevated caller")
	}
	if faults.Classify(err) != faults.ErrEscalationDenied {
		t.Errorf("TakeOwnership() error = %v, want escalation-denied classification", err)
	}
}

func TestTakeOwnership_WidensOwnerBits(t *testing.T) {
	esc := NewEscalator(privilege.Static(true), testLogger())

	root := t.TempDir()
	sub := filepath.Join(root, "logs")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("MkdirAll = %v", err)
	}
	locked := filepath.Join(sub, "index.db")
	if err := os.WriteFile(locked, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile = %v", err)
	}
	// Owner has no write access until ownership is taken.
	if err := os.Chmod(locked, 0o400); err != nil {
		t.Fatalf("Chmod = %v", err)
	}

	if err := esc.TakeOwnership(context.Background(), root); err != nil {
		t.Fatalf("TakeOwnership() = %v", err)
	}

	info, err := os.Stat(locked)
	if err != nil {
		t.Fatalf("Stat = %v", err)
	}
	if info.Mode().Perm()&0o600 != 0o600 {
		t.Errorf("perm = %04o, want owner read+write set", info.Mode().Perm())
	}

	dirInfo, err := os.Stat(sub)
	if err != nil {
		t.Fatalf("Stat = %v", err)
	}
	if dirInfo.Mode().Perm()&0o700 != 0o700 {
		t.Errorf("dir perm = %04o, want owner rwx set", dirInfo.Mode().Perm())
	}
}

func TestTakeOwnership_Idempotent(t *testing.T) {
	esc := NewEscalator(privilege.Static(true), testLogger())
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "index.db"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile = %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := esc.TakeOwnership(context.Background(), root); err != nil {
			t.Fatalf("TakeOwnership() pass %d = %v", i+1, err)
		}
	}
}

func TestTakeOwnership_MissingPath(t *testing.T) {
	esc := NewEscalator(privilege.Static(true), testLogger())

	err := esc.TakeOwnership(context.Background(), filepath.Join(t.TempDir(), "absent"))
	if err == nil {
		t.Fatal("TakeOwnership() = nil, want error for missing path")
	}
	if faults.Classify(err) != faults.ErrNotFound {
		t.Errorf("TakeOwnership() error = %v, want not-found classification", err)
	}
}
