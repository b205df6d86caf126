package synchook

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmylchreest/tinctd/internal/process"
)

func TestHookRun(t *testing.T) {
	runner := process.NewMockRunner()
	h := New("/usr/local/bin/sync-colors.sh", runner, nil)

	if err := h.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	calls := runner.Calls()
	if len(calls) != 1 {
		t.Fatalf("Expected 1 call, got %d", len(calls))
	}
	if calls[0].Path != "/usr/local/bin/sync-colors.sh" || len(calls[0].Args) != 0 {
		t.Errorf("Expected hook with no arguments, got %+v", calls[0])
	}
}

func TestHookDisabled(t *testing.T) {
	runner := process.NewMockRunner()
	h := New("", runner, nil)

	if h.Enabled() {
		t.Error("Empty path should disable the hook")
	}
	if err := h.Run(context.Background()); err != nil {
		t.Errorf("Disabled hook should not fail: %v", err)
	}
	if runner.CallCount() != 0 {
		t.Error("Disabled hook should not run anything")
	}
}

func TestHookFailureReturned(t *testing.T) {
	h := New("/bin/sync", process.NewErrorMockRunner("exit status 2"), nil)
	if err := h.Run(context.Background()); err == nil {
		t.Error("Expected hook failure to be reported")
	}
}

func TestHookRealScript(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "ran")
	script := filepath.Join(dir, "sync.sh")
	content := "#!/bin/sh\ntouch " + marker + "\n"
	if err := os.WriteFile(script, []byte(content), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}

	if err := New(script, nil, nil).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Error("Hook script did not run")
	}
}
