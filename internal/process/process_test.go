package process

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestExecRunner(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	r := NewExecRunner()
	ctx := context.Background()

	stdout, _, err := r.Run(ctx, "sh", []string{"-c", "echo hello"}, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if strings.TrimSpace(string(stdout)) != "hello" {
		t.Errorf("Expected hello, got %q", stdout)
	}

	_, stderr, err := r.Run(ctx, "sh", []string{"-c", "echo oops >&2; exit 3"}, nil)
	if err == nil {
		t.Fatal("Expected error for non-zero exit")
	}
	if strings.TrimSpace(string(stderr)) != "oops" {
		t.Errorf("Expected stderr oops, got %q", stderr)
	}
}

func TestExecWrapsCommandError(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	_, err := Exec(context.Background(), NewExecRunner(), "sh", "-c", "echo bad >&2; exit 4")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("Expected CommandError, got %T: %v", err, err)
	}
	if cmdErr.ExitCode() != 4 {
		t.Errorf("Expected exit code 4, got %d", cmdErr.ExitCode())
	}
	if cmdErr.Stderr != "bad" {
		t.Errorf("Expected stderr bad, got %q", cmdErr.Stderr)
	}
	if !strings.Contains(cmdErr.Error(), "stderr: bad") {
		t.Errorf("Error message should include stderr: %s", cmdErr.Error())
	}
}

func TestExecRunnerContextCancel(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, _, err := NewExecRunner().Run(ctx, "sleep", []string{"5"}, nil); err == nil {
		t.Fatal("Expected error when context expires")
	}
	if time.Since(start) > 2*time.Second {
		t.Error("Run did not honour context cancellation")
	}
}

func TestMockRunner(t *testing.T) {
	m := NewMockRunner()
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = Exec(ctx, m, "hyprctl", "hyprpaper", "preload", "/a.png")
		}()
	}
	wg.Wait()

	if err := m.Start("swaybg", []string{"-i", "/a.png"}); err != nil {
		t.Fatal(err)
	}

	if m.CallCount() != 11 {
		t.Errorf("Expected 11 calls, got %d", m.CallCount())
	}
	if got := len(m.CallsTo("hyprctl")); got != 10 {
		t.Errorf("Expected 10 hyprctl calls, got %d", got)
	}
	swaybg := m.CallsTo("swaybg")
	if len(swaybg) != 1 || !swaybg[0].Detached {
		t.Errorf("Expected one detached swaybg call, got %+v", swaybg)
	}

	m.Reset()
	if m.CallCount() != 0 {
		t.Error("Reset should clear calls")
	}
}

func TestErrorMockRunner(t *testing.T) {
	m := NewErrorMockRunner("no daemon")
	_, err := Exec(context.Background(), m, "swww", "img", "/a.png")
	if err == nil || !strings.Contains(err.Error(), "no daemon") {
		t.Errorf("Expected no daemon error, got %v", err)
	}
	if err := m.Start("swaybg", nil); err == nil {
		t.Error("Expected Start to fail")
	}
}

func TestMockRunnerDelayHonoursContext(t *testing.T) {
	m := &MockRunner{Delay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := m.Run(ctx, "x", nil, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
