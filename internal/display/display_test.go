package display

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/mitchellh/go-ps"

	"github.com/jmylchreest/tinctd/internal/process"
)

type fakeProcess struct {
	pid  int
	name string
}

func (p fakeProcess) Pid() int { return p.pid }
func (p fakeProcess) PPid() int { return 1 }
func (p fakeProcess) Executable() string { return p.name }

func processList(names ...string) func() ([]ps.Process, error) {
	return func() ([]ps.Process, error) {
		out := make([]ps.Process, len(names))
		for i, n := range names {
			out[i] = fakeProcess{pid: i + 100, name: n}
		}
		return out, nil
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		backend Backend
		want    string
		wantErr bool
	}{
		{BackendHyprpaper, "hyprpaper", false},
		{BackendSwww, "swww", false},
		{BackendSwaybg, "swaybg", false},
		{BackendAuto, "auto", false},
		{"", "auto", false},
		{"feh", "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			s, err := New(tt.backend, process.NewMockRunner(), nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%q) error = %v, wantErr %v", tt.backend, err, tt.wantErr)
			}
			if err == nil && s.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", s.Name(), tt.want)
			}
		})
	}
}

func TestHyprpaperApply(t *testing.T) {
	runner := process.NewMockRunner()
	s, _ := New(BackendHyprpaper, runner, nil)

	if err := s.Apply(context.Background(), "/walls/a.png"); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	calls := runner.Calls()
	if len(calls) != 2 {
		t.Fatalf("Expected 2 commands, got %d", len(calls))
	}
	want := [][]string{
		{"hyprpaper", "preload", "/walls/a.png"},
		{"hyprpaper", "wallpaper", ",/walls/a.png"},
	}
	for i, c := range calls {
		if c.Path != "hyprctl" || !slices.Equal(c.Args, want[i]) {
			t.Errorf("call %d = %s %v, want hyprctl %v", i, c.Path, c.Args, want[i])
		}
	}
}

func TestHyprpaperPreloadFailureAborts(t *testing.T) {
	runner := process.NewErrorMockRunner("hyprpaper not running")
	s, _ := New(BackendHyprpaper, runner, nil)

	if err := s.Apply(context.Background(), "/walls/a.png"); err == nil {
		t.Fatal("Expected error")
	}
	if runner.CallCount() != 1 {
		t.Errorf("Set should not run after failed preload, got %d calls", runner.CallCount())
	}
}

func TestApplyMakesPathAbsolute(t *testing.T) {
	runner := process.NewMockRunner()
	s, _ := New(BackendSwww, runner, nil)

	if err := s.Apply(context.Background(), "relative.png"); err != nil {
		t.Fatal(err)
	}
	args := runner.Calls()[0].Args
	if !filepath.IsAbs(args[1]) {
		t.Errorf("Expected absolute path, got %q", args[1])
	}
}

func TestSwaybgApply(t *testing.T) {
	runner := process.NewMockRunner()
	s, _ := New(BackendSwaybg, runner, nil)

	if err := s.Apply(context.Background(), "/walls/b.jpg"); err != nil {
		t.Fatal(err)
	}
	started := runner.CallsTo("swaybg")
	if len(started) != 1 || !started[0].Detached {
		t.Fatalf("Expected one detached swaybg, got %+v", started)
	}
	if !slices.Equal(started[0].Args, []string{"-i", "/walls/b.jpg", "-m", "fill"}) {
		t.Errorf("Unexpected args %v", started[0].Args)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		running []string
		want    Backend
		wantErr error
	}{
		{"hyprpaper", []string{"bash", "hyprpaper"}, BackendHyprpaper, nil},
		{"swww", []string{"swww-daemon", "zsh"}, BackendSwww, nil},
		{"swaybg", []string{"swaybg"}, BackendSwaybg, nil},
		{"prefers hyprpaper", []string{"swaybg", "hyprpaper"}, BackendHyprpaper, nil},
		{"none", []string{"bash"}, "", ErrNoBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := detectFrom(processList(tt.running...))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAutoDelegates(t *testing.T) {
	runner := process.NewMockRunner()
	s, _ := New(BackendAuto, runner, nil)
	auto := s.(*Auto)
	auto.processes = processList("swww-daemon")

	if err := auto.Apply(context.Background(), "/walls/c.png"); err != nil {
		t.Fatal(err)
	}
	if len(runner.CallsTo("swww")) != 1 {
		t.Errorf("Expected swww to be used, calls: %+v", runner.Calls())
	}

	auto.processes = processList()
	if err := auto.Apply(context.Background(), "/walls/c.png"); !errors.Is(err, ErrNoBackend) {
		t.Errorf("Expected ErrNoBackend, got %v", err)
	}
}

func TestIsValidBackend(t *testing.T) {
	for _, b := range ValidBackends() {
		if !IsValidBackend(b) {
			t.Errorf("%q should be valid", b)
		}
	}
	if IsValidBackend("feh") {
		t.Error("feh should not be valid")
	}
}
