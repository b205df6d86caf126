package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/bin/sync.sh", filepath.Join(home, "bin", "sync.sh")},
		{"/abs/sync.sh", "/abs/sync.sh"},
		{"", ""},
		{"~user/x", "~user/x"},
		{"relative/~/x", "relative/~/x"},
	}
	for _, tt := range tests {
		if got := ExpandHome(tt.in); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := ConfigDir(); got != "/tmp/xdg/tinctd" {
		t.Errorf("ConfigDir() = %q, want /tmp/xdg/tinctd", got)
	}
}
