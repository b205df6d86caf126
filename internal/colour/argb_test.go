package colour

import (
	"encoding/json"
	"image/color"
	"testing"
)

func TestARGBFromHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ARGB
		wantErr bool
	}{
		{name: "with hash", input: "#4285f4", want: 0xff4285f4},
		{name: "without hash", input: "4285f4", want: 0xff4285f4},
		{name: "uppercase", input: "#4285F4", want: 0xff4285f4},
		{name: "short form", input: "#f0a", want: 0xffff00aa},
		{name: "black", input: "#000000", want: 0xff000000},
		{name: "empty", input: "", wantErr: true},
		{name: "too long", input: "#4285f4ff", wantErr: true},
		{name: "not hex", input: "#zzzzzz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ARGBFromHex(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ARGBFromHex(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ARGBFromHex(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ARGBFromHex(%q) = %#x, want %#x", tt.input, uint32(got), uint32(tt.want))
			}
		})
	}
}

func TestHexFromARGB(t *testing.T) {
	if got := HexFromARGB(0xff0a0b0c); got != "#0a0b0c" {
		t.Errorf("HexFromARGB() = %q, want %q", got, "#0a0b0c")
	}
	if got := FromRGB(255, 255, 255).Hex(); got != "#ffffff" {
		t.Errorf("Hex() = %q, want %q", got, "#ffffff")
	}
}

// TestHexRoundTripEveryRole checks internal -> hex -> internal is exact for all roles.
func TestHexRoundTripEveryRole(t *testing.T) {
	sources := []ARGB{DefaultSource, 0xffff0000, 0xff00ff00, 0xff808080, 0xff123456, 0xfffedcba}

	for _, src := range sources {
		theme := ThemeFromSource(src)
		for _, scheme := range []Scheme{theme.Dark, theme.Light} {
			for _, role := range scheme.Roles() {
				hex := HexFromARGB(role.Value)
				back, err := ARGBFromHex(hex)
				if err != nil {
					t.Fatalf("%s: ARGBFromHex(%q) failed: %v", role.Name, hex, err)
				}
				if back != role.Value {
					t.Errorf("%s (source %s): round trip %#x -> %s -> %#x", role.Name, src, uint32(role.Value), hex, uint32(back))
				}
				if HexFromARGB(back) != hex {
					t.Errorf("%s: hex round trip mismatch for %s", role.Name, hex)
				}
			}
		}
	}
}

func TestFromColor(t *testing.T) {
	got := FromColor(color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff})
	if got != 0xff123456 {
		t.Errorf("FromColor() = %#x, want 0xff123456", uint32(got))
	}
	if got.R() != 0x12 || got.G() != 0x34 || got.B() != 0x56 || got.Alpha() != 0xff {
		t.Errorf("channel accessors returned %d,%d,%d,%d", got.R(), got.G(), got.B(), got.Alpha())
	}
}

func TestARGBTextMarshalling(t *testing.T) {
	type wrapper struct {
		C ARGB `json:"c"`
	}

	data, err := json.Marshal(wrapper{C: 0xffabcdef})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"c":"#abcdef"}` {
		t.Errorf("Marshal = %s", data)
	}

	var w wrapper
	if err := json.Unmarshal(data, &w); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if w.C != 0xffabcdef {
		t.Errorf("Unmarshal = %#x", uint32(w.C))
	}

	if err := json.Unmarshal([]byte(`{"c":"nope"}`), &w); err == nil {
		t.Error("expected error for invalid colour")
	}
}

func TestContrast(t *testing.T) {
	tests := []struct {
		name string
		a, b ARGB
		want float64
	}{
		{"black on white", 0xff000000, 0xffffffff, 21},
		{"white on black", 0xffffffff, 0xff000000, 21},
		{"same colour", DefaultSource, DefaultSource, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Contrast(tt.a, tt.b); got < tt.want-0.01 || got > tt.want+0.01 {
				t.Errorf("Contrast() = %.3f, want %.1f", got, tt.want)
			}
		})
	}
}
