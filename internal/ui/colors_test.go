package ui

import "testing"

func TestPalette(t *testing.T) {
	p := PlainPalette()

	tc := []struct {
		name string
		got  string
		want string
	}{
		{"title", p.Title("Radiohead"), "Radiohead"},
		{"ok", p.OK("done"), "✓ done"},
		{"err", p.Err("failed"), "✗ failed"},
		{"warn", p.Warn("careful"), "⚠ careful"},
		{"help", p.Help("hint"), "hint"},
	}
	for _, tt := range tc {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}

	if DefaultPalette == nil {
		t.Fatal("expected default palette")
	}
}
