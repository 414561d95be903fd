package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "basic normalization",
			input: "Radiohead",
			want:  "radiohead",
		},
		{
			name:  "extra whitespace",
			input: "  Thom   Yorke  ",
			want:  "thom yorke",
		},
		{
			name:  "accents stripped",
			input: "Sigur Rós",
			want:  "sigur ros",
		},
		{
			name:  "mixed case",
			input: "MuSe",
			want:  "muse",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeName(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeName() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSameArtist(t *testing.T) {
	t.Run("identical after folding", func(t *testing.T) {
		if !SameArtist("Björk", "bjork") {
			t.Error("expected accent-insensitive match")
		}
	})

	t.Run("different artists", func(t *testing.T) {
		if SameArtist("Radiohead", "Muse") {
			t.Error("expected Radiohead and Muse to differ")
		}
	})

	t.Run("empty name never matches", func(t *testing.T) {
		if SameArtist("", "Muse") {
			t.Error("expected empty name to never match")
		}
		if NameSimilarity("", "") != 0 {
			t.Error("expected zero similarity for empty names")
		}
	})
}

func TestBrowserCommand(t *testing.T) {
	t.Run("linux uses xdg-open", func(t *testing.T) {
		args, err := browserCommand("linux", "http://example.com")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if args[0] != "xdg-open" || args[1] != "http://example.com" {
			t.Errorf("unexpected command %v", args)
		}
	})

	t.Run("darwin uses open", func(t *testing.T) {
		args, _ := browserCommand("darwin", "http://example.com")
		if args[0] != "open" {
			t.Errorf("expected open, got %s", args[0])
		}
	})

	t.Run("unsupported platform", func(t *testing.T) {
		if _, err := browserCommand("plan9", "http://example.com"); err == nil {
			t.Error("expected error for unsupported platform")
		}
	})

	t.Run("OpenBrowser reports unsupported runtime", func(t *testing.T) {
		orig := getRuntime
		defer func() { getRuntime = orig }()
		getRuntime = func() string { return "plan9" }

		if err := OpenBrowser("http://example.com"); err == nil {
			t.Error("expected error for unsupported runtime")
		}
	})
}

func TestLogger(t *testing.T) {
	t.Run("WithLogger adds fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "run", "abc")
		logger.Info("hello")

		if !strings.Contains(buf.String(), "run=abc") {
			t.Errorf("expected run field in output, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger appends to the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "tui.log")

		logger, closer, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		logger.Info("first")
		closer.Close()

		logger, closer, err = NewFileLogger(path)
		if err != nil {
			t.Fatalf("expected no error reopening, got %v", err)
		}
		logger.Info("second")
		closer.Close()

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), "first") || !strings.Contains(string(data), "second") {
			t.Errorf("expected both entries, got %q", string(data))
		}
	})

	t.Run("NewFileLogger fails on unusable path", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		os.WriteFile(blocker, []byte("x"), 0o600)

		if _, _, err := NewFileLogger(filepath.Join(blocker, "tui.log")); err == nil {
			t.Error("expected error when the parent is a file")
		}
	})

	t.Run("GenerateID is unique", func(t *testing.T) {
		if GenerateID() == GenerateID() {
			t.Error("expected distinct ids")
		}
	})

	t.Run("GenerateState", func(t *testing.T) {
		state, err := GenerateState()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(state) != 36 {
			t.Errorf("expected uuid-shaped state, got %q", state)
		}
	})
}
