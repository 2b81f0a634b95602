package shared

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID()
		if id == "" {
			t.Fatal("GenerateID returned empty string")
		}
		if seen[id] {
			t.Fatalf("GenerateID returned duplicate: %s", id)
		}
		seen[id] = true
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain title", "Bohemian Rhapsody", "Bohemian Rhapsody"},
		{"path separators", "AC/DC - Back in Black", "AC_DC - Back in Black"},
		{"backslash", `a\b`, "a_b"},
		{"traversal attempt", "../../etc/passwd", "_.._etc_passwd"},
		{"control characters", "bad\x00name\x1f", "bad_name_"},
		{"windows reserved", `t:i*t?l"e<o>r|`, "t_i_t_l_e_o_r_"},
		{"leading dots", "...hidden", "hidden"},
		{"only separators", "///", "___"},
		{"only dots and spaces", " .. ", "untitled"},
		{"empty", "", "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFileNameNeverProducesPath(t *testing.T) {
	inputs := []string{"a/b/c", "..", "a/../b", `C:\Windows`, "\x01\x02"}
	for _, in := range inputs {
		got := SanitizeFileName(in)
		if strings.ContainsAny(got, `/\`) {
			t.Errorf("SanitizeFileName(%q) = %q still contains a separator", in, got)
		}
		if got == "." || got == ".." || got == "" {
			t.Errorf("SanitizeFileName(%q) = %q is not a usable name", in, got)
		}
	}
}

func TestTitleFromKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"3fa1b2c3/Bohemian Rhapsody.webm", "Bohemian Rhapsody"},
		{"abc/def/Song Title.m4a", "Song Title"},
		{"no-prefix.opus", "no-prefix"},
		{"prefix/noext", "noext"},
	}

	for _, tt := range tests {
		if got := TitleFromKey(tt.key); got != tt.want {
			t.Errorf("TitleFromKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var buf strings.Builder
	logger := NewLogger(&buf)
	logger.Info("hello", "key", "value")

	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("expected log output to contain message, got %q", buf.String())
	}
}
