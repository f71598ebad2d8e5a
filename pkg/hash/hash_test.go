package hash

import (
	"strings"
	"testing"
)

func TestSHA256Hex(t *testing.T) {
	// Known SHA256 of "hello"
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	got := SHA256Hex("hello")
	if got != want {
		t.Errorf("SHA256Hex(\"hello\") = %s, want %s", got, want)
	}
}

func TestSHA256Hex_Empty(t *testing.T) {
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	got := SHA256Hex("")
	if got != want {
		t.Errorf("SHA256Hex(\"\") = %s, want %s", got, want)
	}
}

func TestPrefix(t *testing.T) {
	full := SHA256Hex("203.0.113.7")

	tests := []struct {
		name string
		n    int
		want string
	}{
		{"4 chars", 4, full[:4]},
		{"12 chars", 12, full[:12]},
		{"longer than hash", 100, full},
		{"zero", 0, full},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Prefix("203.0.113.7", tt.n); got != tt.want {
				t.Errorf("Prefix(_, %d) = %s, want %s", tt.n, got, tt.want)
			}
		})
	}
}

func TestLogIP(t *testing.T) {
	got := LogIP("192.168.1.1")
	if len(got) != 12 {
		t.Errorf("LogIP length = %d, want 12", len(got))
	}
	if got == LogIP("10.0.0.1") {
		t.Error("different IPs should produce different hashes")
	}
}

func TestETag(t *testing.T) {
	a := ETag([]byte(`{"id":1}`))
	if !strings.HasPrefix(a, `"`) || !strings.HasSuffix(a, `"`) || len(a) != 34 {
		t.Errorf("ETag = %s, want a quoted 32-char hex tag", a)
	}
	if a != ETag([]byte(`{"id":1}`)) {
		t.Error("ETag should be deterministic")
	}
	if a == ETag([]byte(`{"id":2}`)) {
		t.Error("different bodies should produce different tags")
	}
}
