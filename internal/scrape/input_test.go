package scrape

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRewriteDOI(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		want  string
	}{
		{"bare doi", "10.1039/D3OB00424D", "https://doi.org/10.1039/D3OB00424D"},
		{"already a url", "https://example.org/a", "https://example.org/a"},
		{"garbage", "not_a_url", NoURLSentinel},
		{"non-https url", "http://example.org/a", NoURLSentinel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RewriteDOI(tt.entry); got != tt.want {
				t.Errorf("RewriteDOI(%q) = %q, want %q", tt.entry, got, tt.want)
			}
		})
	}
}

func TestParsePlaintextInputCoercesGarbageLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	content := "https://example.org/a\n10.1039/D3OB00424D\nnot_a_url\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write input file: %v", err)
	}

	urls, err := ParsePlaintextInput(path)
	if err != nil {
		t.Fatalf("ParsePlaintextInput: %v", err)
	}
	want := []string{"https://example.org/a", "https://doi.org/10.1039/D3OB00424D", NoURLSentinel}
	if len(urls) != len(want) {
		t.Fatalf("got %d urls, want %d", len(urls), len(want))
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], want[i])
		}
	}
}

