package utils

import (
	"strings"
	"testing"
)

func TestMakeSlug(t *testing.T) {
	cases := map[string]string{
		"Hello World":            "hello-world",
		"Go, Concurrency & You!": "go-concurrency-and-you",
		"  spaced   out  ":       "spaced-out",
	}
	for input, expected := range cases {
		if got := MakeSlug(input); got != expected {
			t.Errorf("MakeSlug(%q) = %q, want %q", input, got, expected)
		}
	}
}

func TestReadingTimeNeverBelowOne(t *testing.T) {
	if got := ReadingTime("just a few words"); got != 1 {
		t.Fatalf("expected 1 minute, got %d", got)
	}
	if got := ReadingTime(""); got != 1 {
		t.Fatalf("expected 1 minute for empty content, got %d", got)
	}
}

func TestReadingTimeRoundsUp(t *testing.T) {
	// 301 words crosses the 300 words/minute boundary.
	content := strings.TrimSpace(strings.Repeat("word ", 301))
	if got := ReadingTime(content); got != 2 {
		t.Fatalf("expected 2 minutes for 301 words, got %d", got)
	}
	content = strings.TrimSpace(strings.Repeat("word ", 300))
	if got := ReadingTime(content); got != 1 {
		t.Fatalf("expected 1 minute for 300 words, got %d", got)
	}
}

func TestRandomPath(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		path := RandomPath(RandomPathLength)
		if len(path) != RandomPathLength {
			t.Fatalf("expected length %d, got %d", RandomPathLength, len(path))
		}
		for _, c := range path {
			if !strings.ContainsRune(pathAlphabet, c) {
				t.Fatalf("character %q outside the path alphabet", c)
			}
		}
		seen[path] = true
	}
	if len(seen) < 100 {
		t.Fatalf("expected 100 distinct paths, got %d", len(seen))
	}
}
