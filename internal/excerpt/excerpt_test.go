package excerpt

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedExcerpts(t *testing.T) {
	lines := splitLines(embeddedExcerpts)
	if len(lines) < 2 {
		t.Fatalf("expected several embedded excerpts, got %d", len(lines))
	}
	for _, line := range lines {
		if strings.TrimSpace(line) != line || line == "" {
			t.Fatalf("excerpt not trimmed: %q", line)
		}
	}
}

func TestQuotesNeverRepeatsBackToBack(t *testing.T) {
	q := NewQuotesFrom([]string{"a", "b", "c"}, rand.New(rand.NewSource(1)))
	prev := q.Next()
	for i := 0; i < 50; i++ {
		next := q.Next()
		if next == prev {
			t.Fatalf("excerpt %q repeated", next)
		}
		prev = next
	}
}

func TestQuotesEdgeCases(t *testing.T) {
	if got := NewQuotesFrom(nil, rand.New(rand.NewSource(1))).Next(); got != "" {
		t.Fatalf("expected empty excerpt, got %q", got)
	}
	q := NewQuotesFrom([]string{"only"}, rand.New(rand.NewSource(1)))
	if q.Next() != "only" || q.Next() != "only" {
		t.Fatalf("expected single excerpt to repeat")
	}
}

func TestWordsNext(t *testing.T) {
	w := NewWordsFrom([]string{"alpha", "beta", "gamma"}, 5, 0, 0, rand.New(rand.NewSource(7)))
	words := strings.Fields(w.Next())
	if len(words) != 5 {
		t.Fatalf("expected 5 words, got %d", len(words))
	}
	for i := 1; i < len(words); i++ {
		if words[i] == words[i-1] {
			t.Fatalf("word %q repeated", words[i])
		}
	}
}

func TestWordsCapsAndPunct(t *testing.T) {
	w := NewWordsFrom([]string{"alpha", "beta"}, 4, 1, 1, rand.New(rand.NewSource(3)))
	for _, word := range strings.Fields(w.Next()) {
		if !strings.ContainsAny(word[:1], "AB") {
			t.Fatalf("expected capitalized word, got %q", word)
		}
		if !strings.ContainsAny(word[len(word)-1:], DefaultPunctSet) {
			t.Fatalf("expected punctuation, got %q", word)
		}
	}
}

func TestLoadWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en.txt")
	if err := os.WriteFile(path, []byte("one\n\n two \nthree four\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	words, err := LoadWords(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if strings.Join(words, ",") != "one,two" {
		t.Fatalf("unexpected words: %v", words)
	}

	empty := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadWords(empty); err == nil {
		t.Fatalf("expected error for empty list")
	}
}

func TestBuiltinWords(t *testing.T) {
	words := BuiltinWords()
	if len(words) < 10 {
		t.Fatalf("expected a usable word list, got %d words", len(words))
	}
	seen := map[string]bool{}
	for _, w := range words {
		if w != strings.ToLower(w) || strings.ContainsAny(w, " .,!?;:") {
			t.Fatalf("word not normalized: %q", w)
		}
		if seen[w] {
			t.Fatalf("duplicate word %q", w)
		}
		seen[w] = true
	}
}
