package relay

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCensorApply(t *testing.T) {
	t.Parallel()

	censor := NewCensor([]string{"OpenAI", "GPT"}, "Hackers Assemble", "@hackers_assemble")
	got := censor.Apply("I am GPT, built by OpenAI.")
	want := "I am Hackers Assemble, built by Hackers Assemble.\n\n@hackers_assemble"
	if got != want {
		t.Fatalf("Apply() = %q, want %q", got, want)
	}
}

func TestCensorApplyNoWords(t *testing.T) {
	t.Parallel()

	censor := NewCensor(nil, "x", "@sig")
	if got := censor.Apply("untouched"); got != "untouched\n\n@sig" {
		t.Fatalf("Apply() = %q", got)
	}
}

func TestLoadWords(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "credits.txt")
	if err := os.WriteFile(path, []byte("alpha\n\n  beta  \ngamma\n"), 0o600); err != nil {
		t.Fatalf("write word list: %v", err)
	}

	words, err := LoadWords(path)
	if err != nil {
		t.Fatalf("LoadWords() error = %v", err)
	}
	if len(words) != 3 || words[0] != "alpha" || words[1] != "beta" || words[2] != "gamma" {
		t.Fatalf("unexpected words %v", words)
	}
}

func TestLoadWordsMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadWords(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
