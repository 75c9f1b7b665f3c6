package bot

import (
	"os"
	"path/filepath"
	"testing"
)

func writeAllowList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "user.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write allow list: %v", err)
	}
	return path
}

func TestLoadAllowList(t *testing.T) {
	t.Parallel()

	path := writeAllowList(t, "1001\n\n 1002 \n1003\n")
	list, err := LoadAllowList(path)
	if err != nil {
		t.Fatalf("LoadAllowList() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(list))
	}
	if !list.Allowed(1002) {
		t.Fatal("expected 1002 to be allowed")
	}
	if list.Allowed(9999) {
		t.Fatal("expected 9999 to be denied")
	}
}

func TestLoadAllowListRejectsBadLine(t *testing.T) {
	t.Parallel()

	path := writeAllowList(t, "1001\nnot-a-number\n")
	if _, err := LoadAllowList(path); err == nil {
		t.Fatal("expected error for non-integer line")
	}
}

func TestLoadAllowListMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadAllowList(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
