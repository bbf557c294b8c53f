package utils_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/bikedash-cli/internal/utils"
)

func TestSafeWriteFileReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	if err := utils.SafeWriteFile(path, []byte("one")); err != nil {
		t.Fatal(err)
	}
	if err := utils.SafeWriteFile(path, []byte("two")); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "two" {
		t.Fatalf("got %q", b)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

func TestFindUp(t *testing.T) {
	root := t.TempDir()
	deep := filepath.Join(root, "a", "b")
	if err := utils.EnsureDir(deep); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, ".env")
	if err := os.WriteFile(want, []byte("X=1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := utils.FindUp(deep, ".env")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != want {
		t.Fatalf("got %s want %s", got, want)
	}
	if _, err := utils.FindUp(deep, "no-such-file-here.yaml"); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
