package files

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "sub", "out.css")
	log := zap.NewNop()

	if err := WriteFile(dst, []byte("one"), false, log); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := WriteFile(dst, []byte("two"), false, log); err == nil {
		t.Error("expected error for existing file")
	}
	if err := WriteFile(dst, []byte("two"), true, log); err != nil {
		t.Fatalf("WriteFile(overwrite) error = %v", err)
	}
	if data, _ := os.ReadFile(dst); string(data) != "two" {
		t.Errorf("content = %q", data)
	}

	entries, err := os.ReadDir(filepath.Dir(dst))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestWriteFile_FailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	// directory cannot be replaced by a file
	dst := filepath.Join(dir, "icon32.png")
	if err := os.Mkdir(dst, 0755); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(dst, []byte("png"), true, zap.NewNop()); err == nil {
		t.Fatal("expected error")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || !entries[0].IsDir() {
		t.Errorf("unexpected directory content: %v", entries)
	}
}
