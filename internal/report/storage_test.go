package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskStore_SaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	if err != nil {
		t.Fatalf("NewDiskStore failed: %v", err)
	}

	storedName, size, err := store.Save(context.Background(), strings.NewReader("jpeg-bytes"), "photo.jpg")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if size != int64(len("jpeg-bytes")) {
		t.Errorf("size = %d, want %d", size, len("jpeg-bytes"))
	}
	if !strings.HasSuffix(storedName, ".jpg") {
		t.Errorf("storedName = %q, should keep the original extension", storedName)
	}
	if storedName == "photo.jpg" {
		t.Error("storedName should not be the original file name")
	}

	data, err := os.ReadFile(filepath.Join(dir, storedName))
	if err != nil {
		t.Fatalf("stored file should exist: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("stored content = %q, want %q", data, "jpeg-bytes")
	}

	if err := store.Remove(context.Background(), storedName); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, storedName)); !os.IsNotExist(err) {
		t.Error("stored file should be removed")
	}
}

// 元のファイル名にパス成分が含まれていても保存先ディレクトリの外に書かない
func TestDiskStore_Save_IgnoresPathComponentsInFileName(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	if err != nil {
		t.Fatalf("NewDiskStore failed: %v", err)
	}

	storedName, _, err := store.Save(context.Background(), strings.NewReader("x"), "../../etc/passwd")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if strings.Contains(storedName, "/") || strings.Contains(storedName, "..") {
		t.Errorf("storedName = %q, must not contain path components", storedName)
	}
	if _, err := os.Stat(filepath.Join(dir, storedName)); err != nil {
		t.Errorf("file should be stored inside the upload dir: %v", err)
	}
}

func TestDiskStore_SaveTwice_DistinctNames(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	if err != nil {
		t.Fatalf("NewDiskStore failed: %v", err)
	}

	n1, _, err := store.Save(context.Background(), strings.NewReader("a"), "same.jpg")
	if err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	n2, _, err := store.Save(context.Background(), strings.NewReader("b"), "same.jpg")
	if err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	if n1 == n2 {
		t.Error("two saves of the same file name should get distinct stored names")
	}
}

func TestNewDiskStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	if _, err := NewDiskStore(dir); err != nil {
		t.Fatalf("NewDiskStore failed: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("upload directory should be created: %v", err)
	}
}
