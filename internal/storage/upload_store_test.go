package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func uploadFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	_, header, err := req.FormFile("image")
	if err != nil {
		t.Fatalf("Failed to parse form file: %v", err)
	}
	return header
}

func TestDiskUploadStore_SaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskUploadStore(dir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	content := []byte("fake-jpeg-bytes")
	path, err := store.Save(uploadFileHeader(t, "photo.jpg", content))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if filepath.Dir(path) != dir {
		t.Errorf("Saved outside upload dir: %s", path)
	}
	if !strings.HasSuffix(path, ".jpg") {
		t.Errorf("Expected original extension preserved, got %s", path)
	}
	if strings.Contains(filepath.Base(path), "photo") {
		t.Errorf("Client filename must not leak into the stored name: %s", path)
	}

	saved, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read saved file: %v", err)
	}
	if !bytes.Equal(saved, content) {
		t.Error("Saved content does not match upload")
	}

	if err := store.Remove(path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected file to be deleted")
	}

	// Removing again is not an error
	if err := store.Remove(path); err != nil {
		t.Errorf("Second Remove failed: %v", err)
	}
}

func TestDiskUploadStore_UniqueNames(t *testing.T) {
	store, err := NewDiskUploadStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	first, err := store.Save(uploadFileHeader(t, "same.jpg", []byte("a")))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	second, err := store.Save(uploadFileHeader(t, "same.jpg", []byte("b")))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if first == second {
		t.Error("Expected distinct paths for identical client filenames")
	}
}

func TestDiskUploadStore_Sweep(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskUploadStore(dir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := store.Save(uploadFileHeader(t, "leftover.jpg", []byte("x"))); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	removed, err := store.Sweep()
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("Sweep removed %d files, want 3", removed)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty dir after sweep, found %d entries", len(entries))
	}

	// Sweeping an empty directory is a no-op
	removed, err = store.Sweep()
	if err != nil || removed != 0 {
		t.Errorf("Second sweep = (%d, %v), want (0, nil)", removed, err)
	}
}

func TestNewDiskUploadStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	if _, err := NewDiskUploadStore(dir); err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Error("Expected upload directory to be created")
	}
}
