package mmfile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target.lnk")
	want := []byte{0x4c, 0x00, 0x00, 0x00, 0x01, 0x14, 0x02}
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	m, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(m.Data, want) || m.Size() != int64(len(want)) {
		t.Fatalf("data = %x, size = %d", m.Data, m.Size())
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if m.Data != nil {
		t.Fatal("Data should be cleared after Close")
	}
}

func TestOpenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.lnk")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	m, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if m.Size() != 0 {
		t.Fatalf("size = %d", m.Size())
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Open(filepath.Join(dir, "missing.lnk")); err == nil {
		t.Fatal("missing file opened")
	}
	if _, err := Open(dir); err == nil {
		t.Fatal("directory opened")
	}
}
