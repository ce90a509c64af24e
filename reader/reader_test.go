package reader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codescope/fault"
)

func writeFixture(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func Test_Reader_PlainUTF8(t *testing.T) {
	path := writeFixture(t, "a.go", []byte("package main\n"))
	r := New(1024)

	c, err := r.Read(path, "a.go", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Binary {
		t.Fatal("expected text content")
	}
	if c.Text != "package main\n" {
		t.Errorf("unexpected content: %q", c.Text)
	}
}

func Test_Reader_TooLargeFailsClosed(t *testing.T) {
	path := writeFixture(t, "big.txt", []byte(strings.Repeat("x", 100)))
	r := New(50)

	_, err := r.Read(path, "big.txt", "")
	if !fault.Is(err, fault.TooLarge) {
		t.Fatalf("expected TooLarge, got %v", err)
	}
}

func Test_Reader_ExactCeilingAllowed(t *testing.T) {
	path := writeFixture(t, "edge.txt", []byte(strings.Repeat("x", 50)))
	r := New(50)

	c, err := r.Read(path, "edge.txt", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Text) != 50 {
		t.Errorf("expected 50 bytes, got %d", len(c.Text))
	}
}

func Test_Reader_BinaryClassified(t *testing.T) {
	path := writeFixture(t, "blob.bin", []byte{0x7f, 'E', 'L', 'F', 0x00, 0x01})
	r := New(1024)

	c, err := r.Read(path, "blob.bin", "")
	if err != nil {
		t.Fatalf("binary must not be a hard failure: %v", err)
	}
	if !c.Binary {
		t.Fatal("expected binary classification")
	}
	if c.Text != "" {
		t.Error("binary content should carry no text")
	}
}

func Test_Reader_UTF8BOMStripped(t *testing.T) {
	path := writeFixture(t, "bom.txt", append([]byte{0xef, 0xbb, 0xbf}, []byte("hello")...))
	r := New(1024)

	c, err := r.Read(path, "bom.txt", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Text != "hello" {
		t.Errorf("expected BOM stripped, got %q", c.Text)
	}
}

func Test_Reader_UTF16LEDecoded(t *testing.T) {
	// "hi\n" in UTF-16LE with BOM
	data := []byte{0xff, 0xfe, 'h', 0x00, 'i', 0x00, '\n', 0x00}
	path := writeFixture(t, "wide.txt", data)
	r := New(1024)

	c, err := r.Read(path, "wide.txt", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Text != "hi\n" {
		t.Errorf("expected decoded utf-16, got %q", c.Text)
	}
}

func Test_Reader_UnsupportedEncoding(t *testing.T) {
	path := writeFixture(t, "x.txt", []byte("x"))
	r := New(1024)

	_, err := r.Read(path, "x.txt", "koi8-r")
	if !fault.Is(err, fault.Decode) {
		t.Fatalf("expected Decode fault, got %v", err)
	}
}

func Test_Reader_Missing(t *testing.T) {
	r := New(1024)
	_, err := r.Read(filepath.Join(t.TempDir(), "gone.txt"), "gone.txt", "")
	if !fault.Is(err, fault.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
