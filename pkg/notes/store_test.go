package notes

import (
	"os"
	"testing"
)

func TestStoreSaveRead(t *testing.T) {
	s := NewStore(t.TempDir())

	if err := s.Save(5, "diversify into stables"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	content, err := s.Read("5.txt")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(content) != "diversify into stables" {
		t.Errorf("Read = %q; want %q", content, "diversify into stables")
	}
}

func TestStoreRead_Missing(t *testing.T) {
	s := NewStore(t.TempDir())
	_, err := s.Read("99.txt")
	if !os.IsNotExist(err) {
		t.Errorf("expected os.IsNotExist error, got %v", err)
	}
}

func TestStoreCreatesDir(t *testing.T) {
	dir := t.TempDir() + "/nested/notes"
	s := NewStore(dir)
	if err := s.Save(1, "x"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
}

func TestValidFilename(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"5.txt", true},
		{"proposal_5.txt", true},
		{"a-b.txt", true},
		{"../etc/passwd", false},
		{"a/b.txt", false},
		{"", false},
		{"a b.txt", false},
	}

	for _, tt := range tests {
		if got := ValidFilename(tt.name); got != tt.valid {
			t.Errorf("ValidFilename(%q) = %v; want %v", tt.name, got, tt.valid)
		}
	}
}

func TestStoreRead_RejectsInvalidName(t *testing.T) {
	s := NewStore(t.TempDir())
	if _, err := s.Read("../outside.txt"); err == nil {
		t.Error("expected error reading traversal path, got nil")
	}
}
