package lib

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLocalFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if !LocalFileExists(path) {
		t.Errorf("expected %s to exist", path)
	}
	if LocalFileExists(filepath.Join(dir, "missing.txt")) {
		t.Error("expected missing file to be reported as absent")
	}
}

func TestBytesCountToHumanReadable(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{5 * 1024 * 1024 * 1024, "5.0 GB"},
	}

	for _, tc := range tests {
		result := BytesCountToHumanReadable(tc.input)
		if result != tc.expected {
			t.Errorf("BytesCountToHumanReadable(%d): expected %q, got %q", tc.input, tc.expected, result)
		}
	}
}
