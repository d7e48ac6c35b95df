package pipeline

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeKeywordFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keywords.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write keyword file: %v", err)
	}
	return path
}

func TestReadKeywordsFromFile(t *testing.T) {
	path := writeKeywordFile(t, `
# campaign keywords
garden tools
  pruning shears

garden tools
compost bins
`)

	keywords, err := ReadKeywordsFromFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	want := []string{"garden tools", "pruning shears", "compost bins"}
	if !reflect.DeepEqual(keywords, want) {
		t.Errorf("expected %v, got %v", want, keywords)
	}
}

func TestReadKeywordsFromFile_Empty(t *testing.T) {
	path := writeKeywordFile(t, "# only comments\n\n")
	if _, err := ReadKeywordsFromFile(path); err == nil {
		t.Fatal("expected an error for a file without keywords")
	}
}

func TestReadKeywordsFromFile_Missing(t *testing.T) {
	if _, err := ReadKeywordsFromFile(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
