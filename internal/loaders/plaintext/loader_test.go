package plaintext

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoader_Load_SinglePage(t *testing.T) {
	loader := New()
	path := writeFile(t, "plain file content\nwith two lines")

	pages, err := loader.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if pages[0].Number != 1 {
		t.Errorf("expected page 1, got %d", pages[0].Number)
	}
	if pages[0].Text != "plain file content\nwith two lines" {
		t.Errorf("unexpected text: %q", pages[0].Text)
	}
}

func TestLoader_Load_FormFeedPages(t *testing.T) {
	loader := New()
	path := writeFile(t, "page one\fpage two")

	pages, err := loader.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if pages[1].Text != "page two" || pages[1].Number != 2 {
		t.Errorf("unexpected second page: %+v", pages[1])
	}
}

func TestLoader_Load_MissingFile(t *testing.T) {
	loader := New()
	if _, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
