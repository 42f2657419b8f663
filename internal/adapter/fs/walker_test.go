package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func walkedPaths(t *testing.T, w *Walker, root string) map[string]bool {
	t.Helper()
	files, err := w.Walk(root)
	if err != nil {
		t.Fatal(err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		t.Fatal(err)
	}
	paths := make(map[string]bool, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(abs, f.Path)
		if err != nil {
			t.Fatal(err)
		}
		paths[filepath.ToSlash(rel)] = true
	}
	return paths
}

func TestWalkerDefaultPatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "notes.txt", "notes")
	writeFile(t, root, "readme.md", "readme")
	writeFile(t, root, "photo.jpg", "binary")
	writeFile(t, root, "sub/deep.txt", "deep")

	paths := walkedPaths(t, NewWalker(nil, nil), root)

	for _, want := range []string{"notes.txt", "readme.md", "sub/deep.txt"} {
		if !paths[want] {
			t.Errorf("%s not walked", want)
		}
	}
	if paths["photo.jpg"] {
		t.Error("non-text file was walked")
	}
}

func TestWalkerExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.txt", "keep")
	writeFile(t, root, ".git/objects/blob.txt", "internal")
	writeFile(t, root, "vendor/dep.txt", "dep")

	w := NewWalker(nil, []string{"**/.git/**", "**/vendor/**"})
	paths := walkedPaths(t, w, root)

	if !paths["keep.txt"] {
		t.Error("keep.txt not walked")
	}
	if paths[".git/objects/blob.txt"] {
		t.Error("excluded .git file was walked")
	}
	if paths["vendor/dep.txt"] {
		t.Error("excluded vendor file was walked")
	}
}

func TestWalkerCustomIncludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "doc.rst", "rst")
	writeFile(t, root, "notes.txt", "txt")

	w := NewWalker([]string{"**/*.rst"}, nil)
	paths := walkedPaths(t, w, root)

	if !paths["doc.rst"] {
		t.Error("doc.rst not walked with custom include")
	}
	if paths["notes.txt"] {
		t.Error("notes.txt walked despite not matching includes")
	}
}

func TestWalkerFileMetadata(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "sized.txt", "12345")

	files, err := NewWalker(nil, nil).Walk(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if files[0].Size != 5 {
		t.Errorf("expected size 5, got %d", files[0].Size)
	}
	if files[0].ModTime == 0 {
		t.Error("mod time not recorded")
	}
}

func TestReadFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "content.txt", "hello")

	text, err := ReadFile(filepath.Join(root, "content.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if text != "hello" {
		t.Errorf("got %q", text)
	}

	if _, err := ReadFile(filepath.Join(root, "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
