package vault

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDocumentsMarksTrackedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "draft.md", "---\ngoal: 1500\n---\nChapter one text")
	writeFile(t, dir, "notes/idea.md", "no front matter here")
	writeFile(t, dir, "notes/off.md", "---\ngoal: false\n---\nbody")
	writeFile(t, dir, ".obsidian/cache.md", "---\ngoal: 1\n---\n")
	writeFile(t, dir, "archive/old.md", "---\ngoal: 10\n---\n")
	writeFile(t, dir, "image.png", "binary")

	v, err := Open(dir, "goal", []string{"archive"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	docs, err := v.Documents(context.Background())
	if err != nil {
		t.Fatalf("documents: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %+v", docs)
	}
	if docs[0].Path != "draft.md" || !docs[0].Tracked || docs[0].Goal != 1500 {
		t.Fatalf("unexpected draft entry: %+v", docs[0])
	}
	if docs[1].Tracked || docs[2].Tracked {
		t.Fatalf("expected notes to be untracked: %+v", docs[1:])
	}
}

func TestWritePropertyUpdatesFrontMatter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "draft.md", "---\ntitle: Draft\ngoal: 100\n---\nBody text\n")
	v, err := Open(dir, "goal", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	changed, err := v.WriteProperty("draft.md", "words", 2)
	if err != nil || !changed {
		t.Fatalf("expected write, got %v (%v)", changed, err)
	}
	text, err := v.ReadText(context.Background(), "draft.md")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(text, "---\ntitle: Draft\ngoal: 100\nwords: 2\n---\n") {
		t.Fatalf("unexpected front matter: %q", text)
	}
	if !strings.HasSuffix(text, "Body text\n") {
		t.Fatalf("expected body preserved: %q", text)
	}

	changed, err = v.WriteProperty("draft.md", "words", 2)
	if err != nil || changed {
		t.Fatalf("expected no write for equal value, got %v (%v)", changed, err)
	}
}

func TestSetPropertyWithoutFrontMatter(t *testing.T) {
	out, changed, err := SetProperty("Hello world", "Слов", 2)
	if err != nil || !changed {
		t.Fatalf("expected change, got %v (%v)", changed, err)
	}
	if out != "---\nСлов: 2\n---\nHello world" {
		t.Fatalf("unexpected output: %q", out)
	}
	props, err := Properties(out)
	if err != nil {
		t.Fatalf("properties: %v", err)
	}
	if numeric(props["Слов"]) != 2 {
		t.Fatalf("expected property round trip, got %v", props)
	}
}

func TestResolveRejectsEscapes(t *testing.T) {
	v, err := Open(t.TempDir(), "goal", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := v.ReadText(context.Background(), "../secret.md"); err == nil {
		t.Fatalf("expected error for path outside vault")
	}
}

func TestFingerprintChangesOnWrite(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "one")
	v, err := Open(dir, "goal", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	before, err := v.Fingerprint(context.Background())
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	writeFile(t, dir, "a.md", "one two three")
	after, err := v.Fingerprint(context.Background())
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	if before["a.md"] == after["a.md"] {
		t.Fatalf("expected stamp to change")
	}
}
