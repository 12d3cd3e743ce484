package scan

import (
	"context"
	"errors"
	"testing"

	"github.com/verte-zerg/wordpace/internal/model"
)

type memSource struct {
	docs  []model.Document
	texts map[string]string
	reads map[string]int
}

func (m *memSource) Documents(context.Context) ([]model.Document, error) {
	return m.docs, nil
}

func (m *memSource) ReadText(_ context.Context, path string) (string, error) {
	if m.reads == nil {
		m.reads = map[string]int{}
	}
	m.reads[path]++
	text, ok := m.texts[path]
	if !ok {
		return "", errors.New("unreadable")
	}
	return text, nil
}

func newSource() *memSource {
	return &memSource{
		docs: []model.Document{
			{Path: "a.md", Tracked: true, Goal: 10},
			{Path: "b.md", Tracked: false},
			{Path: "c.md", Tracked: true},
		},
		texts: map[string]string{
			"a.md": "one two three",
			"b.md": "ignored words here",
			"c.md": "four five",
		},
	}
}

func TestGlobalCountsTrackedOnly(t *testing.T) {
	res, err := Global(context.Background(), newSource(), Overlay{})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if res.Total != 5 {
		t.Fatalf("expected 5, got %d", res.Total)
	}
	if len(res.Documents) != 2 || res.Documents[0].Goal != 10 {
		t.Fatalf("unexpected documents: %+v", res.Documents)
	}
}

func TestGlobalPrefersUnsavedText(t *testing.T) {
	src := newSource()
	res, err := Global(context.Background(), src, Overlay{Path: "a.md", Text: "just one more word added"})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if res.Total != 7 {
		t.Fatalf("expected 7, got %d", res.Total)
	}
	if src.reads["a.md"] != 0 {
		t.Fatalf("expected saved text of the active document not to be read")
	}
}

func TestGlobalToleratesReadFailures(t *testing.T) {
	src := newSource()
	delete(src.texts, "c.md")
	res, err := Global(context.Background(), src, Overlay{})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if res.Total != 3 || res.Failed != 1 {
		t.Fatalf("expected total 3 with 1 failure, got %d/%d", res.Total, res.Failed)
	}
	if res.Documents[1].Err == nil {
		t.Fatalf("expected error recorded for c.md")
	}
}
