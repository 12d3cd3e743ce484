// Package scan totals word counts across goal-tracked documents.
package scan

import (
	"context"
	"fmt"

	"github.com/verte-zerg/wordpace/internal/model"
	"github.com/verte-zerg/wordpace/internal/wordcount"
)

// Source enumerates documents and reads their saved text.
type Source interface {
	Documents(ctx context.Context) ([]model.Document, error)
	ReadText(ctx context.Context, path string) (string, error)
}

// Overlay carries the unsaved text of the active document, if any.
type Overlay struct {
	Path string
	Text string
}

// Active reports whether the overlay holds unsaved text.
func (o Overlay) Active() bool {
	return o.Path != ""
}

// DocumentCount is the contribution of one tracked document.
type DocumentCount struct {
	Path  string
	Words int
	Goal  int
	Err   error
}

// Result is the outcome of a full scan.
type Result struct {
	Total     int
	Documents []DocumentCount
	Failed    int
}

// Global counts every tracked document. The overlay text replaces the saved
// text of its document. A document that cannot be read contributes zero and
// is recorded in Failed; only enumeration errors abort the scan.
func Global(ctx context.Context, src Source, overlay Overlay) (Result, error) {
	docs, err := src.Documents(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list documents: %w", err)
	}
	var res Result
	for _, doc := range docs {
		if !doc.Tracked {
			continue
		}
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		dc := DocumentCount{Path: doc.Path, Goal: doc.Goal}
		text := overlay.Text
		if !overlay.Active() || overlay.Path != doc.Path {
			text, err = src.ReadText(ctx, doc.Path)
		}
		if err != nil {
			dc.Err = err
			res.Failed++
			err = nil
		} else {
			dc.Words = wordcount.CountWords(text)
		}
		res.Total += dc.Words
		res.Documents = append(res.Documents, dc)
	}
	return res, nil
}
