// Package wordcount counts words in markdown text the way the progress
// ledger expects.
package wordcount

import (
	"regexp"
	"strings"
)

var (
	frontMatterRE = regexp.MustCompile(`(?s)\A---[ \t]*\r?\n(?:.*?\r?\n)?---[ \t]*(?:\r?\n|\z)`)
	commentRE     = regexp.MustCompile(`(?s)%%.*?%%`)
	newlineRunRE  = regexp.MustCompile(`[\r\n]+`)
	spaceRunRE    = regexp.MustCompile(` +`)
	wikiLinkRE    = regexp.MustCompile(`(?s)\[\[.*?\]\]`)

	markupReplacer = strings.NewReplacer("==", "", "*", "", "#", "")
)

// Normalize strips front matter, comments, links and markup from text and
// returns the space-separated residue that CountWords splits.
func Normalize(text string) string {
	s := frontMatterRE.ReplaceAllString(text, "")
	s = commentRE.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "—", "")
	s = newlineRunRE.ReplaceAllString(s, " ")
	s = spaceRunRE.ReplaceAllString(s, " ")
	s = markupReplacer.Replace(s)
	s = wikiLinkRE.ReplaceAllString(s, "")
	// Removed links leave double spaces behind.
	s = spaceRunRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CountWords returns the number of space-separated tokens left after
// normalization. Punctuation stays attached to its token.
func CountWords(text string) int {
	s := Normalize(text)
	if s == "" {
		return 0
	}
	return strings.Count(s, " ") + 1
}
