package wordcount

import "testing"

func TestCountWordsPlainText(t *testing.T) {
	if got := CountWords("Hello world"); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := CountWords(""); got != 0 {
		t.Fatalf("expected 0 for empty text, got %d", got)
	}
	if got := CountWords("  \n\n  "); got != 0 {
		t.Fatalf("expected 0 for whitespace, got %d", got)
	}
}

func TestCountWordsStripsFrontMatter(t *testing.T) {
	text := "--- \ngoal: 5\n---\nHello world"
	if got := CountWords(text); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	crlf := "---\r\ntitle: x\r\ntags: [a, b]\r\n---\r\nOne two three"
	if got := CountWords(crlf); got != 3 {
		t.Fatalf("expected 3 with CRLF front matter, got %d", got)
	}
}

func TestCountWordsKeepsLaterRule(t *testing.T) {
	// Only a leading block is front matter.
	text := "Intro line\n---\nnot: meta\n---\nend"
	if got := CountWords(text); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}

func TestCountWordsIgnoresCommentsAndLinks(t *testing.T) {
	if got := CountWords("One %%hidden\nnote%% two"); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := CountWords("See [[Some Page]] here"); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := CountWords("[[a]] %%b%% ** ## =="); got != 0 {
		t.Fatalf("expected 0 for markup only, got %d", got)
	}
}

func TestCountWordsMarkupAndPunctuation(t *testing.T) {
	if got := CountWords("# Title\n\n**bold** and ==mark=="); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}
	if got := CountWords("word—word"); got != 1 {
		t.Fatalf("expected em-dash to join tokens, got %d", got)
	}
	if got := CountWords("Hello, world! (yes)"); got != 3 {
		t.Fatalf("expected punctuation to stay attached, got %d", got)
	}
}

func TestCountWordsIsIdempotent(t *testing.T) {
	samples := []string{
		"---\na: 1\n---\n# Heading\n\nSome *text* with [[link|alias]] and %%note%%.",
		"Line one\n\n\nLine   two — three",
		"==highlight== #tag **strong**",
	}
	for _, sample := range samples {
		first := CountWords(sample)
		second := CountWords(Normalize(sample))
		if first != second {
			t.Fatalf("expected idempotent count for %q: %d vs %d", sample, first, second)
		}
	}
}
