package markdown

import (
	"testing"
	"unicode/utf8"
)

func TestExcerptFirstParagraph(t *testing.T) {
	md := "# Title\n\nFirst **bold** line\nwith a [link](https://x.y).\n\nSecond paragraph."
	got := Excerpt(md, 0)
	want := "First bold line with a link."
	if got != want {
		t.Errorf("Excerpt = %q, want %q", got, want)
	}
}

func TestExcerptSkipsCode(t *testing.T) {
	md := "```\ncode\n```\n\nAfter code."
	if got := Excerpt(md, 0); got != "After code." {
		t.Errorf("Excerpt = %q", got)
	}
}

func TestExcerptTruncatesAtWord(t *testing.T) {
	got := Excerpt("one two three four five", 12)
	if got != "one two…" {
		t.Errorf("Excerpt = %q, want %q", got, "one two…")
	}
	if utf8.RuneCountInString(got) > 12 {
		t.Errorf("Excerpt too long: %d runes", utf8.RuneCountInString(got))
	}
}

func TestExcerptEmpty(t *testing.T) {
	if got := Excerpt("", 10); got != "" {
		t.Errorf("Excerpt of empty = %q", got)
	}
}
