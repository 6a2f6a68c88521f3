package markdown

import (
	"strings"
	"unicode/utf8"
)

// StripInline removes inline markdown syntax, leaving plain text.
func StripInline(s string) string {
	s = reImg.ReplaceAllString(s, "$1")
	s = reLink.ReplaceAllString(s, "$1")
	s = reInlineCode.ReplaceAllString(s, "$1")
	s = reBold.ReplaceAllString(s, "$1")
	s = reBoldUnderscore.ReplaceAllString(s, "$1")
	s = reItalic.ReplaceAllString(s, "$1")
	return reItalicUnderscore.ReplaceAllString(s, "$1")
}

// Excerpt returns the first paragraph of md as plain text, cut at a word
// boundary so that it is at most max runes long (including the ellipsis).
func Excerpt(md string, max int) string {
	var para []string
	inCode := false
	for _, raw := range strings.Split(md, "\n") {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, "```") {
			inCode = !inCode
			continue
		}
		if inCode {
			continue
		}
		if line == "" {
			if len(para) > 0 {
				break
			}
			continue
		}
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "|") || strings.HasPrefix(line, "---") || strings.HasPrefix(line, "![") {
			if len(para) > 0 {
				break
			}
			continue
		}
		line = strings.TrimPrefix(line, "> ")
		line = strings.TrimPrefix(line, "- ")
		para = append(para, line)
	}
	text := strings.Join(strings.Fields(StripInline(strings.Join(para, " "))), " ")
	return truncate(text, max)
}

func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:max-1])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
