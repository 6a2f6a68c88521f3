package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func renderRaw(md string) string {
	var buf bytes.Buffer
	RenderTo(&buf, md)
	return buf.String()
}

func TestFormatInlineEmphasis(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"__bold__", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"_italic_", "<em>italic</em>"},
		{"text **bold** more", "text <strong>bold</strong> more"},
		{"**bold *italic* text**", "<strong>bold <em>italic</em> text</strong>"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input, new(int))
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineEscapesHTML(t *testing.T) {
	got := FormatInline("<script>x</script>", new(int))
	if strings.Contains(got, "<script>") {
		t.Errorf("FormatInline should escape tags, got %q", got)
	}
}

func TestFormatInlineLinks(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"[Wikipedia](https://en.wikipedia.org/wiki/Some_Article_Title)",
			`<a href="https://en.wikipedia.org/wiki/Some_Article_Title" class="underline underline-offset-4">Wikipedia</a>`,
		},
		{
			"Check [this](https://example.com)^ out",
			`Check <a href="https://example.com" class="underline underline-offset-4" target="_blank" rel="noopener noreferrer">this</a> out`,
		},
		{"[bad](javascript:void)", "bad"},
		{"[rel](/blogs/hello/)", `<a href="/blogs/hello/" class="underline underline-offset-4">rel</a>`},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input, new(int))
		if got != tt.expected {
			t.Errorf("FormatInline(%q)\n  got:  %q\n  want: %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"`code`", "<code>code</code>"},
		{"`a` and `b`", "<code>a</code> and <code>b</code>"},
		{"`**not bold**`", "<code>**not bold**</code>"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input, new(int))
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineImagesCountAcrossCalls(t *testing.T) {
	n := 0
	first := FormatInline("![one](/a.png)", &n)
	second := FormatInline("![two](/b.png)", &n)
	if !strings.Contains(first, `loading="eager"`) {
		t.Errorf("first image should load eagerly: %q", first)
	}
	if !strings.Contains(second, `loading="lazy"`) {
		t.Errorf("second image should load lazily: %q", second)
	}
	if n != 2 {
		t.Errorf("image count = %d, want 2", n)
	}
}

func TestRenderHeadingsGetIDs(t *testing.T) {
	got := renderRaw("# Hello World\n## Hello World\n### Go **fast**")
	want := `<h1 id="hello-world">Hello World</h1><h2 id="hello-world-1">Hello World</h2><h3 id="go-fast">Go <strong>fast</strong></h3>`
	if got != want {
		t.Errorf("headings\n  got:  %q\n  want: %q", got, want)
	}
}

func TestRenderBlocks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"list", "- item 1\n- item 2", "<ul><li>item 1</li><li>item 2</li></ul>"},
		{"ordered", "1. first\n2. second", "<ol><li>first</li><li>second</li></ol>"},
		{"paragraph joins lines", "one\ntwo", "<p>one two</p>"},
		{"quote", "> a\n> b", "<blockquote>a b</blockquote>"},
		{"rule", "---", "<hr/>"},
		{"list then paragraph", "- a\n\ntext", "<ul><li>a</li></ul><p>text</p>"},
		{"code", "```go\nx := <-ch\n```", `<pre class="code-block"><code class="language-go">x := &lt;-ch` + "\n" + `</code></pre>`},
		{"unterminated code is closed", "```\nx", "<pre class=\"code-block\"><code>x\n</code></pre>"},
	}
	for _, tt := range tests {
		if got := renderRaw(tt.input); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestRenderTable(t *testing.T) {
	got := renderRaw("| a | b |\n|---|:-:|\n| 1 | 2 |")
	want := "<table><thead><tr><th>a</th><th>b</th></tr></thead><tbody><tr><td>1</td><td>2</td></tr></tbody></table>"
	if got != want {
		t.Errorf("table\n  got:  %q\n  want: %q", got, want)
	}
}

func TestRenderSanitizes(t *testing.T) {
	got := Render("hello **world**\n\n```\n<script>alert(1)</script>\n```")
	if !strings.Contains(got, "<strong>world</strong>") {
		t.Errorf("Render lost formatting: %q", got)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("Render let a script through: %q", got)
	}
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown("*hi*").Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "<em>hi</em>") {
		t.Errorf("component output = %q", buf.String())
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com/a?b=1&c=2", "https://example.com/a?b=1&amp;c=2"},
		{"/local", "/local"},
		{"#frag", "#frag"},
		{"mailto:me@example.com", "mailto:me@example.com"},
		{"javascript:alert(1)", ""},
		{"relative/path", ""},
		{"  ", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.in); got != tt.want {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
