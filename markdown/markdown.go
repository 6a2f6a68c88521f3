// Package markdown renders the small markdown dialect used by blog bodies
// and the About text, and derives plain-text excerpts.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
)

var (
	reBold             = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBoldUnderscore   = regexp.MustCompile(`__(.+?)__`)
	reItalic           = regexp.MustCompile(`\*([^*]+)\*`)
	reItalicUnderscore = regexp.MustCompile(`_([^_]+)_`)
	reInlineCode       = regexp.MustCompile("`([^`]+)`")
	reLink             = regexp.MustCompile(`\[(.*?)\]\((.*?)\)(\^)?`)
	reImg              = regexp.MustCompile(`!\[(.*?)\]\((.*?)\)`)
	reOrdered          = regexp.MustCompile(`^(\d+)\.\s`)
	reHeading          = regexp.MustCompile(`^(#{1,3})\s+(.*)$`)
)

// policy strips anything the renderer itself would never emit.
var policy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[a-zA-Z0-9 _:-]+$`)).Globally()
	p.AllowAttrs("id").Matching(regexp.MustCompile(`^[a-z0-9-]+$`)).OnElements("h1", "h2", "h3")
	p.AllowAttrs("loading", "decoding").OnElements("img")
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.RequireNoFollowOnLinks(false)
	return p
}()

// Markdown returns a templ.Component that renders md as sanitized HTML.
func Markdown(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, Render(md))
		return err
	})
}

// Render converts md to sanitized HTML.
func Render(md string) string {
	var buf bytes.Buffer
	RenderTo(&buf, md)
	return policy.Sanitize(buf.String())
}

type block int

const (
	blockNone block = iota
	blockPara
	blockList
	blockOrdered
	blockQuote
	blockCode
	blockTable
)

// renderer holds the open block while walking lines.
type renderer struct {
	buf        *bytes.Buffer
	open       block
	tableBody  bool
	imageCount int
	headingIDs map[string]int
}

// RenderTo writes the unsanitized HTML representation of md to buf.
func RenderTo(buf *bytes.Buffer, md string) {
	r := &renderer{buf: buf, headingIDs: make(map[string]int)}
	for _, raw := range strings.Split(md, "\n") {
		r.line(strings.TrimRight(raw, "\r"))
	}
	r.close()
}

func (r *renderer) close() {
	switch r.open {
	case blockPara:
		r.buf.WriteString("</p>")
	case blockList:
		r.buf.WriteString("</ul>")
	case blockOrdered:
		r.buf.WriteString("</ol>")
	case blockQuote:
		r.buf.WriteString("</blockquote>")
	case blockCode:
		r.buf.WriteString("</code></pre>")
	case blockTable:
		if r.tableBody {
			r.buf.WriteString("</tbody>")
		}
		r.buf.WriteString("</table>")
		r.tableBody = false
	}
	r.open = blockNone
}

// enter closes the current block unless it is already b, and reports whether
// b had to be opened.
func (r *renderer) enter(b block) bool {
	if r.open == b {
		return false
	}
	r.close()
	r.open = b
	return true
}

func (r *renderer) inline(s string) string {
	return FormatInline(s, &r.imageCount)
}

func (r *renderer) line(line string) {
	if strings.HasPrefix(line, "```") {
		if r.open == blockCode {
			r.close()
			return
		}
		r.close()
		r.open = blockCode
		if lang := strings.TrimSpace(line[3:]); lang != "" {
			r.buf.WriteString(`<pre class="code-block"><code class="language-` + html.EscapeString(lang) + `">`)
		} else {
			r.buf.WriteString(`<pre class="code-block"><code>`)
		}
		return
	}
	if r.open == blockCode {
		r.buf.WriteString(html.EscapeString(line))
		r.buf.WriteByte('\n')
		return
	}

	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		r.close()
	case strings.HasPrefix(line, "---"):
		r.close()
		r.buf.WriteString("<hr/>")
	case reHeading.MatchString(line):
		m := reHeading.FindStringSubmatch(line)
		r.close()
		level := strconv.Itoa(len(m[1]))
		text := strings.TrimSpace(m[2])
		r.buf.WriteString(`<h` + level + ` id="` + r.headingID(text) + `">`)
		r.buf.WriteString(r.inline(text))
		r.buf.WriteString(`</h` + level + `>`)
	case strings.HasPrefix(line, "|"):
		r.tableRow(line)
	case strings.HasPrefix(line, "- "):
		if r.enter(blockList) {
			r.buf.WriteString("<ul>")
		}
		r.buf.WriteString("<li>" + r.inline(strings.TrimSpace(line[2:])) + "</li>")
	case reOrdered.MatchString(line):
		if r.enter(blockOrdered) {
			r.buf.WriteString("<ol>")
		}
		r.buf.WriteString("<li>" + r.inline(strings.TrimSpace(reOrdered.ReplaceAllString(line, ""))) + "</li>")
	case strings.HasPrefix(line, "> "):
		if r.enter(blockQuote) {
			r.buf.WriteString("<blockquote>")
		} else {
			r.buf.WriteByte(' ')
		}
		r.buf.WriteString(r.inline(strings.TrimSpace(line[2:])))
	default:
		if r.enter(blockPara) {
			r.buf.WriteString("<p>")
		} else {
			r.buf.WriteByte(' ')
		}
		r.buf.WriteString(r.inline(trimmed))
	}
}

func (r *renderer) tableRow(line string) {
	if r.enter(blockTable) {
		r.buf.WriteString("<table><thead><tr>")
		for _, cell := range tableCells(line) {
			r.buf.WriteString("<th>" + r.inline(cell) + "</th>")
		}
		r.buf.WriteString("</tr></thead>")
		return
	}
	if !r.tableBody {
		r.buf.WriteString("<tbody>")
		r.tableBody = true
	}
	if isTableSeparator(line) {
		return
	}
	r.buf.WriteString("<tr>")
	for _, cell := range tableCells(line) {
		r.buf.WriteString("<td>" + r.inline(cell) + "</td>")
	}
	r.buf.WriteString("</tr>")
}

// headingID derives a unique anchor for a heading.
func (r *renderer) headingID(text string) string {
	var b strings.Builder
	dash := false
	for _, c := range strings.ToLower(StripInline(text)) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteRune(c)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	id := strings.TrimRight(b.String(), "-")
	if id == "" {
		id = "section"
	}
	n := r.headingIDs[id]
	r.headingIDs[id] = n + 1
	if n > 0 {
		id += "-" + strconv.Itoa(n)
	}
	return id
}

func tableCells(line string) []string {
	parts := strings.Split(strings.Trim(strings.TrimSpace(line), "|"), "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func isTableSeparator(line string) bool {
	for _, cell := range tableCells(line) {
		if strings.Trim(cell, "-:") != "" {
			return false
		}
	}
	return true
}

// ApplyOutsideTags applies fn only to text segments outside HTML tags,
// so that formatting regexes never touch URLs inside href attributes.
func ApplyOutsideTags(s string, fn func(string) string) string {
	var buf strings.Builder
	for len(s) > 0 {
		lt := strings.IndexByte(s, '<')
		if lt < 0 {
			buf.WriteString(fn(s))
			break
		}
		buf.WriteString(fn(s[:lt]))
		gt := strings.IndexByte(s[lt:], '>')
		if gt < 0 {
			buf.WriteString(s[lt:])
			break
		}
		buf.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return buf.String()
}

// FormatInline escapes s and applies inline formatting: images, links,
// code, bold and italic. imageCount numbers images across a document so the
// first one can be fetched eagerly.
func FormatInline(s string, imageCount *int) string {
	out := html.EscapeString(s)

	var codes []string
	out = reInlineCode.ReplaceAllStringFunc(out, func(m string) string {
		codes = append(codes, "<code>"+reInlineCode.FindStringSubmatch(m)[1]+"</code>")
		return "\x00C" + strconv.Itoa(len(codes)-1) + "\x00"
	})

	out = reImg.ReplaceAllStringFunc(out, func(m string) string {
		match := reImg.FindStringSubmatch(m)
		src := SafeURL(match[2])
		if src == "" {
			return match[1]
		}
		*imageCount++
		load := `loading="lazy"`
		if *imageCount == 1 {
			load = `loading="eager"`
		}
		return `<img ` + load + ` decoding="async" alt="` + match[1] + `" src="` + src + `"/>`
	})
	out = reLink.ReplaceAllStringFunc(out, func(m string) string {
		match := reLink.FindStringSubmatch(m)
		href := SafeURL(match[2])
		if href == "" {
			return match[1]
		}
		attrs := `class="underline underline-offset-4"`
		if match[3] == "^" {
			attrs += ` target="_blank" rel="noopener noreferrer"`
		}
		return `<a href="` + href + `" ` + attrs + `>` + match[1] + `</a>`
	})
	out = ApplyOutsideTags(out, func(seg string) string {
		seg = reBold.ReplaceAllString(seg, "<strong>$1</strong>")
		seg = reBoldUnderscore.ReplaceAllString(seg, "<strong>$1</strong>")
		seg = reItalic.ReplaceAllString(seg, "<em>$1</em>")
		return reItalicUnderscore.ReplaceAllString(seg, "<em>$1</em>")
	})
	for i, c := range codes {
		out = strings.Replace(out, "\x00C"+strconv.Itoa(i)+"\x00", c, 1)
	}
	return out
}

// SafeURL returns raw escaped for an HTML attribute, or "" if it is not a
// relative, fragment, http(s), mailto or tel URL.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	}
	return ""
}
