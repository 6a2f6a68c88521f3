package views

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/portfolio/content"
	"github.com/eringen/portfolio/section"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func testBlogs() []content.Blog {
	return []content.Blog{
		{Slug: "zeta", Title: "Zeta", Excerpt: "Last letter", CoverImage: "../public/images/zeta.png", Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Slug: "alpha", Title: "Alpha", Excerpt: "First <letter>", Tags: []string{"go"}},
		{Slug: "series/mid", Title: "Mid", Excerpt: "x", CoverImage: "/images/mid.png"},
	}
}

func TestBlogCardsKeepInputOrder(t *testing.T) {
	cards := BlogCards(testBlogs())
	require.Len(t, cards, 3)
	assert.Equal(t, "Zeta", cards[0].Title)
	assert.Equal(t, "Alpha", cards[1].Title)
	assert.Equal(t, "Mid", cards[2].Title)

	assert.Equal(t, "/blogs/zeta/", cards[0].Href)
	assert.Equal(t, "/blogs/series/mid/", cards[2].Href)

	assert.Equal(t, 0.0, cards[0].Motion.Transition.Delay)
	assert.Equal(t, 0.05, cards[1].Motion.Transition.Delay)
	assert.Equal(t, 0.1, cards[2].Motion.Transition.Delay)
}

func TestBlogCardsImageSrc(t *testing.T) {
	cards := BlogCards(testBlogs())
	assert.Equal(t, "/thumbs/images/zeta.png", cards[0].ImageSrc)
	assert.Equal(t, "", cards[1].ImageSrc)
	assert.Equal(t, "/thumbs/images/mid.png", cards[2].ImageSrc)
}

func TestBlogCardsEmpty(t *testing.T) {
	assert.Empty(t, BlogCards(nil))
	html := render(t, BlogList(nil))
	assert.NotContains(t, html, "data-blog-card")
}

func TestBlogListRendersOneCardPerBlog(t *testing.T) {
	html := render(t, BlogList(testBlogs()))
	assert.Equal(t, 3, strings.Count(html, "data-blog-card"))
	assert.Equal(t, 3, strings.Count(html, "line-clamp-2"))

	zeta := strings.Index(html, "Zeta")
	alpha := strings.Index(html, "Alpha")
	mid := strings.Index(html, "Mid")
	assert.True(t, zeta < alpha && alpha < mid, "cards out of order")

	assert.Contains(t, html, `src=""`)
	assert.Contains(t, html, "First &lt;letter&gt;")
	assert.Contains(t, html, `width="200" height="120"`)
}

func TestCoverSrc(t *testing.T) {
	tests := map[string]string{
		"":                       "",
		"../public/images/a.png": "/images/a.png",
		"/images/a.png":          "/images/a.png",
		"images/a.png":           "/images/a.png",
		"https://cdn.test/a.png": "https://cdn.test/a.png",
		"  ../public/x/y.jpg   ": "/x/y.jpg",
	}
	for in, want := range tests {
		assert.Equal(t, want, CoverSrc(in), in)
	}
	assert.Equal(t, "https://cdn.test/a.png", ThumbSrc("https://cdn.test/a.png"))
}

func TestThumbSrc(t *testing.T) {
	tests := map[string]string{
		"":                        "",
		"../public/images/a.png":  "/thumbs/images/a.png",
		"../public/images/a.JPG":  "/thumbs/images/a.JPG",
		"../public/images/a.webp": "/thumbs/images/a.webp",
		"../public/images/a.svg":  "/images/a.svg",
		"images/a.avif":           "/images/a.avif",
		"https://cdn.test/a.png":  "https://cdn.test/a.png",
	}
	for in, want := range tests {
		assert.Equal(t, want, ThumbSrc(in), in)
	}
}

func TestNavHighlightsActive(t *testing.T) {
	html := render(t, Nav(section.Defaults(), "About", "page-1"))
	assert.Equal(t, 5, strings.Count(html, "data-nav="))
	assert.Equal(t, 1, strings.Count(html, `aria-current="true"`))
	i := strings.Index(html, `data-nav="About"`)
	j := strings.Index(html, `aria-current="true"`)
	assert.True(t, i >= 0 && j > i, "About should carry aria-current")
	assert.Contains(t, html, `data-nav-src="/nav/?page=page-1"`)
}

func TestHomeRendersSectionsInOrder(t *testing.T) {
	data := HomeData{
		Site:     SiteConfig{Name: "Site", URL: "https://example.com", Author: "Ada", Email: "ada@example.com"},
		PageID:   "p1",
		Active:   "Home",
		Sections: section.Defaults(),
		About:    "I build **things**.",
		Projects: []content.Project{{Title: "Mail TUI", Tags: []string{"Go"}}},
		Blogs:    testBlogs(),
	}
	html := render(t, Home(data))

	last := -1
	for _, id := range []string{`id="home"`, `id="about"`, `id="projects"`, `id="blogs"`, `id="contact"`} {
		i := strings.Index(html, id)
		require.True(t, i > last, "%s out of order", id)
		last = i
	}
	assert.Equal(t, 4, strings.Count(html, `data-motion-delay="0.125"`))
	assert.Contains(t, html, `data-section="About" data-threshold="0.9"`)
	assert.Contains(t, html, `data-page="p1"`)
	assert.Contains(t, html, "<strong>things</strong>")
	assert.Contains(t, html, `data-motion="scroll"`)
	assert.Contains(t, html, `"@type":"Person"`)
	assert.Contains(t, html, "mailto:ada@example.com")
	assert.NotContains(t, html, "<form", "contact form is disabled by default")
}

func TestTagFilter(t *testing.T) {
	html := render(t, TagFilter([]string{"go", "c++"}, "go"))
	assert.Contains(t, html, `href="/?tag=go#blogs"`)
	assert.Contains(t, html, `href="/?tag=c%2B%2B#blogs"`)
	assert.Equal(t, 1, strings.Count(html, `aria-current="true"`))
	i := strings.Index(html, `data-tag="go"`)
	j := strings.Index(html, `aria-current="true"`)
	assert.True(t, i >= 0 && j > i, "active tag should carry aria-current")

	all := render(t, TagFilter([]string{"go"}, ""))
	assert.Contains(t, all, `href="/#blogs" class="`+tagLinkClass+" "+tagActiveClass+`" aria-current="true">All</a>`)
}

func TestBlogsSectionShowsTagsOnlyWhenIndexed(t *testing.T) {
	s := section.Section{Name: "Blogs", Threshold: 0.5}
	assert.NotContains(t, render(t, Blogs(testBlogs(), nil, "", s)), "data-tag-filter")
	html := render(t, Blogs(testBlogs(), []string{"go"}, "", s))
	assert.Contains(t, html, "data-tag-filter")
	assert.Less(t, strings.Index(html, "data-tag-filter"), strings.Index(html, "data-blog-card"))
}

func TestContactSentence(t *testing.T) {
	s := section.Section{Name: "Contact", Threshold: 0.75}
	site := SiteConfig{Email: "ada@example.com"}
	assert.Contains(t, render(t, Contact(site, ContactForm{}, s)), `ada@example.com</a>.</p>`)
	assert.Contains(t, render(t, Contact(site, ContactForm{Enabled: true}, s)), `ada@example.com</a> or through this form.</p>`)
	assert.Contains(t, render(t, Contact(SiteConfig{}, ContactForm{Enabled: true}, s)), "Reach me through this form.")
}

func TestContactFormWhenEnabled(t *testing.T) {
	form := ContactForm{Enabled: true, CSRF: "tok", Error: "Message is required.", Email: "a@b.c"}
	html := render(t, Contact(SiteConfig{}, form, section.Section{Name: "Contact", Threshold: 0.75}))
	assert.Contains(t, html, `<form id="contact-form"`)
	assert.Contains(t, html, `name="_csrf" value="tok"`)
	assert.Contains(t, html, "Message is required.")
	assert.Contains(t, html, `value="a@b.c"`)
	assert.Contains(t, html, `maxlength="500"`)
}

func TestBlogDetail(t *testing.T) {
	blog := content.Blog{Slug: "hello", Title: "Hello", Excerpt: "Hi", Body: "# Title\n\nText.", Tags: []string{"go"}, CoverImage: "../public/c.png"}
	related := []content.Blog{{Slug: "other", Title: "Other", Tags: []string{"go"}}}
	html := render(t, BlogDetail(SiteConfig{Name: "Site", URL: "https://example.com"}, blog, related))
	assert.Contains(t, html, `<h1 id="title">Title</h1>`)
	assert.Contains(t, html, `href="https://example.com/blogs/hello/"`)
	assert.Contains(t, html, `"@type":"BlogPosting"`)
	assert.Contains(t, html, `src="/c.png">`)
	assert.Contains(t, html, `<meta property="og:image" content="/c.png">`)
	assert.Contains(t, html, `href="/?tag=go#blogs"`)
	assert.Contains(t, html, "/blogs/other/")
	assert.NotContains(t, html, "sections.js")
	assert.NotContains(t, html, "data-page=")
}

func TestErrorPages(t *testing.T) {
	assert.Contains(t, render(t, NotFound(SiteConfig{Name: "S"})), "Page not found")
	assert.Contains(t, render(t, ServerError(SiteConfig{Name: "S"})), "Something went wrong")
}

func TestFilterRelatedBlogs(t *testing.T) {
	current := content.Blog{Slug: "a", Tags: []string{"Go"}}
	blogs := []content.Blog{
		current,
		{Slug: "b", Tags: []string{"go", "web"}},
		{Slug: "c", Tags: []string{"rust"}},
	}
	related := FilterRelatedBlogs(current, blogs)
	require.Len(t, related, 1)
	assert.Equal(t, "b", related[0].Slug)
}
