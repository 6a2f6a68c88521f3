package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/portfolio/content"
	"github.com/eringen/portfolio/motion"
	"github.com/eringen/portfolio/section"
)

const (
	navLinkClass   = "relative flex w-full items-center justify-center px-3 py-3 hover:text-gray-950 transition dark:text-gray-500 dark:hover:text-gray-300"
	navActiveClass = "text-gray-950 dark:text-gray-200"
	tagLinkClass   = "rounded-full border border-black/10 px-3 py-1 hover:bg-gray-200 transition dark:border-white/20 dark:hover:bg-white/10"
	tagActiveClass = "bg-gray-900 text-white dark:bg-white/20"
)

// motionAttrs spreads a motion description onto an element: its data
// attributes followed by the initial inline style.
func motionAttrs(m motion.Motion) templ.OrderedAttributes {
	attrs := m.Attrs()
	out := make(templ.OrderedAttributes, 0, len(attrs)+1)
	for _, a := range attrs {
		out = append(out, templ.KV[string, any](a.Key, a.Value))
	}
	return append(out, templ.KV[string, any]("style", m.Style()))
}

func threshold(s section.Section) string {
	return strconv.FormatFloat(s.Threshold, 'f', -1, 64)
}

// tagHref links to the home page with the blog list filtered by tag.
func tagHref(tag string) string {
	return "/?tag=" + url.QueryEscape(tag) + "#blogs"
}

func contactSuffix(formEnabled bool) string {
	if formEnabled {
		return " or through this form."
	}
	return "."
}

// jsonLD embeds a structured data block. json.Marshal escapes <, > and &,
// so the block cannot close the script early.
func jsonLD(data string) templ.Component {
	return templ.Raw(`<script type="application/ld+json">` + data + `</script>`)
}

func homeMeta(site SiteConfig) PageMeta {
	return PageMeta{
		Title:       site.Name,
		Description: site.Description,
		URL:         buildURL(site.URL),
		OGType:      "website",
		JSONLD:      PersonJsonLD(site),
	}
}

func blogMeta(site SiteConfig, blog content.Blog) PageMeta {
	return PageMeta{
		Title:       blog.Title + " | " + site.Name,
		Description: blog.Excerpt,
		URL:         buildURL(site.URL, "blogs", blog.Slug),
		OGType:      "article",
		Image:       CoverSrc(blog.CoverImage),
		JSONLD:      BlogPostingJsonLD(site, blog),
	}
}

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// CoverSrc turns a front matter cover reference into a site path. Covers
// written relative to the content tree ("../public/img/a.png") are served
// from the site root ("/img/a.png").
func CoverSrc(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	ref = strings.TrimPrefix(ref, "../public")
	if strings.Contains(ref, "://") || strings.HasPrefix(ref, "/") {
		return ref
	}
	return "/" + ref
}

// thumbFormats are the cover formats the thumbnail route can decode.
var thumbFormats = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true}

// ThumbSrc returns the 200x120 thumbnail route of a cover, or "" when the
// blog has none. Remote covers and formats the route cannot decode (SVG,
// AVIF) are used as they are.
func ThumbSrc(ref string) string {
	src := CoverSrc(ref)
	if src == "" || strings.Contains(src, "://") {
		return src
	}
	if !thumbFormats[strings.ToLower(path.Ext(src))] {
		return src
	}
	return "/thumbs" + src
}

// FilterRelatedBlogs returns blogs that share at least one tag with the current blog.
func FilterRelatedBlogs(current content.Blog, blogs []content.Blog) []content.Blog {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		tag := strings.ToLower(strings.TrimSpace(t))
		if tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []content.Blog
	for _, b := range blogs {
		if b.Slug == current.Slug {
			continue
		}
		for _, t := range b.Tags {
			tag := strings.ToLower(strings.TrimSpace(t))
			if _, ok := tagSet[tag]; ok {
				related = append(related, b)
				break
			}
		}
	}
	return related
}

// PersonJsonLD produces a Schema.org Person JSON-LD block for the site owner.
func PersonJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "Person",
		"name":     cfg.Author,
		"url":      buildURL(cfg.URL),
	}
	if cfg.Author == "" {
		data["name"] = cfg.Name
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Email != "" {
		data["email"] = "mailto:" + cfg.Email
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for a blog.
func BlogPostingJsonLD(cfg SiteConfig, blog content.Blog) string {
	blogURL := buildURL(cfg.URL, "blogs", blog.Slug)
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "BlogPosting",
		"headline":    blog.Title,
		"description": blog.Excerpt,
		"url":         blogURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   blogURL,
		},
	}
	if d := blog.DateString(); d != "" {
		data["datePublished"] = d
	}
	if src := CoverSrc(blog.CoverImage); src != "" {
		if strings.HasPrefix(src, "/") {
			src = strings.TrimSuffix(buildURL(cfg.URL, src), "/")
		}
		data["image"] = src
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	if len(blog.Tags) > 0 {
		data["keywords"] = strings.Join(blog.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
