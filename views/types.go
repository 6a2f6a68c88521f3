package views

import (
	"github.com/eringen/portfolio/content"
	"github.com/eringen/portfolio/section"
)

// SiteConfig holds site-wide settings populated from environment variables.
// Every handler passes this to templates so nothing is hardcoded.
type SiteConfig struct {
	Name        string // SITE_NAME
	URL         string // SITE_URL
	Description string // SITE_DESCRIPTION
	Author      string // SITE_AUTHOR
	Email       string // SITE_EMAIL, shown in the Contact section
}

func (s SiteConfig) owner() string {
	if s.Author != "" {
		return s.Author
	}
	return s.Name
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // og:image, optional
	JSONLD      string
}

func (m PageMeta) title(site SiteConfig) string {
	if m.Title != "" {
		return m.Title
	}
	return site.Name
}

func (m PageMeta) description(site SiteConfig) string {
	if m.Description != "" {
		return m.Description
	}
	return site.Description
}

func (m PageMeta) ogType() string {
	if m.OGType != "" {
		return m.OGType
	}
	return "website"
}

// HomeData is everything the single-page layout renders.
type HomeData struct {
	Site     SiteConfig
	PageID   string
	Active   string
	Sections []section.Section
	About    string // markdown
	Projects []content.Project
	Blogs    []content.Blog
	Tags     []string // every indexed tag, for the filter links
	Tag      string   // active tag filter, "" for all blogs
	Contact  ContactForm
}

func (d HomeData) sections() []section.Section {
	if len(d.Sections) == 0 {
		return section.Defaults()
	}
	return d.Sections
}

// ContactForm is the state of the Contact section.
type ContactForm struct {
	Enabled bool
	CSRF    string
	Flash   string // success message from the previous submission
	Error   string
	Email   string // values echoed back after a failed submission
	Message string
}
