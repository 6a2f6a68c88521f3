package portfolio

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/portfolio/content"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
}

// renderSitemap lists the home page, dated by the newest blog, and every
// blog detail page.
func (a *App) renderSitemap(c echo.Context, blogs []content.Blog) error {
	home := sitemapURL{Loc: BuildURL(a.Config.URL), ChangeFreq: "weekly"}
	if len(blogs) > 0 {
		home.LastMod = blogs[0].DateString()
	}
	urls := make([]sitemapURL, 0, len(blogs)+1)
	urls = append(urls, home)
	for _, b := range blogs {
		urls = append(urls, sitemapURL{
			Loc:     blogURL(a.Config.URL, b),
			LastMod: b.DateString(),
		})
	}

	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	})
}
