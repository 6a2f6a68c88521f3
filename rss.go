package portfolio

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/portfolio/content"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        string   `xml:"guid"`
	Categories  []string `xml:"category"`
}

func (a *App) renderRSS(c echo.Context, blogs []content.Blog) error {
	base := a.Config.URL
	items := make([]rssItem, 0, len(blogs))
	var newest time.Time
	for _, b := range blogs {
		pubDate := ""
		if !b.Date.IsZero() {
			pubDate = b.Date.Format(time.RFC1123Z)
			if b.Date.After(newest) {
				newest = b.Date
			}
		}
		link := blogURL(base, b)
		items = append(items, rssItem{
			Title:       b.Title,
			Link:        link,
			Description: b.Excerpt,
			PubDate:     pubDate,
			GUID:        link,
			Categories:  b.Tags,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        BuildURL(base),
			Description: a.Config.Description,
			Items:       items,
		},
	}
	if !newest.IsZero() {
		feed.Channel.LastBuildDate = newest.Format(time.RFC1123Z)
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
