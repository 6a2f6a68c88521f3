package portfolio

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/portfolio/views"
)

func (a *App) handleHome(c echo.Context) error {
	form := views.ContactForm{
		Enabled: a.Config.ContactEnabled,
		CSRF:    CsrfToken(c),
		Flash:   popFlash(c),
	}
	page, err := a.homePage(c, form)
	if err != nil {
		return err
	}
	return Render(c, page)
}

// homePage renders the single-page layout and issues a fresh page id with
// its own section state.
func (a *App) homePage(c echo.Context, form views.ContactForm) (templ.Component, error) {
	tag := normalizeTag(c.QueryParam("tag"))
	blogs, err := a.Store.ListBlogs(tag)
	if err != nil {
		return nil, err
	}
	tags, err := a.Store.ListTags()
	if err != nil {
		return nil, err
	}
	lib := a.Library()
	id, tracker := a.Pages.New()
	form.Enabled = a.Config.ContactEnabled
	return views.Home(views.HomeData{
		Site:     a.Config.view(),
		PageID:   id,
		Active:   tracker.Active(),
		Sections: a.Pages.Sections(),
		About:    lib.About,
		Projects: lib.Projects,
		Blogs:    blogs,
		Tags:     tags,
		Tag:      tag,
		Contact:  form,
	}), nil
}

func (a *App) handleBlog(c echo.Context) error {
	slug := strings.Trim(c.Param("*"), "/")
	if slug == "" {
		return c.Redirect(http.StatusMovedPermanently, "/#blogs")
	}
	blog, err := a.Store.GetBlog(slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, views.NotFound(a.Config.view()))
		}
		return err
	}
	blogs, err := a.Store.ListBlogs("")
	if err != nil {
		return err
	}
	return Render(c, views.BlogDetail(a.Config.view(), blog, views.FilterRelatedBlogs(blog, blogs)))
}

// handleNav renders the nav for a page load with its current active section.
func (a *App) handleNav(c echo.Context) error {
	id := c.QueryParam("page")
	tracker, err := a.Pages.Get(id)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	return Render(c, views.Nav(a.Pages.Sections(), tracker.Active(), id))
}

func (a *App) handleSitemap(c echo.Context) error {
	blogs, err := a.Store.ListBlogs("")
	if err != nil {
		return err
	}
	return a.renderSitemap(c, blogs)
}

func (a *App) handleFeed(c echo.Context) error {
	blogs, err := a.Store.ListBlogs("")
	if err != nil {
		return err
	}
	return a.renderRSS(c, blogs)
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

// handleFavicon serves the site's favicon.svg, falling back to the embedded one.
func (a *App) handleFavicon(c echo.Context) error {
	p := filepath.Join(a.staticDir, "favicon.svg")
	if _, err := os.Stat(p); err == nil {
		return c.File(p)
	}
	data, err := EmbeddedAssets.ReadFile("embedded/favicon.svg")
	if err != nil {
		return echo.ErrNotFound
	}
	return c.Blob(http.StatusOK, "image/svg+xml", data)
}

func (a *App) handleRobots(c echo.Context) error {
	p := filepath.Join(a.staticDir, "robots.txt")
	if _, err := os.Stat(p); err == nil {
		return c.File(p)
	}
	body := "User-agent: *\nAllow: /\n\nSitemap: " + fileURL(a.Config.URL, "sitemap.xml") + "\n"
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		// JSON errors for the sections script.
		a.Echo.DefaultHTTPErrorHandler(err, c)
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.Config.view()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, views.ServerError(a.Config.view()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
