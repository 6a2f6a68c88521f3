// Package portfolio is a server-rendered personal portfolio site built with
// Go, Echo, and templ. It serves a single-page layout (intro, About,
// Projects, Blogs, Contact) plus blog detail pages, RSS, and a sitemap, all
// read from a content directory of markdown and YAML files.
//
// The active navigation section of every page load is tracked on the server:
// the embedded sections script reports visibility crossings and nav clicks
// to a per-page section.Tracker.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/eringen/portfolio/content"
	"github.com/eringen/portfolio/section"
)

// App is the central portfolio application. It wires together the content
// source, the blog index, section state, handlers, and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Pages  *section.Pages
	Source *content.Source

	mailer         Mailer
	contactLimiter *Limiter
	thumbs         *thumbCache
	registry       *prometheus.Registry
	metrics        *metrics
	now            func() time.Time
	customRoutes   []func(*App)
	staticDir      string

	setupOnce sync.Once
	setupErr  error

	mu      sync.RWMutex
	library *content.Library
}

// New creates a new portfolio App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Source:    content.NewSource(cfg.ContentDir),
		registry:  prometheus.NewRegistry(),
		now:       time.Now,
		staticDir: "public",
		library:   &content.Library{},
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup opens the blog index, loads the content directory, and registers
// middleware and routes. Start calls it; tests call it directly and drive
// a.Echo with httptest.
func (a *App) Setup() error {
	a.setupOnce.Do(func() { a.setupErr = a.setup() })
	return a.setupErr
}

func (a *App) setup() error {
	if a.Config.ContactEnabled {
		if a.Config.SessionSecret == "" {
			return fmt.Errorf("portfolio: SessionSecret is required when the contact form is enabled")
		}
		if a.mailer == nil {
			if a.Config.SMTP.Host == "" || a.Config.ContactTo == "" {
				return fmt.Errorf("portfolio: contact form needs SMTP_HOST and CONTACT_TO (or a custom Mailer)")
			}
			a.mailer = NewSMTPMailer(a.Config.SMTP, a.Config.ContactTo)
		}
	}
	if a.Config.SessionSecret == "" {
		// Sessions only carry flash messages; a per-process key is enough.
		a.Config.SessionSecret = string(securecookie.GenerateRandomKey(32))
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("portfolio: init store: %w", err)
	}
	a.Store = store

	a.metrics = newMetrics(a.registry, a.livePages)
	a.Pages = section.NewPages(section.PagesConfig{
		TTL:            a.Config.PageTTL,
		MaxPages:       a.Config.MaxPages,
		SuppressWindow: a.Config.SuppressWindow,
		Now:            a.now,
		OnNew: func(t *section.Tracker) {
			a.metrics.pages.Inc()
			t.OnChange(a.metrics.activated)
		},
	})
	a.contactLimiter = NewLimiter(contactLimit, contactWindow, a.now)
	a.thumbs = newThumbCache(maxThumbs)

	if err := a.Reload(); err != nil {
		return err
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start sets the app up and serves until ctx is done, then shuts the server
// down gracefully.
func (a *App) Start(ctx context.Context) error {
	if err := a.Setup(); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.Pages.StartJanitor(ctx, time.Minute)

	if a.Config.WatchContent {
		w, err := content.NewWatcher(a.Source.Dir(), 0, func(err error) {
			a.Echo.Logger.Warnf("content watcher: %v", err)
		})
		if err != nil {
			return fmt.Errorf("portfolio: watch content: %w", err)
		}
		go w.Run(ctx, func() {
			if err := a.Reload(); err != nil {
				a.Echo.Logger.Errorf("content reload: %v", err)
			}
		})
	}

	errc := make(chan error, 1)
	go func() {
		errc <- a.Echo.Start(a.Config.Addr)
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("portfolio: shutdown: %w", err)
	}
	return nil
}

const shutdownTimeout = 10 * time.Second

// Reload reads the content directory again and replaces the blog index.
// A content directory that cannot be read leaves the previous content in
// place.
func (a *App) Reload() error {
	lib, err := a.Source.Load()
	if err != nil {
		a.metrics.reloads.WithLabelValues("error").Inc()
		return fmt.Errorf("portfolio: load content: %w", err)
	}
	for _, p := range lib.Problems {
		a.Echo.Logger.Warnf("skipped content: %v", p)
	}
	if err := a.Store.ReplaceBlogs(lib.Blogs); err != nil {
		a.metrics.reloads.WithLabelValues("error").Inc()
		return fmt.Errorf("portfolio: index blogs: %w", err)
	}

	indexed, err := a.Store.CountBlogs()
	if err != nil {
		a.metrics.reloads.WithLabelValues("error").Inc()
		return fmt.Errorf("portfolio: count blogs: %w", err)
	}

	a.mu.Lock()
	a.library = lib
	a.mu.Unlock()
	a.thumbs.Reset()

	a.metrics.reloads.WithLabelValues("ok").Inc()
	a.metrics.blogs.Set(float64(indexed))
	a.Echo.Logger.Infof("loaded %d blogs, %d projects from %s", indexed, len(lib.Projects), a.Source.Dir())
	return nil
}

// Library returns the most recently loaded content.
func (a *App) Library() *content.Library {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.library
}

func (a *App) livePages() float64 {
	if a.Pages == nil {
		return 0
	}
	return float64(a.Pages.Len())
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Framework scripts are embedded and served under /public/, ahead of the
	// user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/sections.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/motion.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/metrics", a.metricsHandler())

	e.GET("/", a.handleHome)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/blogs/*", a.handleBlog)
	e.GET("/nav/", a.handleNav)
	e.GET("/thumbs/*", a.handleThumb)
	e.POST("/contact/", a.handleContact)

	api := e.Group("/api/sections", a.apiRateLimiter())
	api.POST("/visibility", a.handleVisibility)
	api.POST("/select", a.handleSelect)
	api.POST("/leave", a.handleLeave)

	// Cover images written as "../public/x.png" are referenced as "/x.png".
	e.Static("/", a.staticDir)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.contactLimiter != nil {
		a.contactLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnvBool parses a boolean environment variable ("1", "true", "yes"...).
// Unset or unparsable values return fallback.
func EnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	switch v {
	case "":
		return fallback
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// EnvDuration parses a duration environment variable such as "1s" or "30m".
func EnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// EnvInt parses an integer environment variable. Unset or unparsable values
// return fallback.
func EnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}
