package portfolio

import (
	"time"

	"github.com/eringen/portfolio/section"
	"github.com/eringen/portfolio/views"
)

// SiteConfig holds all configuration for a portfolio site.
type SiteConfig struct {
	Name        string // Site name (default "Portfolio")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Owner name shown in the intro and JSON-LD
	Email       string // Direct contact address shown in the Contact section

	Addr         string // Listen address (default ":3000")
	ContentDir   string // Content directory (default "content")
	DatabasePath string // SQLite blog index (default in memory)
	WatchContent bool   // Reload content when files change

	ContactEnabled bool       // Show and accept the contact form (default false)
	ContactTo      string     // Recipient of contact messages (default Email)
	SMTP           SMTPConfig // Outgoing mail for the contact form

	SessionSecret string // Session encryption secret, required with ContactEnabled
	CookieSecure  bool   // Set true for HTTPS

	SuppressWindow time.Duration // Observation pause after a nav click (default 1s, section.NoSuppression disables)
	PageTTL        time.Duration // Idle lifetime of a page's section state (default 30min)
	MaxPages       int           // Page section states kept in memory (default 10000)
}

// SMTPConfig is the mail server used by SMTPMailer.
type SMTPConfig struct {
	Host     string
	Port     string // default "587"
	User     string
	Password string
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Portfolio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = MemoryDatabase
	}
	if c.ContactTo == "" {
		c.ContactTo = c.Email
	}
	if c.SMTP.Port == "" {
		c.SMTP.Port = "587"
	}
	if c.SuppressWindow == 0 {
		c.SuppressWindow = section.DefaultSuppressWindow
	}
	if c.PageTTL <= 0 {
		c.PageTTL = 30 * time.Minute
	}
	if c.MaxPages <= 0 {
		c.MaxPages = section.DefaultMaxPages
	}
}

func (c SiteConfig) view() views.SiteConfig {
	return views.SiteConfig{
		Name:        c.Name,
		URL:         c.URL,
		Description: c.Description,
		Author:      c.Author,
		Email:       c.Email,
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are set up.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithMailer replaces the SMTP mailer used by the contact form.
func WithMailer(m Mailer) Option {
	return func(a *App) {
		a.mailer = m
	}
}

// WithClock replaces time.Now for section state and rate limits.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		if now != nil {
			a.now = now
		}
	}
}
