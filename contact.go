package portfolio

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"
	"net/smtp"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/eringen/portfolio/views"
)

// maxContactField bounds both contact form fields, in characters.
const maxContactField = 500

// Mailer delivers contact form messages.
type Mailer interface {
	Send(ctx context.Context, msg ContactMessage) error
}

// SMTPMailer sends contact messages through an SMTP server with PLAIN auth.
type SMTPMailer struct {
	cfg SMTPConfig
	to  string
}

// NewSMTPMailer returns a Mailer that delivers to the address to.
func NewSMTPMailer(cfg SMTPConfig, to string) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, to: to}
}

// Send implements Mailer.
func (m *SMTPMailer) Send(ctx context.Context, msg ContactMessage) error {
	if m.cfg.User == "" || m.cfg.Password == "" {
		return fmt.Errorf("portfolio: SMTP credentials not configured")
	}
	body := fmt.Sprintf("New contact form submission from your portfolio:\r\n\r\nEmail: %s\r\nMessage:\r\n%s\r\n",
		msg.From, msg.Message)
	raw := []byte("To: " + m.to + "\r\n" +
		"Reply-To: " + msg.From + "\r\n" +
		"Subject: Portfolio contact from " + msg.From + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" + body)

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port

	// net/smtp has no context support; give up waiting when ctx ends.
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, m.cfg.User, []string{m.to}, raw)
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("portfolio: send mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// validateContact checks a submission and returns the message to show
// when it is invalid.
func validateContact(email, message string) (string, bool) {
	switch {
	case email == "":
		return "Email is required.", false
	case utf8.RuneCountInString(email) > maxContactField:
		return "Email is too long.", false
	case !validEmail(email):
		return "Please enter a valid email address.", false
	case strings.TrimSpace(message) == "":
		return "Message is required.", false
	case utf8.RuneCountInString(message) > maxContactField:
		return "Message must be at most 500 characters.", false
	}
	return "", true
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	// Reject display-name forms ("Ada <ada@example.com>") and header injection.
	return err == nil && addr.Address == s && !strings.ContainsAny(s, "\r\n")
}

func (a *App) handleContact(c echo.Context) error {
	if !a.Config.ContactEnabled {
		return echo.ErrNotFound
	}
	email := strings.TrimSpace(c.FormValue("email"))
	message := c.FormValue("message")
	form := views.ContactForm{Enabled: true, CSRF: CsrfToken(c), Email: email, Message: message}

	if problem, ok := validateContact(email, message); !ok {
		a.metrics.contact.WithLabelValues("invalid").Inc()
		form.Error = problem
		return a.contactResponse(c, http.StatusUnprocessableEntity, form)
	}

	ip := c.RealIP()
	if !a.contactLimiter.Check(ip) {
		a.metrics.contact.WithLabelValues("limited").Inc()
		form.Error = "Too many messages. Please try again later."
		return a.contactResponse(c, http.StatusTooManyRequests, form)
	}

	if err := a.mailer.Send(c.Request().Context(), ContactMessage{From: email, Message: message, IP: ip}); err != nil {
		c.Logger().Errorf("contact: %v", err)
		a.metrics.contact.WithLabelValues("error").Inc()
		form.Error = "Your message could not be sent. Please email me directly."
		return a.contactResponse(c, http.StatusBadGateway, form)
	}
	// Only delivered messages count against the limit.
	a.contactLimiter.Record(ip)
	a.metrics.contact.WithLabelValues("sent").Inc()

	const thanks = "Thanks! Your message was sent."
	if isHTMX(c) {
		return Render(c, views.ContactFormBody(views.ContactForm{Enabled: true, CSRF: form.CSRF, Flash: thanks}))
	}
	if err := addFlash(c, thanks); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/#contact")
}

// contactResponse answers a rejected submission: the form fragment for
// HTMX requests, otherwise the whole page with the form filled in.
func (a *App) contactResponse(c echo.Context, code int, form views.ContactForm) error {
	if isHTMX(c) {
		return RenderStatus(c, code, views.ContactFormBody(form))
	}
	page, err := a.homePage(c, form)
	if err != nil {
		return err
	}
	return RenderStatus(c, code, page)
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}
