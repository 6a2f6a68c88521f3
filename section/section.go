// Package section tracks which navigable region of the page is currently
// active as the visitor scrolls.
//
// Browsers report visibility crossings for each registered section; a
// Tracker turns those reports into a single active section name, and
// temporarily ignores them after an explicit navigation selection so the
// clicked target is not overridden while the page smooth-scrolls past
// other sections.
package section

import (
	"errors"
	"strings"
	"time"
)

// DefaultThreshold is the visible fraction a section needs to become active
// when it registers without its own threshold.
const DefaultThreshold = 0.75

// DefaultSuppressWindow is how long observation is ignored after Select.
const DefaultSuppressWindow = time.Second

// NoSuppression as a PagesConfig.SuppressWindow turns the pause after Select
// off, so observations are applied immediately.
const NoSuppression time.Duration = -1

var (
	// ErrUnknownSection is returned when selecting a section that was never registered.
	ErrUnknownSection = errors.New("section: unknown section")
	// ErrUnknownPage is returned for page ids that were never issued or have expired.
	ErrUnknownPage = errors.New("section: unknown page")
)

// Section is a named, navigable region of the single-page layout.
type Section struct {
	Name      string
	Threshold float64
}

// ID returns the DOM anchor for the section, e.g. "about" for "About".
func (s Section) ID() string {
	return Anchor(s.Name)
}

// Href returns the in-page link to the section.
func (s Section) Href() string {
	return "#" + s.ID()
}

// Anchor lowercases a section name into a DOM id.
func Anchor(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}

// Defaults lists the sections of the home page in render order.
// About needs to be almost fully visible because it sits directly under the intro.
func Defaults() []Section {
	return []Section{
		{Name: "Home", Threshold: DefaultThreshold},
		{Name: "About", Threshold: 0.9},
		{Name: "Projects", Threshold: 0.5},
		{Name: "Blogs", Threshold: DefaultThreshold},
		{Name: "Contact", Threshold: DefaultThreshold},
	}
}

func normalizeThreshold(t float64) float64 {
	if t <= 0 || t > 1 {
		return DefaultThreshold
	}
	return t
}
