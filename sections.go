package portfolio

import (
	"errors"
	"math"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/portfolio/section"
)

// tracker resolves the page id of a section API call.
func (a *App) tracker(id string) (*section.Tracker, error) {
	t, err := a.Pages.Get(id)
	if errors.Is(err, section.ErrUnknownPage) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "unknown page")
	}
	return t, err
}

// handleVisibility applies a visibility crossing reported by the browser.
func (a *App) handleVisibility(c echo.Context) error {
	var req VisibilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if math.IsNaN(req.Ratio) || req.Ratio < 0 || req.Ratio > 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "ratio must be between 0 and 1")
	}
	t, err := a.tracker(req.Page)
	if err != nil {
		return err
	}
	changed := t.Observe(req.Section, req.Ratio)
	return c.JSON(http.StatusOK, SectionState{
		Active:     t.Active(),
		Changed:    changed,
		Suppressed: t.Suppressed(),
	})
}

// handleSelect applies a nav click.
func (a *App) handleSelect(c echo.Context) error {
	var req SelectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	t, err := a.tracker(req.Page)
	if err != nil {
		return err
	}
	before := t.Active()
	if err := t.Select(req.Section); err != nil {
		if errors.Is(err, section.ErrUnknownSection) {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown section")
		}
		return err
	}
	a.metrics.selections.WithLabelValues(req.Section).Inc()
	return c.JSON(http.StatusOK, SectionState{
		Active:     t.Active(),
		Changed:    before != t.Active(),
		Suppressed: t.Suppressed(),
	})
}

// handleLeave discards the section state of an unloaded page.
func (a *App) handleLeave(c echo.Context) error {
	var req LeaveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	a.Pages.Drop(req.Page)
	return c.NoContent(http.StatusNoContent)
}
