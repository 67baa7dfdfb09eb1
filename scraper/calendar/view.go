package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Container selectors for the calendar widget, newest markup first. The
// snapshot is scoped to the widget so stray cells elsewhere on the page
// never leak into extraction.
var containerSelectors = []string{"#calendar-1", "form#calendar", "body"}

// Snapshot serializes the calendar container and parses it offline, so all
// cell extraction runs against an in-memory document instead of round-
// tripping to the browser per element.
func (s *Session) Snapshot(timeout time.Duration) (*goquery.Document, error) {
	var lastErr error
	for _, sel := range containerSelectors {
		html, err := s.OuterHTML(sel, timeout)
		if err != nil {
			lastErr = err
			continue
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return nil, fmt.Errorf("calendar: parse snapshot: %w", err)
		}
		return doc, nil
	}
	return nil, fmt.Errorf("calendar: no container found: %w", lastErr)
}
