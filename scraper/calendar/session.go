package calendar

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"availability-scraper/config"
	"availability-scraper/utils"
)

// Session owns one headless browser tab for the lifetime of a crawl run.
// Every operation takes an explicit timeout; a timed-out wait surfaces as a
// plain error for the caller to absorb or escalate.
type Session struct {
	logger *utils.Logger

	ctx         context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
}

// NewSession launches a headless browser and returns a ready Session.
func NewSession(cfg *config.Config, logger *utils.Logger) (*Session, error) {
	chromeBin := findChromeBinary(cfg.ChromeBin)
	logger.Info("[session] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(1366, 768),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	s := &Session{
		logger:      logger,
		ctx:         ctx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
	}

	// Start the browser eagerly so launch failures surface here.
	if err := s.run(60*time.Second, chromedp.Navigate("about:blank")); err != nil {
		s.Close()
		return nil, fmt.Errorf("session: start browser: %w", err)
	}
	return s, nil
}

// Close tears down the tab and the browser process.
func (s *Session) Close() {
	s.cancelCtx()
	s.cancelAlloc()
}

func (s *Session) run(timeout time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

// Navigate loads the given URL and gives page scripts time to settle.
func (s *Session) Navigate(url string, timeout time.Duration) error {
	if err := s.run(timeout,
		chromedp.Navigate(url),
		chromedp.Sleep(3*time.Second),
	); err != nil {
		return fmt.Errorf("session: navigate %s: %w", url, err)
	}
	return nil
}

// Reload refreshes the current page.
func (s *Session) Reload(timeout time.Duration) error {
	if err := s.run(timeout,
		chromedp.Reload(),
		chromedp.Sleep(3*time.Second),
	); err != nil {
		return fmt.Errorf("session: reload: %w", err)
	}
	return nil
}

// SetZoom shrinks the page so the whole calendar renders consistently.
func (s *Session) SetZoom(factor float64) {
	js := fmt.Sprintf("document.body.style.zoom = '%.2f'", factor)
	if err := s.run(10*time.Second, chromedp.Evaluate(js, nil)); err != nil {
		s.logger.Debug("[session] zoom failed: %v", err)
	}
}

// WaitVisible blocks until the selector matches a visible element.
func (s *Session) WaitVisible(selector string, timeout time.Duration) error {
	if err := s.run(timeout, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("session: wait visible %q: %w", selector, err)
	}
	return nil
}

// WaitCondition polls the given JS expression until it returns truthy.
func (s *Session) WaitCondition(expression string, timeout time.Duration) error {
	if err := s.run(timeout, chromedp.Poll(expression, nil)); err != nil {
		return fmt.Errorf("session: wait condition: %w", err)
	}
	return nil
}

// Text returns the trimmed text content of the first element matching selector.
func (s *Session) Text(selector string, timeout time.Duration) (string, error) {
	var out string
	js := fmt.Sprintf(
		`(function(){var el=document.querySelector(%q);return el?el.textContent.trim():'';})()`,
		selector)
	if err := s.run(timeout, chromedp.Evaluate(js, &out)); err != nil {
		return "", fmt.Errorf("session: text %q: %w", selector, err)
	}
	return out, nil
}

// WaitTextChange blocks until the element's text differs from previous and
// is non-empty.
func (s *Session) WaitTextChange(selector, previous string, timeout time.Duration) error {
	js := fmt.Sprintf(
		`(function(){var el=document.querySelector(%q);`+
			`return !!el && el.textContent.trim() !== '' && el.textContent.trim() !== %q;})()`,
		selector, previous)
	if err := s.run(timeout, chromedp.Poll(js, nil)); err != nil {
		return fmt.Errorf("session: wait text change %q: %w", selector, err)
	}
	return nil
}

// Count returns the number of elements matching selector.
func (s *Session) Count(selector string, timeout time.Duration) (int, error) {
	var n int
	js := fmt.Sprintf(`document.querySelectorAll(%q).length`, selector)
	if err := s.run(timeout, chromedp.Evaluate(js, &n)); err != nil {
		return 0, fmt.Errorf("session: count %q: %w", selector, err)
	}
	return n, nil
}

// ClickForce scrolls the element into view and clicks it.
func (s *Session) ClickForce(selector string, timeout time.Duration) error {
	if err := s.run(timeout,
		chromedp.ScrollIntoView(selector, chromedp.ByQuery),
		chromedp.Sleep(time.Second),
		chromedp.Click(selector, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("session: click %q: %w", selector, err)
	}
	return nil
}

// ClickNth clicks the index-th element matching selector via the DOM.
func (s *Session) ClickNth(selector string, index int, timeout time.Duration) error {
	var clicked bool
	js := fmt.Sprintf(
		`(function(){var els=document.querySelectorAll(%q);`+
			`if(els.length<=%d)return false;els[%d].click();return true;})()`,
		selector, index, index)
	if err := s.run(timeout, chromedp.Evaluate(js, &clicked)); err != nil {
		return fmt.Errorf("session: click nth %q[%d]: %w", selector, index, err)
	}
	if !clicked {
		return fmt.Errorf("session: click nth %q[%d]: no such element", selector, index)
	}
	return nil
}

// EvalClick invokes click() on the first matching element without any
// pointer simulation. Returns whether an element was found.
func (s *Session) EvalClick(selector string, timeout time.Duration) (bool, error) {
	var clicked bool
	js := fmt.Sprintf(
		`(function(){var el=document.querySelector(%q);if(!el)return false;el.click();return true;})()`,
		selector)
	if err := s.run(timeout, chromedp.Evaluate(js, &clicked)); err != nil {
		return false, fmt.Errorf("session: eval click %q: %w", selector, err)
	}
	return clicked, nil
}

// CalendarScriptData reads the widget's calendarArray page global. An
// undefined or empty global yields a nil slice, not an error.
func (s *Session) CalendarScriptData(timeout time.Duration) ([]ScriptEntry, error) {
	var entries []ScriptEntry
	js := `(function(){` +
		`if(typeof calendarArray!=='undefined'&&calendarArray.length>0){return calendarArray;}` +
		`return [];})()`
	if err := s.run(timeout, chromedp.Evaluate(js, &entries)); err != nil {
		return nil, fmt.Errorf("session: calendar script data: %w", err)
	}
	return entries, nil
}

// OuterHTML returns the serialized HTML of the first element matching selector.
func (s *Session) OuterHTML(selector string, timeout time.Duration) (string, error) {
	var html string
	if err := s.run(timeout, chromedp.OuterHTML(selector, &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("session: outer html %q: %w", selector, err)
	}
	return html, nil
}

// Settle sleeps to let the page react to an interaction.
func (s *Session) Settle(d time.Duration) {
	time.Sleep(d)
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
