package calendar

import (
	"fmt"
	"time"

	"availability-scraper/config"
	"availability-scraper/models"
	"availability-scraper/pricing"
	"availability-scraper/utils"
)

const (
	calendarContainerSelector = ".calendario-aberto"
	calendarFormSelector      = "form#calendar"

	// cellsPresentExpr is true once any generation of day cell rendered.
	cellsPresentExpr = `document.querySelectorAll('.daysOpen').length > 0 ||` +
		` document.querySelectorAll('.daysClose').length > 0 ||` +
		` document.querySelectorAll('.dateValue').length > 0`

	pageLoadTimeout  = 60 * time.Second
	readyTimeout     = 20 * time.Second
	cellsWaitTimeout = 10 * time.Second
	snapshotTimeout  = 15 * time.Second
)

// Crawler drives one full multi-month capture over a browser session.
type Crawler struct {
	cfg        *config.Config
	logger     *utils.Logger
	normalizer *Normalizer
	retry      *utils.RetryConfig
}

// New creates a ready-to-use Crawler.
func New(cfg *config.Config, logger *utils.Logger) *Crawler {
	return &Crawler{
		cfg:        cfg,
		logger:     logger,
		normalizer: NewNormalizer(pricing.Reference(), logger),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   5 * time.Second,
			Logger:      logger,
		},
	}
}

// Run launches a browser, waits for the calendar to become ready, then
// captures the configured number of consecutive months. Only the readiness
// check is fatal; every per-month failure degrades the output instead.
// It returns the accumulated records and the number of months that
// produced at least one record.
func (c *Crawler) Run() ([]*models.AvailabilityRecord, int, error) {
	session, err := NewSession(c.cfg, c.logger)
	if err != nil {
		return nil, 0, err
	}
	defer session.Close()

	c.logger.Info("[crawl] Opening %s", c.cfg.TargetURL)
	if err := session.Navigate(c.cfg.TargetURL, pageLoadTimeout); err != nil {
		return nil, 0, err
	}
	session.SetZoom(0.8)

	if err := c.awaitCalendar(session); err != nil {
		return nil, 0, err
	}

	step := &sessionStep{
		session:    session,
		normalizer: c.normalizer,
		logger:     c.logger,
		navigator: NewNavigator(session, c.logger, models.MonthContext{
			Month: int(time.Now().Month()) - 1,
			Year:  time.Now().Year(),
		}),
	}

	records, captured := crawl(c.cfg.MonthsToCapture, step, c.logger)
	c.logger.Info("[crawl] Capture complete — %d months, %d dates total", captured, len(records))
	return records, captured, nil
}

// awaitCalendar blocks until the calendar container and its day cells are
// rendered, reloading the page between attempts. Exhausting the retry
// budget is the one fatal failure of a crawl.
func (c *Crawler) awaitCalendar(session *Session) error {
	err := c.retry.DoWithRecovery("calendar-ready", func() error {
		if err := session.WaitVisible(calendarContainerSelector, readyTimeout); err != nil {
			c.logger.Debug("[crawl] %s not found, trying %s", calendarContainerSelector, calendarFormSelector)
			if err := session.WaitVisible(calendarFormSelector, readyTimeout); err != nil {
				return err
			}
		}
		return session.WaitCondition(cellsPresentExpr, cellsWaitTimeout)
	}, func() {
		if err := session.Reload(pageLoadTimeout); err != nil {
			c.logger.Warn("[crawl] reload between attempts failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("calendar never became ready: %w", err)
	}

	c.logger.Info("[crawl] Calendar ready")
	return nil
}

// crawlStep abstracts one iteration of the month loop so the loop's
// failure semantics are testable without a browser.
type crawlStep interface {
	Capture(iteration int) ([]*models.AvailabilityRecord, error)
	Advance() error
}

// crawl executes exactly target iterations, threading an accumulator
// through each step. Capture errors and empty months contribute zero
// records; a failed advance still lets the next capture run against
// whatever state the page is in.
func crawl(target int, step crawlStep, logger *utils.Logger) ([]*models.AvailabilityRecord, int) {
	var acc []*models.AvailabilityRecord
	captured := 0

	for i := 0; i < target; i++ {
		records, err := step.Capture(i)
		switch {
		case err != nil:
			logger.Error("[crawl] Month %d/%d capture failed: %v", i+1, target, err)
		case len(records) == 0:
			logger.Warn("[crawl] Month %d/%d returned no dates", i+1, target)
		default:
			acc = append(acc, records...)
			captured++
			logger.Info("[crawl] Month %d/%d captured: %d dates", i+1, target, len(records))
		}

		if i < target-1 {
			if err := step.Advance(); err != nil {
				logger.Error("[crawl] Month advance failed: %v — continuing", err)
			}
		}
	}

	return acc, captured
}

// sessionStep implements crawlStep against the live browser session.
type sessionStep struct {
	session    *Session
	navigator  *Navigator
	normalizer *Normalizer
	logger     *utils.Logger
}

// Capture extracts and normalizes the month currently shown. When the DOM
// yields nothing, the widget's calendarArray script global serves as a
// fallback source for the same month.
func (s *sessionStep) Capture(iteration int) ([]*models.AvailabilityRecord, error) {
	mc := s.currentMonth()
	s.navigator.Sync(mc)

	doc, err := s.session.Snapshot(snapshotTimeout)
	if err != nil {
		return nil, err
	}

	open, closed := ExtractDayCells(doc)
	s.logger.Debug("[crawl] %s — %d open, %d closed cells", Label(mc), len(open), len(closed))

	cells := append(open, closed...)
	records := s.normalizer.Normalize(mc, cells, time.Now())
	if len(records) == 0 {
		return s.captureFromScript(mc)
	}
	return records, nil
}

// captureFromScript reads the page's calendar script data when DOM
// extraction came up empty.
func (s *sessionStep) captureFromScript(mc models.MonthContext) ([]*models.AvailabilityRecord, error) {
	s.logger.Warn("[crawl] %s — no dates in the DOM, trying script data", Label(mc))
	entries, err := s.session.CalendarScriptData(snapshotTimeout)
	if err != nil {
		return nil, err
	}
	records := s.normalizer.FromScriptData(mc, entries, time.Now())
	if len(records) > 0 {
		s.logger.Info("[crawl] %s — %d dates recovered from script data", Label(mc), len(records))
	}
	return records, nil
}

// currentMonth derives the month context from the displayed header,
// falling back to the navigator's internal counter when the header is
// unreadable.
func (s *sessionStep) currentMonth() models.MonthContext {
	for _, sel := range []string{headerSelector, altHeaderSelector} {
		text, err := s.session.Text(sel, waitTimeout)
		if err == nil && text != "" {
			return ParseMonthLabel(text, time.Now())
		}
	}
	s.logger.Warn("[crawl] Month header unreadable — using tracked counter %s", Label(s.navigator.Context()))
	return s.navigator.Context()
}

// Advance moves the calendar one month forward. Uncertain outcomes are
// accepted as advancement; only Failed propagates.
func (s *sessionStep) Advance() error {
	result := s.navigator.Advance()
	switch result.Outcome {
	case NavFailed:
		return result.Err
	case NavUncertain:
		s.logger.Warn("[crawl] Navigation unconfirmed — assuming %s", Label(result.Context))
	}
	return nil
}
