package calendar

import (
	"fmt"
	"time"

	"availability-scraper/models"
	"availability-scraper/utils"
)

// Widget controls used by navigation.
const (
	headerSelector    = "#currentMonth-1"
	altHeaderSelector = ".current"
	nextButtonID      = "#nextMonth-1"
	nextButtonClass   = ".next"

	settleDelay   = 3 * time.Second
	waitTimeout   = 10 * time.Second
	headerTimeout = 10 * time.Second
)

// NavOutcome tags the result of one month advancement.
type NavOutcome int

const (
	// NavAdvanced means the page observably moved to the next month.
	NavAdvanced NavOutcome = iota
	// NavUncertain means a control was activated but the page gave no
	// reliable confirmation; advancement is assumed.
	NavUncertain
	// NavFailed means no strategy could activate any next-month control.
	NavFailed
)

func (o NavOutcome) String() string {
	switch o {
	case NavAdvanced:
		return "advanced"
	case NavUncertain:
		return "uncertain"
	default:
		return "failed"
	}
}

// NavResult carries the outcome together with the navigator's month
// counter after the attempt.
type NavResult struct {
	Outcome NavOutcome
	Context models.MonthContext
	Err     error
}

// Pager is the minimal browser capability surface the navigator needs,
// kept narrow so strategies are testable without a real browser.
type Pager interface {
	Text(selector string, timeout time.Duration) (string, error)
	WaitVisible(selector string, timeout time.Duration) error
	WaitTextChange(selector, previous string, timeout time.Duration) error
	ClickForce(selector string, timeout time.Duration) error
	ClickNth(selector string, index int, timeout time.Duration) error
	EvalClick(selector string, timeout time.Duration) (bool, error)
	Count(selector string, timeout time.Duration) (int, error)
	Settle(d time.Duration)
}

type navStrategy struct {
	name string
	run  func() (NavOutcome, error)
}

// Navigator advances the calendar one month at a time. It keeps its own
// month counter because the displayed header is not a trustworthy
// advancement signal: the counter moves forward on Advanced and Uncertain
// alike, and dedupe downstream absorbs a truly stuck calendar.
type Navigator struct {
	pager      Pager
	logger     *utils.Logger
	context    models.MonthContext
	strategies []navStrategy
}

// NewNavigator creates a Navigator starting from the given month context.
func NewNavigator(pager Pager, logger *utils.Logger, start models.MonthContext) *Navigator {
	n := &Navigator{pager: pager, logger: logger, context: start}
	n.strategies = []navStrategy{
		{name: "labeled-control", run: n.clickLabeledControl},
		{name: "cell-count", run: n.clickGenericControls},
		{name: "script-click", run: n.scriptClick},
	}
	return n
}

// Context returns the navigator's current month counter.
func (n *Navigator) Context() models.MonthContext {
	return n.context
}

// Sync aligns the counter with a month context derived from the page, so
// the degraded counter only drifts while the header is unreadable.
func (n *Navigator) Sync(mc models.MonthContext) {
	n.context = mc
}

// Advance tries each strategy in order and returns the first non-error
// outcome. Only when every strategy errors does the result become Failed.
func (n *Navigator) Advance() NavResult {
	var lastErr error
	for _, st := range n.strategies {
		outcome, err := st.run()
		if err != nil {
			lastErr = err
			n.logger.Warn("[navigate] %s strategy failed: %v", st.name, err)
			continue
		}
		n.bump()
		n.logger.Info("[navigate] %s strategy: %s — now at %s", st.name, outcome, Label(n.context))
		return NavResult{Outcome: outcome, Context: n.context}
	}
	return NavResult{
		Outcome: NavFailed,
		Context: n.context,
		Err:     fmt.Errorf("calendar: no next-month control responded: %w", lastErr),
	}
}

func (n *Navigator) bump() {
	n.context.Month++
	if n.context.Month > 11 {
		n.context.Month = 0
		n.context.Year++
	}
}

// clickLabeledControl uses the uniquely identified next-month button and
// confirms advancement by watching the header text change. A click that
// lands but never changes the header is Uncertain, not an error.
func (n *Navigator) clickLabeledControl() (NavOutcome, error) {
	previous, err := n.pager.Text(headerSelector, waitTimeout)
	if err != nil {
		return NavFailed, err
	}

	if err := n.pager.WaitVisible(nextButtonID, waitTimeout); err != nil {
		return NavFailed, err
	}
	if err := n.pager.ClickForce(nextButtonID, waitTimeout); err != nil {
		return NavFailed, err
	}

	n.pager.Settle(settleDelay)

	if err := n.pager.WaitTextChange(headerSelector, previous, headerTimeout); err != nil {
		return NavUncertain, nil
	}
	return NavAdvanced, nil
}

// clickGenericControls iterates every generically-classed next control,
// clicking each and comparing the open/closed cell counts against a
// pre-click snapshot. A changed count is proof of advancement; clicks that
// change nothing still end Uncertain, because the widget sometimes redraws
// identical counts for adjacent months.
func (n *Navigator) clickGenericControls() (NavOutcome, error) {
	total, err := n.pager.Count(nextButtonClass, waitTimeout)
	if err != nil {
		return NavFailed, err
	}
	if total == 0 {
		return NavFailed, fmt.Errorf("calendar: no %q controls present", nextButtonClass)
	}

	preOpen, err := n.pager.Count(openCellSelector, waitTimeout)
	if err != nil {
		return NavFailed, err
	}
	preClosed, err := n.pager.Count(closedCellSelector, waitTimeout)
	if err != nil {
		return NavFailed, err
	}

	clicked := false
	for i := 0; i < total; i++ {
		if err := n.pager.ClickNth(nextButtonClass, i, waitTimeout); err != nil {
			n.logger.Debug("[navigate] next control %d unusable: %v", i, err)
			continue
		}
		clicked = true
		n.pager.Settle(settleDelay)

		postOpen, err := n.pager.Count(openCellSelector, waitTimeout)
		if err != nil {
			continue
		}
		postClosed, err := n.pager.Count(closedCellSelector, waitTimeout)
		if err != nil {
			continue
		}
		if postOpen != preOpen || postClosed != preClosed {
			return NavAdvanced, nil
		}
	}

	if !clicked {
		return NavFailed, fmt.Errorf("calendar: none of %d %q controls accepted a click", total, nextButtonClass)
	}
	return NavUncertain, nil
}

// scriptClick is the last resort: invoke the control's action directly
// instead of simulating a pointer interaction.
func (n *Navigator) scriptClick() (NavOutcome, error) {
	var lastErr error
	for _, sel := range []string{nextButtonID, nextButtonClass} {
		ok, err := n.pager.EvalClick(sel, waitTimeout)
		if err != nil {
			lastErr = err
			n.logger.Debug("[navigate] script click %q failed: %v", sel, err)
			continue
		}
		if ok {
			n.pager.Settle(settleDelay)
			return NavUncertain, nil
		}
	}
	if lastErr != nil {
		return NavFailed, lastErr
	}
	return NavFailed, fmt.Errorf("calendar: no next-month control exists")
}
