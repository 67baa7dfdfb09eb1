package calendar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"availability-scraper/models"
)

// monthNames holds the widget's Portuguese month vocabulary in calendar
// order; the slice index is the zero-based month index.
var monthNames = []string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

var yearRegexp = regexp.MustCompile(`20\d{2}`)

// ParseMonthLabel extracts a (month, year) pair from a calendar header like
// "Julho 2025". Month name and year may appear anywhere in the text. A
// missing month or year falls back to now — the widget's header frequently
// lags behind navigation, and a stale guess beats aborting the capture.
func ParseMonthLabel(text string, now time.Time) models.MonthContext {
	mc := models.MonthContext{Month: int(now.Month()) - 1, Year: now.Year()}

	lower := strings.ToLower(text)
	for i, name := range monthNames {
		if strings.Contains(lower, strings.ToLower(name)) {
			mc.Month = i
			break
		}
	}

	if match := yearRegexp.FindString(text); match != "" {
		if year, err := strconv.Atoi(match); err == nil {
			mc.Year = year
		}
	}

	return mc
}

// Label renders a MonthContext back into the widget's header form.
func Label(mc models.MonthContext) string {
	if mc.Month < 0 || mc.Month > 11 {
		return fmt.Sprintf("%d", mc.Year)
	}
	return fmt.Sprintf("%s %d", monthNames[mc.Month], mc.Year)
}

// LabelForDate reconstructs the month label from an ISO date string,
// returning "" when the date does not parse.
func LabelForDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return Label(models.MonthContext{Month: int(t.Month()) - 1, Year: t.Year()})
}
