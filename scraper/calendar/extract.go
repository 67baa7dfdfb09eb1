package calendar

import (
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"availability-scraper/models"
)

// Selectors for the two widget generations. The store pages render the
// newer daysOpen/daysClose markup; the older checkout flow still serves
// dateValue cells with a single formatted price string.
const (
	openCellSelector   = ".daysOpen"
	closedCellSelector = ".daysClose"
	priceGroupSelector = ".spanValue"
	centsSelector      = ".centavos"

	altOpenCellSelector   = ".dateValue:not(.disabled)"
	altClosedCellSelector = ".dateValue.disabled"
	altDaySelector        = ".dateValueDay"
	altPriceSelector      = ".dateValuePrice"
)

// ExtractDayCells scans a calendar snapshot and returns the open and closed
// day cells of the month currently shown. Empty slices mean the page does
// not currently satisfy the calendar contract — that is the normal terminal
// condition, not an error.
func ExtractDayCells(doc *goquery.Document) (open, closed []models.DayCell) {
	open = collectCells(doc.Find(openCellSelector), true)
	closed = collectCells(doc.Find(closedCellSelector), false)

	if len(open) == 0 && len(closed) == 0 {
		open = collectAltCells(doc.Find(altOpenCellSelector), true)
		closed = collectAltCells(doc.Find(altClosedCellSelector), false)
	}
	return open, closed
}

// collectCells reads daysOpen/daysClose cells: day number in the first
// span, price split across an integer span and a cents span.
func collectCells(cells *goquery.Selection, isOpen bool) []models.DayCell {
	var out []models.DayCell
	cells.Each(func(_ int, cell *goquery.Selection) {
		day, ok := parseDay(cell.Find("span").First().Text())
		if !ok {
			return
		}

		var price float64
		if isOpen {
			price = parseSplitPrice(cell.Find(priceGroupSelector))
			if math.IsNaN(price) {
				return
			}
		}

		out = append(out, models.DayCell{Day: day, Price: price, Open: isOpen})
	})
	return out
}

// collectAltCells reads dateValue cells: day in .dateValueDay, price as one
// formatted string in .dateValuePrice.
func collectAltCells(cells *goquery.Selection, isOpen bool) []models.DayCell {
	var out []models.DayCell
	cells.Each(func(_ int, cell *goquery.Selection) {
		day, ok := parseDay(cell.Find(altDaySelector).Text())
		if !ok {
			return
		}

		var price float64
		if isOpen {
			price = ParsePriceText(cell.Find(altPriceSelector).Text())
			if math.IsNaN(price) {
				return
			}
		}

		out = append(out, models.DayCell{Day: day, Price: price, Open: isOpen})
	})
	return out
}

// parseDay validates a day-number string. Cells that fail to parse are
// discarded, never defaulted to zero.
func parseDay(text string) (int, bool) {
	day, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || day < 1 || day > 31 {
		return 0, false
	}
	return day, true
}

// parseSplitPrice joins an integer span and a cents span into one decimal.
// "105" + "50" → 105.50. Missing parts default like the widget renders
// them: no integer span means 0, no cents span means 00.
func parseSplitPrice(group *goquery.Selection) float64 {
	if group.Length() == 0 {
		return 0
	}

	whole := strings.ReplaceAll(strings.TrimSpace(group.Find("span").First().Text()), ",", "")
	if whole == "" {
		whole = "0"
	}
	cents := strings.TrimSpace(group.Find(centsSelector).Text())
	if cents == "" {
		cents = "00"
	}

	return ParsePriceText(whole + "." + cents)
}

// ParsePriceText normalizes a displayed price such as "R$150.00" or
// "R$105,50" into a decimal. The empty string is 0; non-numeric text is
// deliberately NaN rather than being coerced.
func ParsePriceText(text string) float64 {
	cleaned := strings.ReplaceAll(text, "R$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return math.NaN()
	}
	return value
}
